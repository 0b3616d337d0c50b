package handlers

import (
	"errors"
	"net/http"

	"voxcredit/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errLoadAccount = "failed to load account"
	errNoUser      = "user not found"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// userOrUnauthorized reads the id stored by userIdMiddleware.
func userOrUnauthorized(c *gin.Context) (int, bool) {
	id, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errBadToken.Error()})
	}
	return id, ok
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Current account
// @Description  Profile of the caller including the credit balance.
// @Tags         account
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/me [get]
// @Security     BearerAuth
func (h *Handler) getAccount(c *gin.Context) {
	userID, ok := userOrUnauthorized(c)
	if !ok {
		return
	}
	u, err := h.services.Accounts.GetAccount(c.Request.Context(), userID)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errNoUser})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadAccount, "account_get_failed", err, "user_id", userID)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary      List plans
// @Tags         billing
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "plans"
// @Router       /api/v1/plans [get]
func (h *Handler) listPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.services.Plans.List()})
}
