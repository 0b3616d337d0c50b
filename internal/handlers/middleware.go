package handlers

import (
	"errors"
	"net/http"
	"strings"

	"voxcredit/internal/service"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userId"

var (
	errMissingAuthHeader = errors.New("missing Authorization header")
	errBadAuthHeader     = errors.New("invalid Authorization header format")
	errBadToken          = errors.New("invalid or expired token")
)

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errMissingAuthHeader
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", errBadAuthHeader
	}
	return strings.TrimSpace(parts[1]), nil
}

func (h *Handler) userIdMiddleware(c *gin.Context) {
	token, err := bearerToken(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	userId, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errBadToken.Error()})
		return
	}

	// store in Gin context
	c.Set(userIDKey, userId)
	c.Next()
}

// adminMiddleware must run after userIdMiddleware.
func (h *Handler) adminMiddleware(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errBadToken.Error()})
		return
	}

	u, err := h.services.Accounts.GetAccount(c.Request.Context(), userID)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errBadToken.Error()})
		return
	case err != nil:
		if h.log != nil {
			h.log.Errorw("admin_lookup_failed", "err", err, "user_id", userID)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load account"})
		return
	}
	if !u.IsAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return
	}
	c.Next()
}

func currentUserID(c *gin.Context) (int, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok && id > 0
}
