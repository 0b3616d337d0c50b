package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"voxcredit/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errGenerateAudio = "failed to generate audio"
	errLoadHistory   = "failed to load history"
)

// GenerateAudioRequest is the text to speak and its language.
type GenerateAudioRequest struct {
	// Text to synthesize
	Text string `json:"text" binding:"required" example:"Hello from VoxCredit"`
	// Language tag, defaults to en
	Lang string `json:"lang,omitempty" binding:"omitempty,lang" example:"en"`
}

// @Summary      Generate audio
// @Description  Synthesizes speech and debits the per-generation cost. Returns 402 when the balance is too low.
// @Tags         audio
// @Accept       json
// @Produce      json
// @Param        body  body      GenerateAudioRequest  true  "Text payload"
// @Success      200   {object}  service.AudioResult
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      402   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/generate-audio [post]
// @Security     BearerAuth
func (h *Handler) generateAudio(c *gin.Context) {
	userID, ok := userOrUnauthorized(c)
	if !ok {
		return
	}
	var req GenerateAudioRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	res, err := h.services.Generate(c.Request.Context(), userID, req.Text, req.Lang)
	switch {
	case errors.Is(err, service.ErrEmptyText), errors.Is(err, service.ErrTextTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrInsufficientCredits):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient credits"})
		return
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNoUser})
		return
	case errors.Is(err, service.ErrSynthesisFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": errGenerateAudio})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errGenerateAudio, "audio_generate_failed", err, "user_id", userID)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Audio history
// @Tags         audio
// @Produce      json
// @Param        limit  query     int  false  "Max entries, capped by server configuration"  example(10)
// @Success      200    {object}  map[string]interface{}  "history"
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/history [get]
// @Security     BearerAuth
func (h *Handler) getHistory(c *gin.Context) {
	userID, ok := userOrUnauthorized(c)
	if !ok {
		return
	}
	// non-numeric or missing limit falls back to the server default
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := h.services.History(c.Request.Context(), userID, limit)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadHistory, "history_list_failed", err, "user_id", userID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": items})
}
