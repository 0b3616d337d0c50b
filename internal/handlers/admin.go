package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"voxcredit/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errUserInvalid = "invalid 'user_id'; expected a positive integer"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List payments
// @Description  Admin view of the payment ledger. Dates accept RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'. A date-only 'to' is inclusive to end of day.
// @Tags         admin
// @Produce      json
// @Param        from     query   string  false  "Start of range"  example(2025-08-01)
// @Param        to       query   string  false  "End of range. Date-only treated as end of day."  example(2025-08-31)
// @Param        status   query   string  false  "Payment status"  Enums(pending,success,failed)
// @Param        user_id  query   int     false  "Owner of the payments"
// @Success      200   {object}  map[string]interface{}  "count, payments"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/admin/payments [get]
// @Security     BearerAuth
func (h *Handler) getPayments(c *gin.Context) {
	var (
		filter service.PaymentFilter
		err    error
	)
	if qs := c.Query("from"); qs != "" {
		filter.From, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		filter.To, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			filter.To = filter.To.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if qs := c.Query("user_id"); qs != "" {
		id, convErr := strconv.Atoi(qs)
		if convErr != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errUserInvalid})
			return
		}
		filter.UserID = id
	}
	filter.Status = c.Query("status")

	payments, err := h.services.PaymentLedger.List(c.Request.Context(), filter)
	switch {
	case errors.Is(err, service.ErrInvalidTimeRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return
	case errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load payments", "payments_list_failed", err,
			"from", filter.From, "to", filter.To, "status", filter.Status)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(payments),
		"payments": payments,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
