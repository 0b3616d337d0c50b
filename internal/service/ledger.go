package service

import (
	"context"
	"strings"
	"time"

	"voxcredit/internal/models"
	"voxcredit/internal/repository"
)

type PaymentLedgerService struct {
	payments repository.Payments
}

func NewPaymentLedgerService(payments repository.Payments) *PaymentLedgerService {
	return &PaymentLedgerService{payments: payments}
}

var validStatuses = map[string]bool{
	models.PaymentPending: true,
	models.PaymentSuccess: true,
	models.PaymentFailed:  true,
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeStatus trims spaces and lowercases the status filter.
func normalizeStatus(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// normalizeAndValidateFilter prepares query parameters and validates them.
func normalizeAndValidateFilter(f PaymentFilter) (repository.PaymentFilter, error) {
	from := toUTC(f.From)
	to := toUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return repository.PaymentFilter{}, ErrInvalidTimeRange
	}

	status := normalizeStatus(f.Status)
	if status != "" && !validStatuses[status] {
		return repository.PaymentFilter{}, ErrInvalidStatus
	}

	userID := f.UserID
	if userID < 0 {
		userID = 0
	}
	return repository.PaymentFilter{From: from, To: to, Status: status, UserID: userID}, nil
}

func (s *PaymentLedgerService) List(ctx context.Context, f PaymentFilter) ([]models.Payment, error) {
	rf, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	items, err := s.payments.List(ctx, rf)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Payment{}
	}
	return items, nil
}
