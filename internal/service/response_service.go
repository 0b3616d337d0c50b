package service

import (
	"voxcredit/internal/models"
	"voxcredit/internal/repository"
)

// VerifyInput is the checkout callback forwarded by the client.
type VerifyInput struct {
	OrderID   string
	PaymentID string
	Signature string
	PlanID    string
}

type OrderResult struct {
	OrderID string `json:"order_id"`
	Amount  int    `json:"amount"` // paise
}

// WebhookResult says what a webhook delivery did.
type WebhookResult string

const (
	WebhookIgnored   WebhookResult = "ignored"
	WebhookDuplicate WebhookResult = "duplicate"
	WebhookCredited  WebhookResult = "credited"
)

type AudioResult struct {
	AudioURL         string                `json:"audio_url"`
	History          []models.AudioHistory `json:"history"`
	RemainingCredits int                   `json:"remaining_credits"`
}

// PaymentFilter supports ledger filtering by time range and status.
type PaymentFilter = repository.PaymentFilter
