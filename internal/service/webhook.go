package service

import (
	"context"
	"errors"
	"fmt"

	"voxcredit/internal/gateway"
	"voxcredit/internal/logger"
	"voxcredit/internal/repository"
)

type WebhookService struct {
	payments repository.Payments
	plans    *PlanCatalog
	secret   string
	log      *logger.Logger
}

func NewWebhookService(payments repository.Payments, plans *PlanCatalog, secret string, log *logger.Logger) *WebhookService {
	if plans == nil {
		plans = NewPlanCatalog()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &WebhookService{payments: payments, plans: plans, secret: secret, log: log}
}

// HandleWebhook authenticates a raw delivery and credits captured payments.
// Redeliveries and payments already credited by the client path are no-ops.
func (s *WebhookService) HandleWebhook(ctx context.Context, body []byte, signature string) (WebhookResult, error) {
	if !gateway.VerifyWebhookSignature(body, signature, s.secret) {
		return "", ErrInvalidWebhookSignature
	}

	ev, err := gateway.ParseWebhookEvent(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if ev.Event != gateway.EventPaymentCaptured {
		s.log.Debugw("webhook_ignored", "event", ev.Event)
		return WebhookIgnored, nil
	}
	if ev.PaymentID == "" {
		return "", ErrInvalidPayload
	}

	// A credited payment acks regardless of its notes.
	done, err := s.payments.HasSucceeded(ctx, ev.PaymentID)
	if err != nil {
		return "", fmt.Errorf("check payment %q: %w", ev.PaymentID, err)
	}
	if done {
		return WebhookDuplicate, nil
	}

	if ev.UserID <= 0 || ev.PlanID == "" {
		return "", ErrInvalidPayload
	}
	plan, ok := s.plans.Get(ev.PlanID)
	if !ok {
		return "", fmt.Errorf("%w: unknown plan %q", ErrInvalidPayload, ev.PlanID)
	}

	balance, err := s.payments.GrantCredits(ctx, repository.Grant{
		UserID:    ev.UserID,
		PlanID:    plan.ID,
		PlanName:  plan.Name,
		Amount:    plan.Price,
		Credits:   plan.Credits,
		OrderID:   ev.OrderID,
		PaymentID: ev.PaymentID,
	})
	switch {
	case errors.Is(err, repository.ErrPaymentExists):
		return WebhookDuplicate, nil
	case errors.Is(err, repository.ErrUserNotFound):
		return "", fmt.Errorf("%w: unknown user %d", ErrInvalidPayload, ev.UserID)
	case err != nil:
		return "", fmt.Errorf("grant credits for payment %q: %w", ev.PaymentID, err)
	}

	s.log.Infow("payment_credited", "source", "webhook", "user_id", ev.UserID, "plan_id", plan.ID,
		"payment_id", ev.PaymentID, "credits_added", plan.Credits, "balance", balance)
	return WebhookCredited, nil
}
