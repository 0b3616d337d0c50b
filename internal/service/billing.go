package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"voxcredit/internal/gateway"
	"voxcredit/internal/logger"
	"voxcredit/internal/models"
	"voxcredit/internal/repository"
)

type BillingService struct {
	payments repository.Payments
	gateway  gateway.Gateway
	plans    *PlanCatalog
	log      *logger.Logger
	now      func() time.Time
}

func NewBillingService(payments repository.Payments, gw gateway.Gateway, plans *PlanCatalog, log *logger.Logger) *BillingService {
	if plans == nil {
		plans = NewPlanCatalog()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &BillingService{payments: payments, gateway: gw, plans: plans, log: log, now: time.Now}
}

// CreateOrder opens a gateway order for the plan price. The user and plan ride
// along in the order notes so the webhook can credit the right account.
func (s *BillingService) CreateOrder(ctx context.Context, userID int, planID string) (OrderResult, error) {
	plan, ok := s.plans.Get(planID)
	if !ok {
		return OrderResult{}, ErrUnknownPlan
	}

	order, err := s.gateway.CreateOrder(ctx, gateway.OrderRequest{
		AmountMinor: AmountMinor(plan),
		Currency:    gateway.CurrencyINR,
		Receipt:     fmt.Sprintf("u%d_%s_%d", userID, plan.ID, s.now().Unix()),
		Notes: map[string]string{
			"user_id": strconv.Itoa(userID),
			"plan_id": plan.ID,
		},
	})
	if err != nil {
		return OrderResult{}, fmt.Errorf("create order for plan %q: %w", plan.ID, err)
	}

	s.log.Infow("order_created", "user_id", userID, "plan_id", plan.ID, "order_id", order.ID, "amount", order.Amount)
	return OrderResult{OrderID: order.ID, Amount: order.Amount}, nil
}

// VerifyPayment reconciles a checkout callback and returns the new balance.
// Credits come from the catalog, and the payment id can be credited once.
// The gateway order must have been opened for this user and plan.
func (s *BillingService) VerifyPayment(ctx context.Context, userID int, in VerifyInput) (int, error) {
	in = VerifyInput{
		OrderID:   strings.TrimSpace(in.OrderID),
		PaymentID: strings.TrimSpace(in.PaymentID),
		Signature: strings.TrimSpace(in.Signature),
		PlanID:    strings.TrimSpace(in.PlanID),
	}
	if in.OrderID == "" || in.PaymentID == "" || in.Signature == "" || in.PlanID == "" {
		return 0, ErrMissingFields
	}
	plan, ok := s.plans.Get(in.PlanID)
	if !ok {
		return 0, ErrUnknownPlan
	}

	done, err := s.payments.HasSucceeded(ctx, in.PaymentID)
	if err != nil {
		return 0, fmt.Errorf("check payment %q: %w", in.PaymentID, err)
	}
	if done {
		return 0, ErrAlreadyProcessed
	}

	if err := s.gateway.VerifyPayment(in.OrderID, in.PaymentID, in.Signature); err != nil {
		s.log.Warnw("payment_verification_failed", "user_id", userID, "order_id", in.OrderID, "payment_id", in.PaymentID, "error", err)
		return 0, ErrVerificationFailed
	}
	if err := s.checkOrder(ctx, userID, plan, in.OrderID); err != nil {
		return 0, err
	}

	balance, err := s.payments.GrantCredits(ctx, repository.Grant{
		UserID:    userID,
		PlanID:    plan.ID,
		PlanName:  plan.Name,
		Amount:    plan.Price,
		Credits:   plan.Credits,
		OrderID:   in.OrderID,
		PaymentID: in.PaymentID,
		Signature: in.Signature,
	})
	switch {
	case errors.Is(err, repository.ErrPaymentExists):
		return 0, ErrAlreadyProcessed
	case errors.Is(err, repository.ErrUserNotFound):
		return 0, ErrUserNotFound
	case err != nil:
		return 0, fmt.Errorf("grant credits for payment %q: %w", in.PaymentID, err)
	}

	s.log.Infow("payment_credited", "source", "client", "user_id", userID, "plan_id", plan.ID,
		"payment_id", in.PaymentID, "credits_added", plan.Credits, "balance", balance)
	return balance, nil
}

// checkOrder matches the gateway's record of the order against the claimed
// plan and the caller, so a paid order can't be redeemed for a bigger pack.
func (s *BillingService) checkOrder(ctx context.Context, userID int, plan models.Plan, orderID string) error {
	order, err := s.gateway.FetchOrder(ctx, orderID)
	if err != nil {
		s.log.Warnw("order_fetch_failed", "user_id", userID, "order_id", orderID, "error", err)
		return ErrVerificationFailed
	}
	if order.Notes["plan_id"] != plan.ID || order.Notes["user_id"] != strconv.Itoa(userID) || order.Amount != AmountMinor(plan) {
		s.log.Warnw("order_mismatch", "user_id", userID, "order_id", orderID, "plan_id", plan.ID,
			"order_plan_id", order.Notes["plan_id"], "order_user_id", order.Notes["user_id"], "order_amount", order.Amount)
		return ErrVerificationFailed
	}
	return nil
}
