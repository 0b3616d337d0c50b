package models

import "time"

const (
	PaymentPending = "pending"
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

// Payment is a reconciled gateway transaction. GatewayPaymentID is unique
// across the table; a success row means the credits were granted once.
type Payment struct {
	ID               int       `json:"id"`
	UserID           int       `json:"user_id"`
	PlanID           string    `json:"plan_id"`
	PlanName         string    `json:"plan_name"`
	Amount           int       `json:"amount"` // major currency unit (INR)
	CreditsAdded     int       `json:"credits_added"`
	GatewayOrderID   string    `json:"razorpay_order_id"`
	GatewayPaymentID string    `json:"razorpay_payment_id"`
	Signature        string    `json:"-"`
	Status           string    `json:"status"` // pending | success | failed
	CreatedAt        time.Time `json:"created_at"`
}
