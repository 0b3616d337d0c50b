// Package gateway wraps the Razorpay payment gateway: order creation,
// checkout signature verification and webhook envelopes.
package gateway

import (
	"context"
	"errors"
)

// CurrencyINR is the only currency the credit packs are sold in.
const CurrencyINR = "INR"

var (
	// ErrSignatureMismatch is returned when a checkout signature does not match
	// the (order id, payment id) pair.
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	// ErrMalformedEvent is returned when a webhook body cannot be decoded.
	ErrMalformedEvent = errors.New("malformed webhook event")
)

// OrderRequest is what the application asks the gateway to charge.
type OrderRequest struct {
	AmountMinor int // paise
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// Order is the gateway's answer to an OrderRequest.
type Order struct {
	ID       string
	Amount   int
	Currency string
	Notes    map[string]string
}

// Verifier checks a checkout signature for an (order id, payment id) pair.
type Verifier interface {
	VerifyPayment(orderID, paymentID, signature string) error
}

// OrderCreator opens a gateway order that the client checkout completes.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req OrderRequest) (Order, error)
}

// OrderFetcher reads back an order as the gateway recorded it.
type OrderFetcher interface {
	FetchOrder(ctx context.Context, orderID string) (Order, error)
}

// Gateway is the full client-side surface used by the billing service.
type Gateway interface {
	Verifier
	OrderCreator
	OrderFetcher
}
