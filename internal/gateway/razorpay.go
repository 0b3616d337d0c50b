package gateway

import (
	"context"
	"fmt"
	"strconv"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

// orderAPI is the subset of the SDK's order resource we call.
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
	Fetch(orderID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Razorpay talks to the gateway with the integration's key pair.
type Razorpay struct {
	orders    orderAPI
	keySecret string
}

var _ Gateway = (*Razorpay)(nil)

// NewRazorpay builds a gateway client for the given key id and secret.
func NewRazorpay(keyID, keySecret string) *Razorpay {
	client := razorpay.NewClient(keyID, keySecret)
	return &Razorpay{orders: client.Order, keySecret: keySecret}
}

// CreateOrder opens an auto-captured order for req.AmountMinor.
func (r *Razorpay) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	if err := ctx.Err(); err != nil {
		return Order{}, err
	}
	currency := req.Currency
	if currency == "" {
		currency = CurrencyINR
	}

	data := map[string]interface{}{
		"amount":          req.AmountMinor,
		"currency":        currency,
		"payment_capture": 1,
	}
	if req.Receipt != "" {
		data["receipt"] = req.Receipt
	}
	if len(req.Notes) > 0 {
		notes := make(map[string]interface{}, len(req.Notes))
		for k, v := range req.Notes {
			notes[k] = v
		}
		data["notes"] = notes
	}

	body, err := r.orders.Create(data, nil)
	if err != nil {
		return Order{}, fmt.Errorf("razorpay create order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return Order{}, fmt.Errorf("razorpay create order: response has no id")
	}
	order := Order{ID: id, Amount: req.AmountMinor, Currency: currency}
	if amount, ok := body["amount"].(float64); ok {
		order.Amount = int(amount)
	}
	if cur, ok := body["currency"].(string); ok && cur != "" {
		order.Currency = cur
	}
	return order, nil
}

// FetchOrder loads an order with its amount and notes. Note values are
// stringified since the gateway echoes them back as JSON.
func (r *Razorpay) FetchOrder(ctx context.Context, orderID string) (Order, error) {
	if err := ctx.Err(); err != nil {
		return Order{}, err
	}
	body, err := r.orders.Fetch(orderID, nil, nil)
	if err != nil {
		return Order{}, fmt.Errorf("razorpay fetch order %q: %w", orderID, err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return Order{}, fmt.Errorf("razorpay fetch order %q: response has no id", orderID)
	}
	order := Order{ID: id}
	if amount, ok := body["amount"].(float64); ok {
		order.Amount = int(amount)
	}
	order.Currency, _ = body["currency"].(string)
	if notes, ok := body["notes"].(map[string]interface{}); ok {
		order.Notes = make(map[string]string, len(notes))
		for k, v := range notes {
			switch val := v.(type) {
			case string:
				order.Notes[k] = val
			case float64:
				order.Notes[k] = strconv.FormatFloat(val, 'f', -1, 64)
			default:
				order.Notes[k] = fmt.Sprint(val)
			}
		}
	}
	return order, nil
}

// VerifyPayment checks the checkout signature with the SDK's verification
// helper, which signs "order_id|payment_id" with the key secret.
func (r *Razorpay) VerifyPayment(orderID, paymentID, signature string) error {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	if !utils.VerifyPaymentSignature(params, signature, r.keySecret) {
		return ErrSignatureMismatch
	}
	return nil
}
