package gateway

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-Razorpay-Signature"

// EventPaymentCaptured is the only webhook event that grants credits.
const EventPaymentCaptured = "payment.captured"

// VerifyWebhookSignature checks signatureHeader against the HMAC-SHA256 of the
// exact payload bytes keyed by webhookSecret.
func VerifyWebhookSignature(payload []byte, signatureHeader, webhookSecret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	if sig == "" || webhookSecret == "" {
		return false
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), decodedSig)
}

// SignWebhookPayload returns the hex signature the gateway would send for payload.
func SignWebhookPayload(payload []byte, webhookSecret string) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// WebhookEvent is the part of a webhook delivery the application acts on.
type WebhookEvent struct {
	Event     string
	PaymentID string
	OrderID   string
	Amount    int // paise, informational only
	UserID    int // 0 when absent or unparseable
	PlanID    string
}

type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string          `json:"id"`
				OrderID string          `json:"order_id"`
				Amount  int             `json:"amount"`
				Notes   json.RawMessage `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ParseWebhookEvent decodes a webhook body. Notes may be an object or, when the
// order carried none, an empty array.
func ParseWebhookEvent(body []byte) (WebhookEvent, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return WebhookEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	entity := env.Payload.Payment.Entity
	ev := WebhookEvent{
		Event:     env.Event,
		PaymentID: entity.ID,
		OrderID:   entity.OrderID,
		Amount:    entity.Amount,
	}

	notes := bytes.TrimSpace(entity.Notes)
	if len(notes) == 0 || notes[0] != '{' {
		return ev, nil
	}
	var m map[string]any
	if err := json.Unmarshal(notes, &m); err != nil {
		return WebhookEvent{}, fmt.Errorf("%w: notes: %v", ErrMalformedEvent, err)
	}
	ev.UserID = noteInt(m["user_id"])
	if plan, ok := m["plan_id"].(string); ok {
		ev.PlanID = strings.TrimSpace(plan)
	}
	return ev, nil
}

func noteInt(v any) int {
	switch t := v.(type) {
	case float64:
		if t == float64(int(t)) {
			return int(t)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return 0
}
