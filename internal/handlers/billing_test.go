package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"voxcredit/internal/gateway"
	"voxcredit/internal/models"
	"voxcredit/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validVerifyBody = `{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"sig","plan_id":"starter"}`

func TestListPlans_Public(t *testing.T) {
	s := &service.Service{Plans: service.NewPlanCatalog()}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Plans []models.Plan `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Plans, 3)
	assert.Equal(t, "starter", out.Plans[0].ID)
}

func TestCreateOrder(t *testing.T) {
	cases := []struct {
		name     string
		billing  *mockBilling
		wantCode int
	}{
		{"ok", &mockBilling{order: service.OrderResult{OrderID: "order_9", Amount: 29900}}, http.StatusOK},
		{"unknown plan", &mockBilling{orderErr: service.ErrUnknownPlan}, http.StatusNotFound},
		{"gateway down", &mockBilling{orderErr: errors.New("timeout")}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &service.Service{Authorization: &mockAuth{parseID: 5}, Billing: tc.billing}
			r := newTestRouter(s)

			w := postJSON(r, "/api/v1/create-order/starter", "", authHeader("tok"))
			require.Equal(t, tc.wantCode, w.Code, w.Body.String())
			assert.Equal(t, "starter", tc.billing.lastPlan)
			assert.Equal(t, 5, tc.billing.lastUserID)
			if tc.wantCode == http.StatusOK {
				assert.JSONEq(t, `{"order_id":"order_9","amount":29900}`, w.Body.String())
			}
		})
	}
}

func TestCreateOrder_RequiresAuth(t *testing.T) {
	billing := &mockBilling{}
	s := &service.Service{Authorization: &mockAuth{}, Billing: billing}
	r := newTestRouter(s)

	w := postJSON(r, "/api/v1/create-order/starter", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, billing.lastPlan)
}

func TestVerifyPayment(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"credited", nil, http.StatusOK, ""},
		{"missing fields", service.ErrMissingFields, http.StatusBadRequest, "Missing details"},
		{"unknown plan", service.ErrUnknownPlan, http.StatusBadRequest, "Invalid plan"},
		{"bad signature", service.ErrVerificationFailed, http.StatusBadRequest, "Payment verification failed"},
		{"already credited", service.ErrAlreadyProcessed, http.StatusConflict, "Already credited"},
		{"db error", errors.New("disk full"), http.StatusInternalServerError, errVerifyPayment},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			billing := &mockBilling{credits: 10100, verifyErr: tc.err}
			s := &service.Service{Authorization: &mockAuth{parseID: 7}, Billing: billing}
			r := newTestRouter(s)

			w := postJSON(r, "/api/v1/verify-payment", validVerifyBody, authHeader("tok"))
			require.Equal(t, tc.wantCode, w.Code, w.Body.String())

			var out map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
			if tc.wantMsg != "" {
				assert.Equal(t, tc.wantMsg, out["error"])
				return
			}
			assert.Equal(t, true, out["success"])
			assert.EqualValues(t, 10100, out["new_credits"])
			assert.Equal(t, service.VerifyInput{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig", PlanID: "starter"}, billing.lastVerify)
			assert.Equal(t, 7, billing.lastUserID)
		})
	}
}

func TestRazorpayWebhook_PassesRawBodyAndSignature(t *testing.T) {
	hook := &mockWebhook{result: service.WebhookCredited}
	r := newTestRouter(&service.Service{Webhook: hook})

	// whitespace and key order must survive untouched for the HMAC
	body := `{ "event":"payment.captured",  "payload":{} }`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/razorpay-webhook", strings.NewReader(body))
	req.Header.Set(gateway.SignatureHeader, "abc123")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"status":"ok","result":"credited"}`, w.Body.String())
	assert.Equal(t, body, string(hook.lastBody))
	assert.Equal(t, "abc123", hook.lastSignature)
}

func TestRazorpayWebhook_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		result   service.WebhookResult
		err      error
		wantCode int
	}{
		{"duplicate acknowledged", service.WebhookDuplicate, nil, http.StatusOK},
		{"ignored event", service.WebhookIgnored, nil, http.StatusOK},
		{"bad signature", "", service.ErrInvalidWebhookSignature, http.StatusBadRequest},
		{"bad payload", "", fmt.Errorf("%w: no notes", service.ErrInvalidPayload), http.StatusBadRequest},
		{"storage failure", "", errors.New("locked"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hook := &mockWebhook{result: tc.result, err: tc.err}
			r := newTestRouter(&service.Service{Webhook: hook})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/razorpay-webhook", strings.NewReader(`{}`))
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.wantCode, w.Code, w.Body.String())
		})
	}
}

func TestRazorpayWebhook_BodyTooLarge(t *testing.T) {
	hook := &mockWebhook{}
	r := newTestRouter(&service.Service{Webhook: hook})

	big := bytes.Repeat([]byte("a"), maxWebhookBody+1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/razorpay-webhook", bytes.NewReader(big))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Zero(t, hook.calls)
}
