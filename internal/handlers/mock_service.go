package handlers

import (
	"context"
	"net/http"

	"voxcredit/internal/models"
	"voxcredit/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error
	resetReqErr   error
	resetErr      error

	lastSignUpUsername string
	lastSignUpEmail    string
	lastSignUpPassword string
	lastGenEmail       string
	lastGenPassword    string
	lastParseToken     string
	lastResetEmail     string
	lastResetURL       string
	lastResetToken     string
	resetRequests      int
}

func (m *mockAuth) SignUp(ctx context.Context, username, email, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpEmail = email
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, email, password string) (string, error) {
	m.lastGenEmail = email
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}
func (m *mockAuth) RequestPasswordReset(ctx context.Context, email, resetURLBase string) error {
	m.resetRequests++
	m.lastResetEmail = email
	m.lastResetURL = resetURLBase
	return m.resetReqErr
}
func (m *mockAuth) ResetPassword(ctx context.Context, token, password, confirm string) error {
	m.lastResetToken = token
	return m.resetErr
}

type mockAccounts struct {
	user       *models.User
	err        error
	balance    int
	balanceErr error
}

func (m *mockAccounts) GetAccount(ctx context.Context, userID int) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil {
		return nil, service.ErrUserNotFound
	}
	u := *m.user
	return &u, nil
}
func (m *mockAccounts) Balance(ctx context.Context, userID int) (int, error) {
	return m.balance, m.balanceErr
}
func (m *mockAccounts) SetAdmin(ctx context.Context, username string, admin bool) error {
	return nil
}

type mockBilling struct {
	order     service.OrderResult
	orderErr  error
	credits   int
	verifyErr error

	lastPlan   string
	lastUserID int
	lastVerify service.VerifyInput
}

func (m *mockBilling) CreateOrder(ctx context.Context, userID int, planID string) (service.OrderResult, error) {
	m.lastUserID = userID
	m.lastPlan = planID
	return m.order, m.orderErr
}
func (m *mockBilling) VerifyPayment(ctx context.Context, userID int, in service.VerifyInput) (int, error) {
	m.lastUserID = userID
	m.lastVerify = in
	return m.credits, m.verifyErr
}

type mockWebhook struct {
	result service.WebhookResult
	err    error

	lastBody      []byte
	lastSignature string
	calls         int
}

func (m *mockWebhook) HandleWebhook(ctx context.Context, body []byte, signature string) (service.WebhookResult, error) {
	m.calls++
	m.lastBody = body
	m.lastSignature = signature
	return m.result, m.err
}

type mockAudio struct {
	result     service.AudioResult
	err        error
	history    []models.AudioHistory
	historyErr error

	lastText  string
	lastLang  string
	lastLimit int
	calls     int
}

func (m *mockAudio) Generate(ctx context.Context, userID int, text, lang string) (service.AudioResult, error) {
	m.calls++
	m.lastText = text
	m.lastLang = lang
	return m.result, m.err
}
func (m *mockAudio) History(ctx context.Context, userID, limit int) ([]models.AudioHistory, error) {
	m.lastLimit = limit
	return m.history, m.historyErr
}

type mockLedger struct {
	resp     []models.Payment
	err      error
	lastList service.PaymentFilter
	calls    int
}

func (m *mockLedger) List(ctx context.Context, f service.PaymentFilter) ([]models.Payment, error) {
	m.calls++
	m.lastList = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
