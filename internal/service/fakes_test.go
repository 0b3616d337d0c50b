package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"voxcredit/internal/gateway"
	"voxcredit/internal/mail"
	"voxcredit/internal/models"
	"voxcredit/internal/repository"
	"voxcredit/internal/tts"
)

// fakeUsers is an in-memory repository.Users keyed by id.
type fakeUsers struct {
	mu     sync.Mutex
	byID   map[int]*models.User
	nextID int
	err    error

	passwordUpdates map[int]string
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{byID: map[int]*models.User{}, passwordUpdates: map[int]string{}}
	for _, u := range users {
		u := u
		if u.ID > f.nextID {
			f.nextID = u.ID
		}
		f.byID[u.ID] = &u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u models.User) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	for _, existing := range f.byID {
		if existing.Username == u.Username || existing.Email == u.Email {
			return 0, repository.ErrUserExists
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = &u
	return u.ID, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) find(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Username == username })
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeUsers) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	u, err := f.find(func(u *models.User) bool { return u.Username == username || u.Email == email })
	return u != nil, err
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id int, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = hash
	f.passwordUpdates[id] = hash
	return nil
}

func (f *fakeUsers) SetAdmin(_ context.Context, username string, admin bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == username {
			u.IsAdmin = admin
			return nil
		}
	}
	return repository.ErrUserNotFound
}

// fakePayments emulates the ledger's unique payment id and credit update.
type fakePayments struct {
	mu       sync.Mutex
	balances map[int]int
	grants   map[string]repository.Grant

	hasErr   error
	grantErr error

	grantCalls int
	gotFilter  repository.PaymentFilter
	listResp   []models.Payment
	listErr    error
	listCalls  int
}

func newFakePayments(balances map[int]int) *fakePayments {
	return &fakePayments{balances: balances, grants: map[string]repository.Grant{}}
}

func (f *fakePayments) HasSucceeded(_ context.Context, paymentID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hasErr != nil {
		return false, f.hasErr
	}
	_, ok := f.grants[paymentID]
	return ok, nil
}

func (f *fakePayments) GrantCredits(_ context.Context, g repository.Grant) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grantCalls++
	if f.grantErr != nil {
		return 0, f.grantErr
	}
	if _, ok := f.grants[g.PaymentID]; ok {
		return 0, repository.ErrPaymentExists
	}
	bal, ok := f.balances[g.UserID]
	if !ok {
		return 0, repository.ErrUserNotFound
	}
	bal += g.Credits
	f.balances[g.UserID] = bal
	f.grants[g.PaymentID] = g
	return bal, nil
}

func (f *fakePayments) List(_ context.Context, rf repository.PaymentFilter) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.gotFilter = rf
	return f.listResp, f.listErr
}

func (f *fakePayments) balance(userID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[userID]
}

// racyPayments never sees the success row in the pre-check, like a request
// that lost the race to a concurrent writer.
type racyPayments struct {
	*fakePayments
}

func (r racyPayments) HasSucceeded(context.Context, string) (bool, error) {
	return false, nil
}

// fakeAudio records debits against a balance map.
type fakeAudio struct {
	mu       sync.Mutex
	balances map[int]int
	entries  []models.AudioHistory
	debitErr error
	listErr  error
}

func (f *fakeAudio) DebitAndRecord(_ context.Context, cost int, entry models.AudioHistory) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.debitErr != nil {
		return 0, f.debitErr
	}
	if f.balances[entry.UserID] < cost {
		return 0, repository.ErrInsufficientCredits
	}
	f.balances[entry.UserID] -= cost
	entry.ID = len(f.entries) + 1
	entry.CreatedAt = time.Now().UTC()
	f.entries = append(f.entries, entry)
	return f.balances[entry.UserID], nil
}

func (f *fakeAudio) ListRecent(_ context.Context, userID, limit int) ([]models.AudioHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.AudioHistory
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if f.entries[i].UserID == userID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func (f *fakeAudio) HasFile(_ context.Context, filename string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return false, f.listErr
	}
	for _, e := range f.entries {
		if e.AudioFilename == filename {
			return true, nil
		}
	}
	return false, nil
}

// fakeGateway signs nothing; it answers with preset results.
type fakeGateway struct {
	mu        sync.Mutex
	order     gateway.Order
	createErr error
	verifyErr error
	orders    map[string]gateway.Order
	fetchErr  error

	gotReq      gateway.OrderRequest
	createCalls int
	verifyCalls int
	fetchCalls  int
}

func (g *fakeGateway) CreateOrder(_ context.Context, req gateway.OrderRequest) (gateway.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls++
	g.gotReq = req
	if g.createErr != nil {
		return gateway.Order{}, g.createErr
	}
	order := g.order
	if order.Amount == 0 {
		order.Amount = req.AmountMinor
	}
	return order, nil
}

func (g *fakeGateway) VerifyPayment(_, _, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verifyCalls++
	return g.verifyErr
}

func (g *fakeGateway) FetchOrder(_ context.Context, orderID string) (gateway.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetchCalls++
	if g.fetchErr != nil {
		return gateway.Order{}, g.fetchErr
	}
	order, ok := g.orders[orderID]
	if !ok {
		return gateway.Order{}, fmt.Errorf("order %q not found", orderID)
	}
	return order, nil
}

// paidOrderGateway knows a single order opened for userID and planID.
func paidOrderGateway(orderID string, userID int, planID string) *fakeGateway {
	plan, _ := NewPlanCatalog().Get(planID)
	return &fakeGateway{orders: map[string]gateway.Order{
		orderID: {
			ID:       orderID,
			Amount:   AmountMinor(plan),
			Currency: gateway.CurrencyINR,
			Notes:    map[string]string{"user_id": strconv.Itoa(userID), "plan_id": planID},
		},
	}}
}

// fakeSynth writes a small placeholder file into the output dir.
type fakeSynth struct {
	mu    sync.Mutex
	err   error
	calls int
	last  string
}

func (s *fakeSynth) Synthesize(_ context.Context, text, lang, outputDir string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if err := tts.EnsureDir(outputDir); err != nil {
		return "", err
	}
	name := tts.GenerateFilename(time.Now())
	if err := os.WriteFile(filepath.Join(outputDir, name), []byte("ID3"), 0o644); err != nil {
		return "", err
	}
	s.last = name
	return name, nil
}

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}
