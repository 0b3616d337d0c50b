package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"voxcredit/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const testSigningKey = "test-signing-key"

func newTestAuth(users *fakeUsers, mailer *fakeMailer) *AuthService {
	if mailer == nil {
		mailer = &fakeMailer{}
	}
	return NewAuthService(users, mailer, nil, AuthConfig{SigningKey: testSigningKey, SignupBonus: 100})
}

func userWithPassword(t *testing.T, id int, email, password string) models.User {
	t.Helper()
	hash, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	return models.User{ID: id, Username: strings.Split(email, "@")[0], Email: email, PasswordHash: hash}
}

// --- SignUp tests ---

func TestAuthService_SignUp_SuccessHashesPasswordAndGrantsBonus(t *testing.T) {
	users := newFakeUsers()
	svc := newTestAuth(users, nil)

	id, err := svc.SignUp(context.Background(), "alice", "  Alice@Example.COM ", "s3cr3t")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}

	u, _ := users.GetByID(context.Background(), id)
	if u == nil {
		t.Fatalf("user %d not stored", id)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", u.Email)
	}
	if u.Credits != 100 {
		t.Errorf("expected 100 signup credits, got %d", u.Credits)
	}
	if u.PasswordHash == "s3cr3t" {
		t.Errorf("expected hashed password not equal to raw password")
	}
	if err := verifyPassword(u.PasswordHash, "s3cr3t"); err != nil {
		t.Errorf("stored hash does not verify with original password: %v", err)
	}
}

func TestAuthService_SignUp_Duplicate(t *testing.T) {
	users := newFakeUsers(models.User{ID: 1, Username: "alice", Email: "alice@example.com"})
	svc := newTestAuth(users, nil)

	cases := []struct{ username, email string }{
		{"alice", "other@example.com"},
		{"other", "ALICE@example.com"},
	}
	for _, c := range cases {
		_, err := svc.SignUp(context.Background(), c.username, c.email, "pw")
		if !errors.Is(err, ErrUserExists) {
			t.Fatalf("SignUp(%q, %q): expected ErrUserExists, got %v", c.username, c.email, err)
		}
	}
}

func TestAuthService_SignUp_MissingFields(t *testing.T) {
	users := newFakeUsers()
	svc := newTestAuth(users, nil)

	cases := []struct{ username, email, password string }{
		{"", "a@example.com", "pw"},
		{"bob", "  ", "pw"},
		{"bob", "b@example.com", "   "},
	}
	for _, c := range cases {
		if _, err := svc.SignUp(context.Background(), c.username, c.email, c.password); !errors.Is(err, ErrInvalidSignUp) {
			t.Fatalf("expected ErrInvalidSignUp for %+v, got %v", c, err)
		}
	}
	if len(users.byID) != 0 {
		t.Fatalf("expected no users created, got %d", len(users.byID))
	}
}

func TestAuthService_SignUp_RepoError(t *testing.T) {
	users := newFakeUsers()
	users.err = errors.New("db down")
	svc := newTestAuth(users, nil)

	_, err := svc.SignUp(context.Background(), "carl", "carl@example.com", "pass123")
	if err == nil {
		t.Fatalf("expected repo error, got nil")
	}
}

// --- GenerateToken tests ---

func TestAuthService_GenerateToken_Success(t *testing.T) {
	users := newFakeUsers(userWithPassword(t, 7, "diana@example.com", "letmein"))
	svc := newTestAuth(users, nil)

	token, err := svc.GenerateToken(context.Background(), " DIANA@example.com", "letmein")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	uid, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if uid != 7 {
		t.Fatalf("expected user id 7 from token, got %d", uid)
	}
}

func TestAuthService_GenerateToken_Failures(t *testing.T) {
	users := newFakeUsers(userWithPassword(t, 1, "eve@example.com", "correct"))
	svc := newTestAuth(users, nil)

	if _, err := svc.GenerateToken(context.Background(), "ghost@example.com", "pw"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got: %v", err)
	}
	if _, err := svc.GenerateToken(context.Background(), "eve@example.com", "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got: %v", err)
	}

	users.err = errors.New("query failed")
	if _, err := svc.GenerateToken(context.Background(), "eve@example.com", "correct"); err == nil {
		t.Fatalf("expected repo error, got nil")
	}
}

// --- ParseToken tests ---

func signClaims(t *testing.T, claims *Claims, key string) string {
	t.Helper()
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tk.SignedString([]byte(key))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return s
}

func TestAuthService_ParseToken_Rejects(t *testing.T) {
	svc := newTestAuth(newFakeUsers(), nil)
	now := time.Now()
	valid := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	past := now.Add(-2 * time.Hour)

	cases := map[string]string{
		"malformed":     "not-a-jwt",
		"other key":     signClaims(t, &Claims{RegisteredClaims: valid, UserID: 5}, "different-key"),
		"expired":       signClaims(t, &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(past)}, UserID: 11}, testSigningKey),
		"reset purpose": signClaims(t, &Claims{RegisteredClaims: valid, UserID: 5, Purpose: purposePasswordReset}, testSigningKey),
	}
	for name, token := range cases {
		if _, err := svc.ParseToken(token); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestAuthService_ParseToken_UnexpectedAlg(t *testing.T) {
	svc := newTestAuth(newFakeUsers(), nil)

	now := time.Now()

	// Generate RSA key for RS256 signing
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}

	tk := jwt.NewWithClaims(jwt.SigningMethodRS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: 12,
	})
	tokenStr, err := tk.SignedString(privateKey)
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if _, err = svc.ParseToken(tokenStr); err == nil {
		t.Fatalf("expected error due to unexpected signing method")
	}
}

// --- password reset tests ---

func tokenFromLink(t *testing.T, body string) string {
	t.Helper()
	idx := strings.Index(body, "http://app.test/reset?token=")
	if idx < 0 {
		t.Fatalf("reset link not found in %q", body)
	}
	link := strings.Fields(body[idx:])[0]
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	return u.Query().Get("token")
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	users := newFakeUsers(userWithPassword(t, 3, "frank@example.com", "old-pass"))
	mailer := &fakeMailer{}
	svc := newTestAuth(users, mailer)
	ctx := context.Background()

	if err := svc.RequestPasswordReset(ctx, "Frank@example.com", "http://app.test/reset"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].To != "frank@example.com" {
		t.Fatalf("expected one mail to frank, got %+v", mailer.sent)
	}
	token := tokenFromLink(t, mailer.sent[0].Text)

	// a reset token is not an access token
	if _, err := svc.ParseToken(token); err == nil {
		t.Fatalf("reset token must not authenticate API calls")
	}

	if err := svc.ResetPassword(ctx, token, "new-pass", "other"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if err := svc.ResetPassword(ctx, token, "", ""); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch for empty password, got %v", err)
	}
	if err := svc.ResetPassword(ctx, token, "new-pass", "new-pass"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, err := svc.GenerateToken(ctx, "frank@example.com", "old-pass"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("old password should no longer work, got %v", err)
	}
	if _, err := svc.GenerateToken(ctx, "frank@example.com", "new-pass"); err != nil {
		t.Fatalf("new password should work: %v", err)
	}
}

func TestAuthService_RequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestAuth(newFakeUsers(), mailer)

	if err := svc.RequestPasswordReset(context.Background(), "nobody@example.com", "http://app.test/reset"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("expected no mail, got %d", len(mailer.sent))
	}
}

func TestAuthService_RequestPasswordReset_MailerError(t *testing.T) {
	users := newFakeUsers(userWithPassword(t, 3, "frank@example.com", "pw"))
	svc := newTestAuth(users, &fakeMailer{err: errors.New("smtp down")})

	if err := svc.RequestPasswordReset(context.Background(), "frank@example.com", "http://app.test/reset"); err == nil {
		t.Fatalf("expected mailer error")
	}
}

func TestAuthService_ResetPassword_InvalidToken(t *testing.T) {
	users := newFakeUsers(userWithPassword(t, 3, "frank@example.com", "pw"))
	svc := newTestAuth(users, nil)
	ctx := context.Background()

	access, err := svc.issueToken(3, "", time.Hour)
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	expired, err := svc.issueToken(3, purposePasswordReset, -time.Minute)
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	orphan, err := svc.issueToken(404, purposePasswordReset, time.Hour)
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}

	for name, token := range map[string]string{
		"garbage":      "nope",
		"access token": access,
		"expired":      expired,
		"unknown user": orphan,
	} {
		if err := svc.ResetPassword(ctx, token, "x", "x"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
	if len(users.passwordUpdates) != 0 {
		t.Fatalf("no password should have changed")
	}
}
