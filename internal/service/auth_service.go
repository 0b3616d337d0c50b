package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"voxcredit/internal/logger"
	"voxcredit/internal/mail"
	"voxcredit/internal/models"
	"voxcredit/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL    = time.Hour
	defaultResetTTL    = time.Hour
	defaultSignupBonus = 100

	purposePasswordReset = "password_reset"
)

type AuthConfig struct {
	SigningKey  string
	TokenTTL    time.Duration
	ResetTTL    time.Duration
	SignupBonus int
}

// AuthService handles user auth logic
type AuthService struct {
	users  repository.Users
	mailer mail.Mailer
	log    *logger.Logger
	cfg    AuthConfig
	now    func() time.Time
}

func NewAuthService(users repository.Users, mailer mail.Mailer, log *logger.Logger, cfg AuthConfig) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = defaultResetTTL
	}
	if cfg.SignupBonus < 0 {
		cfg.SignupBonus = defaultSignupBonus
	}
	if log == nil {
		log = logger.NewNop()
	}
	if mailer == nil {
		mailer = mail.NewLogMailer(log)
	}
	return &AuthService{users: users, mailer: mailer, log: log, cfg: cfg, now: time.Now}
}

// SignUp hashes password and creates a new user with the signup bonus.
func (s *AuthService) SignUp(ctx context.Context, username, email, password string) (int, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || strings.TrimSpace(password) == "" {
		return 0, ErrInvalidSignUp
	}

	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSignUp, err)
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrUserExists
	}

	id, err := s.users.Create(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Credits:      s.cfg.SignupBonus,
	})
	if errors.Is(err, repository.ErrUserExists) {
		return 0, ErrUserExists
	}
	return id, err
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID  int    `json:"user_id"`
	Purpose string `json:"purpose,omitempty"`
}

// GenerateToken validates credentials and returns JWT
func (s *AuthService) GenerateToken(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrUserNotFound
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", ErrInvalidPassword
	}

	return s.issueToken(u.ID, "", s.cfg.TokenTTL)
}

// ParseToken parses an access JWT and returns userID
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	claims, err := s.parseClaims(accessToken)
	if err != nil {
		return 0, err
	}
	if claims.Purpose != "" {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// RequestPasswordReset mails a short-lived reset link. Unknown addresses are
// accepted silently so the endpoint does not reveal who is registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email, resetURLBase string) error {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if u == nil {
		s.log.Infow("password_reset_unknown_email", "email", email)
		return nil
	}

	token, err := s.issueToken(u.ID, purposePasswordReset, s.cfg.ResetTTL)
	if err != nil {
		return err
	}
	link := resetURLBase + "?token=" + url.QueryEscape(token)

	msg := mail.Message{
		To:      u.Email,
		Subject: "Password Reset Request",
		Text: fmt.Sprintf("Hi %s,\n\nTo reset your password, open the link below:\n%s\n\n"+
			"The link expires in %s. If you did not ask for a reset, ignore this email.\n",
			u.Username, link, s.cfg.ResetTTL),
		HTML: fmt.Sprintf(`<p>Hi %s,</p><p><a href="%s">Reset your password</a></p><p>The link expires in %s.</p>`,
			u.Username, link, s.cfg.ResetTTL),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	s.log.Infow("password_reset_requested", "user_id", u.ID)
	return nil
}

// ResetPassword sets a new password for the user named by a reset token.
func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	claims, err := s.parseClaims(token)
	if err != nil {
		return ErrInvalidToken
	}
	if claims.Purpose != purposePasswordReset {
		return ErrInvalidToken
	}
	if strings.TrimSpace(password) == "" || password != confirm {
		return ErrPasswordMismatch
	}

	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPasswordMismatch, err)
	}
	err = s.users.UpdatePassword(ctx, claims.UserID, hash)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrInvalidToken
	}
	return err
}

func (s *AuthService) parseClaims(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SigningKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// helper: issue a signed JWT for a user
func (s *AuthService) issueToken(userID int, purpose string, ttl time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:  userID,
		Purpose: purpose,
	})
	return token.SignedString([]byte(s.cfg.SigningKey))
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
