package service

import (
	"context"
	"time"

	"voxcredit/internal/gateway"
	"voxcredit/internal/logger"
	"voxcredit/internal/mail"
	"voxcredit/internal/models"
	"voxcredit/internal/repository"
	"voxcredit/internal/tts"
)

type Authorization interface {
	SignUp(ctx context.Context, username, email, password string) (int, error)
	GenerateToken(ctx context.Context, email, password string) (string, error)
	ParseToken(accessToken string) (int, error)
	RequestPasswordReset(ctx context.Context, email, resetURLBase string) error
	ResetPassword(ctx context.Context, token, password, confirm string) error
}

// Accounts exposes the caller's profile and balance, plus the admin flag toggle.
type Accounts interface {
	GetAccount(ctx context.Context, userID int) (*models.User, error)
	Balance(ctx context.Context, userID int) (int, error)
	SetAdmin(ctx context.Context, username string, admin bool) error
}

// Plans is the read-only catalog of credit packs.
type Plans interface {
	List() []models.Plan
	Get(id string) (models.Plan, bool)
}

// Billing opens gateway orders and reconciles client-side checkout callbacks.
type Billing interface {
	CreateOrder(ctx context.Context, userID int, planID string) (OrderResult, error)
	VerifyPayment(ctx context.Context, userID int, in VerifyInput) (int, error)
}

// Webhook reconciles server-to-server payment notifications.
type Webhook interface {
	HandleWebhook(ctx context.Context, body []byte, signature string) (WebhookResult, error)
}

type Audio interface {
	Generate(ctx context.Context, userID int, text, lang string) (AudioResult, error)
	History(ctx context.Context, userID, limit int) ([]models.AudioHistory, error)
}

// PaymentLedger exposes the payment table with filtering for admins.
type PaymentLedger interface {
	List(ctx context.Context, f PaymentFilter) ([]models.Payment, error)
}

// Janitor runs the background sweep of orphaned audio files.
// Stop via context cancellation in main() for graceful shutdown.
type Janitor interface {
	Run(ctx context.Context, tick time.Duration)
	Sweep(ctx context.Context) (int, error)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Accounts
	Plans
	Billing
	Webhook
	Audio
	PaymentLedger
	Janitor
}

// Deps are the outside collaborators the services call into.
type Deps struct {
	Gateway     gateway.Gateway
	Synthesizer tts.Synthesizer
	Mailer      mail.Mailer
	Log         *logger.Logger
}

// Options carries the tunables read from configuration.
type Options struct {
	SigningKey    string
	TokenTTL      time.Duration
	ResetTTL      time.Duration
	SignupBonus   int
	WebhookSecret string
	AudioDir      string
	AudioCost     int
	MaxTextLength int
	HistoryLimit  int
}

func NewService(repos *repository.Repository, deps Deps, opts Options) *Service {
	plans := NewPlanCatalog()
	authCfg := AuthConfig{
		SigningKey:  opts.SigningKey,
		TokenTTL:    opts.TokenTTL,
		ResetTTL:    opts.ResetTTL,
		SignupBonus: opts.SignupBonus,
	}
	audioCfg := AudioConfig{
		Dir:           opts.AudioDir,
		Cost:          opts.AudioCost,
		MaxTextLength: opts.MaxTextLength,
		HistoryLimit:  opts.HistoryLimit,
	}
	return &Service{
		Authorization: NewAuthService(repos.Users, deps.Mailer, deps.Log, authCfg),
		Accounts:      NewAccountService(repos.Users),
		Plans:         plans,
		Billing:       NewBillingService(repos.Payments, deps.Gateway, plans, deps.Log),
		Webhook:       NewWebhookService(repos.Payments, plans, opts.WebhookSecret, deps.Log),
		Audio:         NewAudioService(repos.Users, repos.Audio, deps.Synthesizer, deps.Log, audioCfg),
		PaymentLedger: NewPaymentLedgerService(repos.Payments),
		Janitor:       NewAudioJanitorService(repos.Audio, opts.AudioDir, DefaultOrphanGrace, deps.Log),
	}
}
