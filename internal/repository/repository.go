package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"voxcredit/internal/models"
)

var (
	// ErrUserExists is returned when a username or email is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when a write targets a user row that does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrPaymentExists is returned when the gateway payment id was already recorded.
	ErrPaymentExists = errors.New("payment already recorded")
	// ErrInsufficientCredits is returned when a debit would drive the balance below zero.
	ErrInsufficientCredits = errors.New("insufficient credits")
)

type Users interface {
	Create(ctx context.Context, u models.User) (int, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdatePassword(ctx context.Context, id int, hash string) error
	SetAdmin(ctx context.Context, username string, admin bool) error
}

// Grant describes one verified purchase to be recorded and credited.
type Grant struct {
	UserID    int
	PlanID    string
	PlanName  string
	Amount    int
	Credits   int
	OrderID   string
	PaymentID string
	Signature string
}

// PaymentFilter narrows the payment ledger listing. Zero values mean no filter.
type PaymentFilter struct {
	From   time.Time // inclusive
	To     time.Time // inclusive
	Status string    // "", "pending", "success", "failed"
	UserID int
}

type Payments interface {
	HasSucceeded(ctx context.Context, paymentID string) (bool, error)
	GrantCredits(ctx context.Context, g Grant) (int, error)
	List(ctx context.Context, f PaymentFilter) ([]models.Payment, error)
}

type Audio interface {
	DebitAndRecord(ctx context.Context, cost int, entry models.AudioHistory) (int, error)
	ListRecent(ctx context.Context, userID, limit int) ([]models.AudioHistory, error)
	HasFile(ctx context.Context, filename string) (bool, error)
}

type Repository struct {
	Users    Users
	Payments Payments
	Audio    Audio
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:    NewUserRepository(db),
		Payments: NewPaymentSQLite(db),
		Audio:    NewAudioSQLite(db),
	}
}
