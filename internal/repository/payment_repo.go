package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"voxcredit/internal/models"
)

type PaymentSQLite struct {
	db *sql.DB
}

func NewPaymentSQLite(db *sql.DB) *PaymentSQLite { return &PaymentSQLite{db: db} }

var _ Payments = (*PaymentSQLite)(nil)

const (
	paymentSucceededSQL = `SELECT EXISTS(SELECT 1 FROM payments WHERE gateway_payment_id = ? AND status = 'success')`

	creditUserSQL = `UPDATE users SET credits = credits + ? WHERE id = ? RETURNING credits`

	insertPaymentSQL = `
		INSERT INTO payments (user_id, plan_id, plan_name, amount, credits_added,
			gateway_order_id, gateway_payment_id, signature, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectPaymentsSQL = `SELECT id, user_id, plan_id, plan_name, amount, credits_added, gateway_order_id, gateway_payment_id, signature, status, created_at FROM payments`
)

// HasSucceeded reports whether a success row exists for the gateway payment id.
func (r *PaymentSQLite) HasSucceeded(ctx context.Context, paymentID string) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, paymentSucceededSQL, paymentID).Scan(&ok); err != nil {
		return false, fmt.Errorf("check payment %q: %w", paymentID, err)
	}
	return ok, nil
}

// GrantCredits adds g.Credits to the user's balance and records a success row
// for g.PaymentID in one transaction, returning the new balance. When another
// writer already recorded the payment id the whole transaction is rolled back
// and ErrPaymentExists is returned.
func (r *PaymentSQLite) GrantCredits(ctx context.Context, g Grant) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin grant transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var balance int
	if err := tx.QueryRowContext(ctx, creditUserSQL, g.Credits, g.UserID).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("credit user %d: %w", g.UserID, err)
	}

	var signature *string
	if g.Signature != "" {
		signature = &g.Signature
	}
	_, err = tx.ExecContext(ctx, insertPaymentSQL,
		g.UserID,
		g.PlanID,
		g.PlanName,
		g.Amount,
		g.Credits,
		g.OrderID,
		g.PaymentID,
		signature,
		models.PaymentSuccess,
		time.Now().UTC(),
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return 0, ErrPaymentExists
		case isForeignKeyViolation(err):
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("insert payment %q: %w", g.PaymentID, err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return 0, ErrPaymentExists
		}
		return 0, fmt.Errorf("commit grant for payment %q: %w", g.PaymentID, err)
	}
	return balance, nil
}

// List returns payments filtered by [from, to] (inclusive), status and user, newest first.
func (r *PaymentSQLite) List(ctx context.Context, f PaymentFilter) ([]models.Payment, error) {
	var (
		conds []string
		args  []any
	)

	if !f.From.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, f.To.UTC())
	}
	if status := strings.ToLower(strings.TrimSpace(f.Status)); status != "" {
		conds = append(conds, "status = ?")
		args = append(args, status)
	}
	if f.UserID != 0 {
		conds = append(conds, "user_id = ?")
		args = append(args, f.UserID)
	}

	q := selectPaymentsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	out := make([]models.Payment, 0, 32)
	for rows.Next() {
		var (
			p         models.Payment
			orderID   sql.NullString
			signature sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.PlanID, &p.PlanName, &p.Amount, &p.CreditsAdded,
			&orderID, &p.GatewayPaymentID, &signature, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.GatewayOrderID = orderID.String
		p.Signature = signature.String
		p.CreatedAt = p.CreatedAt.UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
