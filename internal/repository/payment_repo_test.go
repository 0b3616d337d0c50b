package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"voxcredit/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func starterGrant() Grant {
	return Grant{
		UserID:    7,
		PlanID:    "starter",
		PlanName:  "Starter",
		Amount:    299,
		Credits:   10000,
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: "sig",
	}
}

func TestGrantCredits_Success(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewPaymentSQLite(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(creditUserSQL)).
		WithArgs(10000, 7).
		WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(10100))
	mock.ExpectExec(regexp.QuoteMeta(insertPaymentSQL)).
		WithArgs(7, "starter", "Starter", 299, 10000, "order_1", "pay_1", "sig", models.PaymentSuccess, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	balance, err := repo.GrantCredits(ctx(t), starterGrant())
	if err != nil {
		t.Fatalf("GrantCredits: %v", err)
	}
	if balance != 10100 {
		t.Fatalf("balance: want 10100, got %d", balance)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestGrantCredits_DuplicatePaymentRollsBack(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewPaymentSQLite(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(creditUserSQL)).
		WithArgs(10000, 7).
		WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(10100))
	mock.ExpectExec(regexp.QuoteMeta(insertPaymentSQL)).
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: payments.gateway_payment_id (2067)"))
	mock.ExpectRollback()

	_, err = repo.GrantCredits(ctx(t), starterGrant())
	if !errors.Is(err, ErrPaymentExists) {
		t.Fatalf("expected ErrPaymentExists, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestGrantCredits_UnknownUser(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewPaymentSQLite(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(creditUserSQL)).
		WithArgs(10000, 7).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err = repo.GrantCredits(ctx(t), starterGrant())
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestHasSucceeded(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewPaymentSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta(paymentSucceededSQL)).
		WithArgs("pay_1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(paymentSucceededSQL)).
		WithArgs("pay_2").
		WillReturnError(errors.New("down"))

	ok, err := repo.HasSucceeded(ctx(t), "pay_1")
	if err != nil || !ok {
		t.Fatalf("want (true, nil), got (%v, %v)", ok, err)
	}
	if _, err := repo.HasSucceeded(ctx(t), "pay_2"); err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func paymentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "plan_id", "plan_name", "amount", "credits_added",
		"gateway_order_id", "gateway_payment_id", "signature", "status", "created_at"})
}

func TestList_NoFilters(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewPaymentSQLite(db)

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	rows := paymentRows().
		AddRow(2, 7, "pro", "Pro", 499, 30000, "order_2", "pay_2", nil, "success", now.Add(time.Hour)).
		AddRow(1, 7, "starter", "Starter", 299, 10000, nil, "pay_1", "sig", "success", now)

	mock.ExpectQuery(regexp.QuoteMeta(selectPaymentsSQL + ` ORDER BY created_at DESC, id DESC`)).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), PaymentFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2, got %d", len(got))
	}
	if got[0].GatewayPaymentID != "pay_2" || got[1].GatewayPaymentID != "pay_1" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].Signature != "" || got[1].GatewayOrderID != "" {
		t.Fatalf("NULL columns should scan to empty strings: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_WithFilters_OrderAndArgs(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewPaymentSQLite(db)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	query := selectPaymentsSQL + ` WHERE created_at >= ? AND created_at <= ? AND status = ? AND user_id = ? ORDER BY created_at DESC, id DESC`

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(from, to, "success", 7).
		WillReturnRows(paymentRows().AddRow(1, 7, "starter", "Starter", 299, 10000, "order_1", "pay_1", "sig", "success", from))

	got, err := repo.List(ctx(t), PaymentFilter{From: from, To: to, Status: " SUCCESS ", UserID: 7})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].CreditsAdded != 10000 {
		t.Fatalf("unexpected results: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_ScanError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewPaymentSQLite(db)

	// created_at wrong type to force scan error
	mock.ExpectQuery(regexp.QuoteMeta(selectPaymentsSQL)).
		WillReturnRows(paymentRows().AddRow(1, 7, "starter", "Starter", 299, 10000, "o", "p", nil, "success", 123))

	if _, err := repo.List(ctx(t), PaymentFilter{}); err == nil {
		t.Fatalf("expected scan error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
