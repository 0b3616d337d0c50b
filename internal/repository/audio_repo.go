package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"voxcredit/internal/models"
)

type AudioSQLite struct {
	db *sql.DB
}

func NewAudioSQLite(db *sql.DB) *AudioSQLite { return &AudioSQLite{db: db} }

var _ Audio = (*AudioSQLite)(nil)

const (
	debitUserSQL = `UPDATE users SET credits = credits - ? WHERE id = ? AND credits >= ? RETURNING credits`

	insertAudioSQL = `
		INSERT INTO audio_history (user_id, text_preview, audio_filename, lang, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	selectRecentAudioSQL = `
		SELECT id, user_id, text_preview, audio_filename, lang, created_at
		FROM audio_history WHERE user_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?
	`

	audioFileExistsSQL = `SELECT EXISTS(SELECT 1 FROM audio_history WHERE audio_filename = ?)`
)

// DebitAndRecord subtracts cost from the user's balance and stores the history
// entry in one transaction. The debit is conditional on the balance covering
// cost, so a concurrent spend can never push it negative.
func (r *AudioSQLite) DebitAndRecord(ctx context.Context, cost int, entry models.AudioHistory) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin debit transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var remaining int
	if err := tx.QueryRowContext(ctx, debitUserSQL, cost, entry.UserID, cost).Scan(&remaining); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrInsufficientCredits
		}
		return 0, fmt.Errorf("debit user %d: %w", entry.UserID, err)
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if _, err := tx.ExecContext(ctx, insertAudioSQL,
		entry.UserID,
		entry.TextPreview,
		entry.AudioFilename,
		entry.Lang,
		createdAt.UTC(),
	); err != nil {
		return 0, fmt.Errorf("insert audio history for user %d: %w", entry.UserID, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit debit for user %d: %w", entry.UserID, err)
	}
	return remaining, nil
}

// ListRecent returns the user's latest history entries, newest first.
func (r *AudioSQLite) ListRecent(ctx context.Context, userID, limit int) ([]models.AudioHistory, error) {
	rows, err := r.db.QueryContext(ctx, selectRecentAudioSQL, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audio history for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.AudioHistory, 0, 16)
	for rows.Next() {
		var a models.AudioHistory
		if err := rows.Scan(&a.ID, &a.UserID, &a.TextPreview, &a.AudioFilename, &a.Lang, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audio history: %w", err)
		}
		a.CreatedAt = a.CreatedAt.UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// HasFile reports whether a generated file belongs to a recorded history entry.
func (r *AudioSQLite) HasFile(ctx context.Context, filename string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, audioFileExistsSQL, filename).Scan(&exists); err != nil {
		return false, fmt.Errorf("check audio file %q: %w", filename, err)
	}
	return exists, nil
}
