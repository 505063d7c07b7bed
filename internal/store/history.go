package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Rohit-1301/Health/internal/model"
)

// HistoryStore is the append-only medication adherence log.
type HistoryStore struct {
	db *sql.DB
}

func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

const historyCols = `id, user_id, medication_id, date, time, status, created_at`

func scanHistory(scanner interface{ Scan(...any) error }) (*model.MedicationHistory, error) {
	var h model.MedicationHistory
	err := scanner.Scan(&h.ID, &h.UserID, &h.MedicationID, &h.Date, &h.Time, &h.Status, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *HistoryStore) Create(ctx context.Context, userID, medicationID int64, date, tm string, status model.HistoryStatus) (*model.MedicationHistory, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO medication_history (user_id, medication_id, date, time, status) VALUES (?, ?, ?, ?, ?)`,
		userID, medicationID, date, tm, status,
	)
	if err != nil {
		return nil, fmt.Errorf("insert medication history: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+historyCols+` FROM medication_history WHERE id = ?`, id)
	h, err := scanHistory(row)
	if err != nil {
		return nil, fmt.Errorf("get medication history: %w", err)
	}
	return h, nil
}

// ListByUser returns the user's history, newest first.
func (s *HistoryStore) ListByUser(ctx context.Context, userID int64) ([]model.MedicationHistory, error) {
	return s.list(ctx, sq.Select(historyCols).
		From("medication_history").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("date DESC", "time DESC", "id DESC"))
}

func (s *HistoryStore) ListByMedication(ctx context.Context, medicationID int64) ([]model.MedicationHistory, error) {
	return s.list(ctx, sq.Select(historyCols).
		From("medication_history").
		Where(sq.Eq{"medication_id": medicationID}).
		OrderBy("date DESC", "time DESC", "id DESC"))
}

// ListByUserRange returns the user's history dated within [from, to].
func (s *HistoryStore) ListByUserRange(ctx context.Context, userID int64, from, to string) ([]model.MedicationHistory, error) {
	return s.list(ctx, sq.Select(historyCols).
		From("medication_history").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"date": from}).
		Where(sq.LtOrEq{"date": to}).
		OrderBy("date DESC", "time DESC", "id DESC"))
}

func (s *HistoryStore) list(ctx context.Context, b sq.SelectBuilder) ([]model.MedicationHistory, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list medication history: %w", err)
	}
	defer rows.Close()

	var out []model.MedicationHistory
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medication history: %w", err)
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}
