package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Rohit-1301/Health/internal/model"
)

type HealthRecordStore struct {
	db *sql.DB
}

func NewHealthRecordStore(db *sql.DB) *HealthRecordStore {
	return &HealthRecordStore{db: db}
}

const healthRecordCols = `id, user_id, title, type, provider, date, notes, created_at, updated_at`

func scanHealthRecord(scanner interface{ Scan(...any) error }) (*model.HealthRecord, error) {
	var r model.HealthRecord
	err := scanner.Scan(&r.ID, &r.UserID, &r.Title, &r.Type, &r.Provider, &r.Date, &r.Notes, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *HealthRecordStore) Create(ctx context.Context, userID int64, title string, recordType model.RecordType, provider, date, notes string) (*model.HealthRecord, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO health_records (user_id, title, type, provider, date, notes) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, title, recordType, provider, date, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert health record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetForUser(ctx, userID, id)
}

func (s *HealthRecordStore) GetForUser(ctx context.Context, userID, id int64) (*model.HealthRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+healthRecordCols+` FROM health_records WHERE id = ? AND user_id = ?`, id, userID)
	r, err := scanHealthRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get health record: %w", err)
	}
	return r, nil
}

// ListByUser returns records newest first.
func (s *HealthRecordStore) ListByUser(ctx context.Context, userID int64) ([]model.HealthRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+healthRecordCols+` FROM health_records WHERE user_id = ? ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list health records: %w", err)
	}
	defer rows.Close()

	var records []model.HealthRecord
	for rows.Next() {
		r, err := scanHealthRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan health record: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

func (s *HealthRecordStore) Update(ctx context.Context, userID, id int64, title string, recordType model.RecordType, provider, date, notes string) (*model.HealthRecord, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE health_records SET title = ?, type = ?, provider = ?, date = ?, notes = ? WHERE id = ? AND user_id = ?`,
		title, recordType, provider, date, notes, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update health record: %w", err)
	}
	return s.GetForUser(ctx, userID, id)
}

func (s *HealthRecordStore) Delete(ctx context.Context, userID, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM health_records WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete health record: %w", err)
	}
	return nil
}
