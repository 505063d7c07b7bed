package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Rohit-1301/Health/internal/model"
)

type ConditionStore struct {
	db *sql.DB
}

func NewConditionStore(db *sql.DB) *ConditionStore {
	return &ConditionStore{db: db}
}

type ConditionParams struct {
	Name          string
	Type          model.ConditionType
	Severity      model.Severity
	DiagnosedDate string
	IsActive      bool
	Notes         string
}

const conditionCols = `id, user_id, name, type, severity, diagnosed_date, is_active, notes, created_at, updated_at`

func scanCondition(scanner interface{ Scan(...any) error }) (*model.Condition, error) {
	var c model.Condition
	var active int
	err := scanner.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Severity, &c.DiagnosedDate, &active, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.IsActive = active != 0
	return &c, nil
}

func (s *ConditionStore) Create(ctx context.Context, userID int64, p ConditionParams) (*model.Condition, error) {
	if p.Type == "" {
		p.Type = model.ConditionGeneral
	}
	if p.Severity == "" {
		p.Severity = model.SeverityModerate
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO conditions (user_id, name, type, severity, diagnosed_date, is_active, notes) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, p.Name, p.Type, p.Severity, p.DiagnosedDate, boolToInt(p.IsActive), p.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert condition: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetForUser(ctx, userID, id)
}

func (s *ConditionStore) GetForUser(ctx context.Context, userID, id int64) (*model.Condition, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+conditionCols+` FROM conditions WHERE id = ? AND user_id = ?`, id, userID)
	c, err := scanCondition(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get condition: %w", err)
	}
	return c, nil
}

// ListByUser returns active conditions first, then by name.
func (s *ConditionStore) ListByUser(ctx context.Context, userID int64) ([]model.Condition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+conditionCols+` FROM conditions WHERE user_id = ? ORDER BY is_active DESC, name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list conditions: %w", err)
	}
	defer rows.Close()

	var out []model.Condition
	for rows.Next() {
		c, err := scanCondition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan condition: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *ConditionStore) Update(ctx context.Context, userID, id int64, p ConditionParams) (*model.Condition, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE conditions SET name = ?, type = ?, severity = ?, diagnosed_date = ?, is_active = ?, notes = ?
		 WHERE id = ? AND user_id = ?`,
		p.Name, p.Type, p.Severity, p.DiagnosedDate, boolToInt(p.IsActive), p.Notes, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update condition: %w", err)
	}
	return s.GetForUser(ctx, userID, id)
}

func (s *ConditionStore) Delete(ctx context.Context, userID, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM conditions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete condition: %w", err)
	}
	return nil
}
