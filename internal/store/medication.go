package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Rohit-1301/Health/internal/model"
)

type MedicationStore struct {
	db *sql.DB
}

func NewMedicationStore(db *sql.DB) *MedicationStore {
	return &MedicationStore{db: db}
}

type MedicationParams struct {
	Name         string
	Dosage       string
	Frequency    model.Frequency
	Type         model.MedicationType
	Instructions string
	StartDate    string
	EndDate      *string
	ReminderTime string
	Active       bool
}

// MedicationUpdate carries optional changes. ClearEndDate makes the
// medication open-ended again.
type MedicationUpdate struct {
	Name         *string
	Dosage       *string
	Frequency    *model.Frequency
	Type         *model.MedicationType
	Instructions *string
	StartDate    *string
	EndDate      *string
	ClearEndDate bool
	ReminderTime *string
	Active       *bool
}

const medicationCols = `id, user_id, name, dosage, frequency, type, instructions, start_date, end_date,
	reminder_time, active, created_at, updated_at`

func scanMedication(scanner interface{ Scan(...any) error }) (*model.Medication, error) {
	var m model.Medication
	var endDate sql.NullString
	var active int
	err := scanner.Scan(&m.ID, &m.UserID, &m.Name, &m.Dosage, &m.Frequency, &m.Type, &m.Instructions,
		&m.StartDate, &endDate, &m.ReminderTime, &active, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if endDate.Valid {
		m.EndDate = &endDate.String
	}
	m.Active = active != 0
	return &m, nil
}

// Create stores a new medication after checking its date range.
func (s *MedicationStore) Create(ctx context.Context, userID int64, p MedicationParams) (*model.Medication, error) {
	if err := model.CheckDateRange(p.StartDate, p.EndDate); err != nil {
		return nil, err
	}
	if p.Frequency == "" {
		p.Frequency = model.FrequencyDaily
	}
	if p.Type == "" {
		p.Type = model.MedicationPill
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO medications (user_id, name, dosage, frequency, type, instructions, start_date, end_date, reminder_time, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, p.Name, p.Dosage, p.Frequency, p.Type, p.Instructions, p.StartDate,
		nullableString(p.EndDate), p.ReminderTime, boolToInt(p.Active),
	)
	if err != nil {
		return nil, fmt.Errorf("insert medication: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *MedicationStore) GetByID(ctx context.Context, id int64) (*model.Medication, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+medicationCols+` FROM medications WHERE id = ?`, id)
	m, err := scanMedication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get medication: %w", err)
	}
	return m, nil
}

func (s *MedicationStore) GetForUser(ctx context.Context, userID, id int64) (*model.Medication, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+medicationCols+` FROM medications WHERE id = ? AND user_id = ?`, id, userID)
	m, err := scanMedication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get medication for user: %w", err)
	}
	return m, nil
}

func (s *MedicationStore) ListByUser(ctx context.Context, userID int64) ([]model.Medication, error) {
	return s.list(ctx, sq.Eq{"user_id": userID})
}

// ListActiveByUser returns the medications that still produce calendar occurrences.
func (s *MedicationStore) ListActiveByUser(ctx context.Context, userID int64) ([]model.Medication, error) {
	return s.list(ctx, sq.Eq{"user_id": userID, "active": 1})
}

func (s *MedicationStore) list(ctx context.Context, where sq.Eq) ([]model.Medication, error) {
	query, args, err := sq.Select(medicationCols).
		From("medications").
		Where(where).
		OrderBy("start_date ASC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build medication query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	defer rows.Close()

	var meds []model.Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medication: %w", err)
		}
		meds = append(meds, *m)
	}
	return meds, rows.Err()
}

// Update applies the non-nil fields of u. The resulting date range is
// validated before anything is written.
func (s *MedicationStore) Update(ctx context.Context, id int64, u MedicationUpdate) (*model.Medication, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}

	start := current.StartDate
	if u.StartDate != nil {
		start = *u.StartDate
	}
	end := current.EndDate
	if u.EndDate != nil {
		end = u.EndDate
	}
	if u.ClearEndDate {
		end = nil
	}
	if err := model.CheckDateRange(start, end); err != nil {
		return nil, err
	}

	b := sq.Update("medications").Where(sq.Eq{"id": id})
	set := 0
	if u.Name != nil {
		b, set = b.Set("name", *u.Name), set+1
	}
	if u.Dosage != nil {
		b, set = b.Set("dosage", *u.Dosage), set+1
	}
	if u.Frequency != nil {
		b, set = b.Set("frequency", string(*u.Frequency)), set+1
	}
	if u.Type != nil {
		b, set = b.Set("type", string(*u.Type)), set+1
	}
	if u.Instructions != nil {
		b, set = b.Set("instructions", *u.Instructions), set+1
	}
	if u.StartDate != nil {
		b, set = b.Set("start_date", *u.StartDate), set+1
	}
	if u.EndDate != nil || u.ClearEndDate {
		b, set = b.Set("end_date", nullableString(end)), set+1
	}
	if u.ReminderTime != nil {
		b, set = b.Set("reminder_time", *u.ReminderTime), set+1
	}
	if u.Active != nil {
		b, set = b.Set("active", boolToInt(*u.Active)), set+1
	}
	if set == 0 {
		return current, nil
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build medication update: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update medication: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes the medication together with its history.
func (s *MedicationStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM medication_history WHERE medication_id = ?`, id); err != nil {
		return fmt.Errorf("delete medication history: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM medications WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete medication: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
