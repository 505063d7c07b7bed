package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Rohit-1301/Health/internal/model"
)

type AppointmentStore struct {
	db *sql.DB
}

func NewAppointmentStore(db *sql.DB) *AppointmentStore {
	return &AppointmentStore{db: db}
}

// AppointmentParams holds the fields set when scheduling an appointment.
type AppointmentParams struct {
	DoctorName    string
	Specialty     string
	Location      string
	Date          string
	Time          string
	Duration      string
	Reason        string
	Status        model.AppointmentStatus
	AddToCalendar bool
	SetReminder   bool
}

// AppointmentUpdate carries optional changes; nil fields are left untouched.
type AppointmentUpdate struct {
	DoctorName    *string
	Specialty     *string
	Location      *string
	Date          *string
	Time          *string
	Duration      *string
	Reason        *string
	Status        *model.AppointmentStatus
	AddToCalendar *bool
	SetReminder   *bool
}

const appointmentCols = `id, user_id, doctor_name, specialty, location, date, time, duration, reason,
	status, add_to_calendar, set_reminder, last_reminder_sent_date, created_at, updated_at`

func scanAppointment(scanner interface{ Scan(...any) error }) (*model.Appointment, error) {
	var a model.Appointment
	var addToCal, setReminder int
	var lastSent sql.NullString

	err := scanner.Scan(&a.ID, &a.UserID, &a.DoctorName, &a.Specialty, &a.Location, &a.Date, &a.Time,
		&a.Duration, &a.Reason, &a.Status, &addToCal, &setReminder, &lastSent, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	a.AddToCalendar = addToCal != 0
	a.SetReminder = setReminder != 0
	if lastSent.Valid {
		a.LastReminderSentDate = &lastSent.String
	}
	return &a, nil
}

func (s *AppointmentStore) Create(ctx context.Context, userID int64, p AppointmentParams) (*model.Appointment, error) {
	if p.Status == "" {
		p.Status = model.AppointmentConfirmed
	}
	if p.Duration == "" {
		p.Duration = "30"
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO appointments (user_id, doctor_name, specialty, location, date, time, duration, reason, status, add_to_calendar, set_reminder)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, p.DoctorName, p.Specialty, p.Location, p.Date, p.Time, p.Duration, p.Reason, p.Status,
		boolToInt(p.AddToCalendar), boolToInt(p.SetReminder),
	)
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *AppointmentStore) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+appointmentCols+` FROM appointments WHERE id = ?`, id)
	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

// GetForUser returns the appointment only if it belongs to userID.
func (s *AppointmentStore) GetForUser(ctx context.Context, userID, id int64) (*model.Appointment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+appointmentCols+` FROM appointments WHERE id = ? AND user_id = ?`, id, userID)
	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get appointment for user: %w", err)
	}
	return a, nil
}

func (s *AppointmentStore) ListByUser(ctx context.Context, userID int64) ([]model.Appointment, error) {
	return s.list(ctx, sq.Select(appointmentCols).
		From("appointments").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("date ASC", "time ASC"))
}

// ListUpcomingWithReminders returns the user's reminder-enabled, still-active
// appointments dated within [from, to] inclusive.
func (s *AppointmentStore) ListUpcomingWithReminders(ctx context.Context, userID int64, from, to string) ([]model.Appointment, error) {
	return s.list(ctx, sq.Select(appointmentCols).
		From("appointments").
		Where(sq.Eq{"user_id": userID, "set_reminder": 1}).
		Where(sq.GtOrEq{"date": from}).
		Where(sq.LtOrEq{"date": to}).
		Where(sq.NotEq{"status": terminalStatuses()}).
		OrderBy("date ASC", "time ASC"))
}

// ListDueForReminder returns every appointment dated exactly on date that has
// its reminder flag set and is neither cancelled nor completed.
func (s *AppointmentStore) ListDueForReminder(ctx context.Context, date string) ([]model.Appointment, error) {
	return s.list(ctx, sq.Select(appointmentCols).
		From("appointments").
		Where(sq.Eq{"date": date, "set_reminder": 1}).
		Where(sq.NotEq{"status": terminalStatuses()}).
		OrderBy("time ASC", "id ASC"))
}

func (s *AppointmentStore) list(ctx context.Context, b sq.SelectBuilder) ([]model.Appointment, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build appointment query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields of u. A status change is checked against
// the current status first; cancelled and completed appointments are final.
func (s *AppointmentStore) Update(ctx context.Context, id int64, u AppointmentUpdate) (*model.Appointment, error) {
	if u.Status != nil {
		current, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, nil
		}
		if err := current.Status.CheckTransition(*u.Status); err != nil {
			return nil, err
		}
	}

	b := sq.Update("appointments").Where(sq.Eq{"id": id})
	set := 0
	setIf := func(col string, v any, ok bool) {
		if ok {
			b = b.Set(col, v)
			set++
		}
	}
	setIf("doctor_name", deref(u.DoctorName), u.DoctorName != nil)
	setIf("specialty", deref(u.Specialty), u.Specialty != nil)
	setIf("location", deref(u.Location), u.Location != nil)
	setIf("date", deref(u.Date), u.Date != nil)
	setIf("time", deref(u.Time), u.Time != nil)
	setIf("duration", deref(u.Duration), u.Duration != nil)
	setIf("reason", deref(u.Reason), u.Reason != nil)
	if u.Status != nil {
		setIf("status", string(*u.Status), true)
	}
	if u.AddToCalendar != nil {
		setIf("add_to_calendar", boolToInt(*u.AddToCalendar), true)
	}
	if u.SetReminder != nil {
		setIf("set_reminder", boolToInt(*u.SetReminder), true)
	}
	// A new date needs a fresh reminder.
	if u.Date != nil {
		b = b.Set("last_reminder_sent_date", nil)
	}

	if set == 0 {
		return s.GetByID(ctx, id)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build appointment update: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	return s.GetByID(ctx, id)
}

// SetStatus moves the appointment to status, enforcing one-way transitions.
func (s *AppointmentStore) SetStatus(ctx context.Context, id int64, status model.AppointmentStatus) (*model.Appointment, error) {
	return s.Update(ctx, id, AppointmentUpdate{Status: &status})
}

// MarkReminderSent records that the reminder for date has been dispatched.
func (s *AppointmentStore) MarkReminderSent(ctx context.Context, id int64, date string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE appointments SET last_reminder_sent_date = ? WHERE id = ?`, date, id)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return nil
}

func (s *AppointmentStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}

func terminalStatuses() []string {
	return []string{string(model.AppointmentCancelled), string(model.AppointmentCompleted)}
}
