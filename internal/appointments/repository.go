package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no appointment matches the given identifier.
var ErrNotFound = errors.New("appointments: not found")

// Repository persists appointments.
type Repository interface {
	Create(ctx context.Context, appt *Appointment) error
	Get(ctx context.Context, id string) (*Appointment, error)
	Apply(ctx context.Context, id string, upd Update) error
	ListByDate(ctx context.Context, date string) ([]Appointment, error)
	ListFrom(ctx context.Context, fromDate string) ([]Appointment, error)
	ListUpcomingByPhone(ctx context.Context, phoneDigits, fromDate string) ([]Appointment, error)
	ListRecent(ctx context.Context, limit int) ([]Appointment, error)
}

// querier is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGRepository is the PostgreSQL-backed appointment store.
type PGRepository struct {
	db querier
}

var _ Repository = (*PGRepository)(nil)

// NewPGRepository builds a Postgres-backed repository.
func NewPGRepository(db *pgxpool.Pool) *PGRepository {
	if db == nil {
		panic("appointments: pgx pool cannot be nil")
	}
	return &PGRepository{db: db}
}

// NewPGRepositoryWithQuerier is the test seam used with pgxmock.
func NewPGRepositoryWithQuerier(db querier) *PGRepository {
	return &PGRepository{db: db}
}

const appointmentColumns = `id, service_id, date, time, customer_name, customer_phone, status, created_at, updated_at`

// Create inserts a new booked appointment.
func (r *PGRepository) Create(ctx context.Context, appt *Appointment) error {
	if appt == nil {
		return errors.New("appointments: appointment cannot be nil")
	}
	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	if appt.Status == "" {
		appt.Status = StatusBooked
	}
	if _, err := r.db.Exec(ctx, `
		INSERT INTO appointments (
			id, service_id, date, time, customer_name, customer_phone, status, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, appt.ID, appt.ServiceID, appt.Date, appt.Time, appt.CustomerName, appt.CustomerPhone, appt.Status, now, now); err != nil {
		return fmt.Errorf("appointments: failed to insert: %w", err)
	}
	return nil
}

// Get fetches one appointment by ID.
func (r *PGRepository) Get(ctx context.Context, id string) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: failed to load %s: %w", id, err)
	}
	return appt, nil
}

// Apply performs a partial update; only non-nil fields change.
func (r *PGRepository) Apply(ctx context.Context, id string, upd Update) error {
	if upd.IsEmpty() {
		return errors.New("appointments: update has no fields")
	}

	set := make([]string, 0, 5)
	args := make([]any, 0, 6)
	args = append(args, id)
	next := 2
	add := func(col string, val any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, next))
		args = append(args, val)
		next++
	}
	if upd.ServiceID != nil {
		add("service_id", *upd.ServiceID)
	}
	if upd.Date != nil {
		add("date", *upd.Date)
	}
	if upd.Time != nil {
		add("time", *upd.Time)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	add("updated_at", time.Now().UTC())

	tag, err := r.db.Exec(ctx, `UPDATE appointments SET `+strings.Join(set, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return fmt.Errorf("appointments: failed to update %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByDate returns booked appointments on the given calendar day, ordered
// by slot time. Cancelled rows are excluded so they free their slots.
func (r *PGRepository) ListByDate(ctx context.Context, date string) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date = $1 AND status = $2
		ORDER BY time
	`, date, StatusBooked)
	if err != nil {
		return nil, fmt.Errorf("appointments: failed to list by date: %w", err)
	}
	return collectAppointments(rows)
}

// ListFrom returns booked appointments on or after the given day, ordered
// by date then slot time. This is the availability working set.
func (r *PGRepository) ListFrom(ctx context.Context, fromDate string) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date >= $1 AND status = $2
		ORDER BY date, time
	`, fromDate, StatusBooked)
	if err != nil {
		return nil, fmt.Errorf("appointments: failed to list from date: %w", err)
	}
	return collectAppointments(rows)
}

// ListUpcomingByPhone returns booked appointments for a phone number from
// the given day onward, soonest first.
func (r *PGRepository) ListUpcomingByPhone(ctx context.Context, phoneDigits, fromDate string) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE customer_phone = $1 AND date >= $2 AND status = $3
		ORDER BY date, time
	`, phoneDigits, fromDate, StatusBooked)
	if err != nil {
		return nil, fmt.Errorf("appointments: failed to list by phone: %w", err)
	}
	return collectAppointments(rows)
}

// ListRecent returns the newest appointments regardless of status.
func (r *PGRepository) ListRecent(ctx context.Context, limit int) ([]Appointment, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("appointments: failed to list recent: %w", err)
	}
	return collectAppointments(rows)
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()
	var out []Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: failed to scan row: %w", err)
		}
		out = append(out, *appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: row iteration failed: %w", err)
	}
	return out, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var appt Appointment
	if err := row.Scan(
		&appt.ID, &appt.ServiceID, &appt.Date, &appt.Time,
		&appt.CustomerName, &appt.CustomerPhone, &appt.Status,
		&appt.CreatedAt, &appt.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &appt, nil
}
