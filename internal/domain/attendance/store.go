package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"staffhive/internal/platform/db"
)

type StoreAPI interface {
	CreateRecord(ctx context.Context, rec Record) error
	// FindOpenRecord returns the employee's shift without a check-out,
	// whatever its date.
	FindOpenRecord(ctx context.Context, employeeID string) (Record, error)
	CloseRecord(ctx context.Context, recordID string, checkOut time.Time) (Record, error)
	ListByDate(ctx context.Context, date string) ([]Record, error)
	ListByEmployee(ctx context.Context, employeeID, from, to string) ([]Record, error)
}

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const recordColumns = `id, employee_id, name, department, date, check_in, check_out, location`

func scanRecord(row pgx.Row, rec *Record) error {
	var date time.Time
	if err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.Name, &rec.Department, &date, &rec.CheckIn, &rec.CheckOut, &rec.Location); err != nil {
		return err
	}
	rec.Date = date.Format(DateLayout)
	return nil
}

func collect(rows pgx.Rows) ([]Record, error) {
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var rec Record
		if err := scanRecord(rows, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) CreateRecord(ctx context.Context, rec Record) error {
	date, err := ParseDate(rec.Date)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO attendance_records (id, employee_id, name, department, date, check_in, check_out, location)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, rec.ID, rec.EmployeeID, rec.Name, rec.Department, date, rec.CheckIn, rec.CheckOut, rec.Location)
	if db.IsUniqueViolation(err) {
		return ErrAlreadyCheckedIn
	}
	return err
}

func (s *Store) FindOpenRecord(ctx context.Context, employeeID string) (Record, error) {
	var rec Record
	err := scanRecord(s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records
    WHERE employee_id = $1 AND check_out IS NULL
    ORDER BY check_in DESC
    LIMIT 1
  `, employeeID), &rec)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotCheckedIn
	}
	return rec, err
}

func (s *Store) CloseRecord(ctx context.Context, recordID string, checkOut time.Time) (Record, error) {
	var rec Record
	err := scanRecord(s.DB.QueryRow(ctx, `
    UPDATE attendance_records SET check_out = $2
    WHERE id = $1 AND check_out IS NULL
    RETURNING `+recordColumns, recordID, checkOut), &rec)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrAlreadyCheckedOut
	}
	return rec, err
}

func (s *Store) ListByDate(ctx context.Context, date string) ([]Record, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	rows, err := s.DB.Query(ctx, "SELECT "+recordColumns+" FROM attendance_records WHERE date = $1 ORDER BY check_in", day)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID, from, to string) ([]Record, error) {
	fromDay, err := ParseDate(from)
	if err != nil {
		return nil, err
	}
	toDay, err := ParseDate(to)
	if err != nil {
		return nil, err
	}
	rows, err := s.DB.Query(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records
    WHERE employee_id = $1 AND date BETWEEN $2 AND $3
    ORDER BY date
  `, employeeID, fromDay, toDay)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}
