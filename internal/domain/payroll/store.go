package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"staffhive/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const recordColumns = `
    id, employee_id, employee_name, period, base_salary, overtime, bonus, tax, pension,
    deductions, total_amount, currency, status, processed_at, paid_at`

func scanRecord(row pgx.Row, rec *Record) error {
	if err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Period, &rec.BaseSalary, &rec.Overtime, &rec.Bonus,
		&rec.Tax, &rec.Pension, &rec.Deductions, &rec.TotalAmount, &rec.Currency, &rec.Status, &rec.ProcessedAt, &rec.PaidAt); err != nil {
		return err
	}
	rec.Gross = rec.BaseSalary + rec.Overtime + rec.Bonus
	return nil
}

func (s *Store) CreateRecord(ctx context.Context, rec Record) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO payroll_records (id, employee_id, employee_name, period, base_salary, overtime, bonus, tax, pension,
                                 deductions, total_amount, currency, status, processed_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
  `, rec.ID, rec.EmployeeID, rec.EmployeeName, rec.Period, rec.BaseSalary, rec.Overtime, rec.Bonus, rec.Tax, rec.Pension,
		rec.Deductions, rec.TotalAmount, rec.Currency, rec.Status, rec.ProcessedAt)
	if db.IsUniqueViolation(err) {
		return ErrDuplicatePayroll
	}
	return err
}

func (s *Store) GetRecord(ctx context.Context, recordID string) (Record, error) {
	var rec Record
	err := scanRecord(s.DB.QueryRow(ctx, "SELECT"+recordColumns+" FROM payroll_records WHERE id = $1", recordID), &rec)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	return rec, err
}

func (s *Store) ListRecords(ctx context.Context, filter Filter) ([]Record, error) {
	query := "SELECT" + recordColumns + " FROM payroll_records WHERE 1=1"
	var args []any
	if filter.Period != "" {
		args = append(args, filter.Period)
		query += fmt.Sprintf(" AND period = $%d", len(args))
	}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY period DESC, employee_name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
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

func (s *Store) MarkPaid(ctx context.Context, recordID string, paidAt time.Time) (Record, error) {
	var rec Record
	err := scanRecord(s.DB.QueryRow(ctx, `
    UPDATE payroll_records SET status = $2, paid_at = $3
    WHERE id = $1 AND status = $4
    RETURNING`+recordColumns, recordID, StatusPaid, paidAt, StatusProcessed), &rec)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.GetRecord(ctx, recordID); getErr != nil {
			return Record{}, getErr
		}
		return Record{}, ErrInvalidState
	}
	return rec, err
}
