package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"staffhive/internal/platform/db"
)

type Store struct {
	DB db.TxBeginner
}

func NewStore(pool db.TxBeginner) *Store {
	return &Store{DB: pool}
}

const requestColumns = `
    id, employee_id, employee_name, leave_type, start_date, end_date, days, reason,
    status, approver, decided_at, created_at`

func scanRequest(row pgx.Row, req *Request) error {
	return row.Scan(&req.ID, &req.EmployeeID, &req.EmployeeName, &req.LeaveType, &req.StartDate, &req.EndDate, &req.Days,
		&req.Reason, &req.Status, &req.Approver, &req.DecidedAt, &req.CreatedAt)
}

func ensureBalanceTx(ctx context.Context, q db.Querier, employeeID, leaveType string, year int, allocated float64) (bool, error) {
	tag, err := q.Exec(ctx, `
    INSERT INTO leave_balances (employee_id, leave_type, year, allocated)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (employee_id, leave_type, year) DO NOTHING
  `, employeeID, leaveType, year, allocated)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func lockBalanceTx(ctx context.Context, tx pgx.Tx, employeeID, leaveType string, year int) (Balance, error) {
	b := Balance{EmployeeID: employeeID, LeaveType: leaveType, Year: year}
	err := tx.QueryRow(ctx, `
    SELECT allocated, used, pending
    FROM leave_balances
    WHERE employee_id = $1 AND leave_type = $2 AND year = $3
    FOR UPDATE
  `, employeeID, leaveType, year).Scan(&b.Allocated, &b.Used, &b.Pending)
	return b.withAvailable(), err
}

func saveBalanceTx(ctx context.Context, tx pgx.Tx, b Balance) error {
	_, err := tx.Exec(ctx, `
    UPDATE leave_balances
    SET allocated = $4, used = $5, pending = $6, updated_at = now()
    WHERE employee_id = $1 AND leave_type = $2 AND year = $3
  `, b.EmployeeID, b.LeaveType, b.Year, b.Allocated, b.Used, b.Pending)
	return err
}

func (s *Store) SubmitRequest(ctx context.Context, req Request, allocated float64) error {
	return db.WithTx(ctx, s.DB, func(tx pgx.Tx) error {
		if _, err := ensureBalanceTx(ctx, tx, req.EmployeeID, req.LeaveType, req.Year(), allocated); err != nil {
			return err
		}
		balance, err := lockBalanceTx(ctx, tx, req.EmployeeID, req.LeaveType, req.Year())
		if err != nil {
			return err
		}
		balance, err = reserve(balance, req.Days)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
      INSERT INTO leave_requests (id, employee_id, employee_name, leave_type, start_date, end_date, days, reason, status, created_at)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    `, req.ID, req.EmployeeID, req.EmployeeName, req.LeaveType, req.StartDate, req.EndDate, req.Days, req.Reason, req.Status, req.CreatedAt); err != nil {
			return err
		}
		return saveBalanceTx(ctx, tx, balance)
	})
}

func (s *Store) DecideRequest(ctx context.Context, requestID, status, approver string, decidedAt time.Time) (Request, error) {
	var out Request
	err := db.WithTx(ctx, s.DB, func(tx pgx.Tx) error {
		var req Request
		err := scanRequest(tx.QueryRow(ctx, "SELECT"+requestColumns+" FROM leave_requests WHERE id = $1 FOR UPDATE", requestID), &req)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRequestNotFound
		}
		if err != nil {
			return err
		}
		balance, err := lockBalanceTx(ctx, tx, req.EmployeeID, req.LeaveType, req.Year())
		if err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}
		balance, err = ApplyDecision(balance, req.Status, status, req.Days)
		if err != nil {
			return err
		}
		if err := saveBalanceTx(ctx, tx, balance); err != nil {
			return err
		}
		req.Status = status
		req.Approver = approver
		req.DecidedAt = &decidedAt
		if _, err := tx.Exec(ctx, `
      UPDATE leave_requests SET status = $2, approver = $3, decided_at = $4 WHERE id = $1
    `, req.ID, req.Status, req.Approver, decidedAt); err != nil {
			return err
		}
		out = req
		return nil
	})
	return out, err
}

func (s *Store) GetRequest(ctx context.Context, requestID string) (Request, error) {
	var req Request
	err := scanRequest(s.DB.QueryRow(ctx, "SELECT"+requestColumns+" FROM leave_requests WHERE id = $1", requestID), &req)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrRequestNotFound
	}
	return req, err
}

func (s *Store) ListRequests(ctx context.Context, filter Filter) ([]Request, error) {
	query := "SELECT" + requestColumns + " FROM leave_requests WHERE 1=1"
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.LeaveType != "" {
		args = append(args, filter.LeaveType)
		query += fmt.Sprintf(" AND leave_type = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		var req Request
		if err := scanRequest(rows, &req); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *Store) EnsureBalance(ctx context.Context, employeeID, leaveType string, year int, allocated float64) (bool, error) {
	return ensureBalanceTx(ctx, s.DB, employeeID, leaveType, year, allocated)
}

func (s *Store) ListBalances(ctx context.Context, employeeID string, year int) ([]Balance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, leave_type, year, allocated, used, pending
    FROM leave_balances
    WHERE employee_id = $1 AND year = $2
    ORDER BY leave_type
  `, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Balance
	for rows.Next() {
		var b Balance
		if err := rows.Scan(&b.EmployeeID, &b.LeaveType, &b.Year, &b.Allocated, &b.Used, &b.Pending); err != nil {
			return nil, err
		}
		out = append(out, b.withAvailable())
	}
	return out, rows.Err()
}

func (s *Store) SetAllocation(ctx context.Context, employeeID, leaveType string, year int, allocated float64) (Balance, error) {
	var out Balance
	err := db.WithTx(ctx, s.DB, func(tx pgx.Tx) error {
		if _, err := ensureBalanceTx(ctx, tx, employeeID, leaveType, year, allocated); err != nil {
			return err
		}
		balance, err := lockBalanceTx(ctx, tx, employeeID, leaveType, year)
		if err != nil {
			return err
		}
		balance, err = setAllocation(balance, allocated)
		if err != nil {
			return err
		}
		out = balance
		return saveBalanceTx(ctx, tx, balance)
	})
	return out, err
}
