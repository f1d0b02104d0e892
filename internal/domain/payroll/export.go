package payroll

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const registerSheet = "Register"

var registerHeaders = []string{
	"Employee ID", "Employee", "Period", "Base", "Overtime", "Bonus", "Gross",
	"Tax", "Pension", "Deductions", "Net", "Currency", "Status",
}

// ExportRegister writes the period's payroll records as an xlsx workbook with a
// totals row.
func (s *Service) ExportRegister(ctx context.Context, period string) ([]byte, error) {
	if _, err := ParsePeriod(period); err != nil {
		return nil, err
	}
	records, err := s.store.ListRecords(ctx, Filter{Period: period})
	if err != nil {
		return nil, err
	}
	return BuildRegister(records)
}

func BuildRegister(records []Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(defaultSheet, registerSheet); err != nil {
		return nil, err
	}

	if err := writeRow(f, 1, toCells(registerHeaders)); err != nil {
		return nil, err
	}

	var totals Record
	for i, rec := range records {
		row := []any{
			rec.EmployeeID, rec.EmployeeName, rec.Period,
			MajorUnits(rec.BaseSalary), MajorUnits(rec.Overtime), MajorUnits(rec.Bonus), MajorUnits(rec.Gross),
			MajorUnits(rec.Tax), MajorUnits(rec.Pension), MajorUnits(rec.Deductions), MajorUnits(rec.TotalAmount),
			rec.Currency, rec.Status,
		}
		if err := writeRow(f, i+2, row); err != nil {
			return nil, err
		}
		totals.BaseSalary += rec.BaseSalary
		totals.Overtime += rec.Overtime
		totals.Bonus += rec.Bonus
		totals.Gross += rec.Gross
		totals.Tax += rec.Tax
		totals.Pension += rec.Pension
		totals.Deductions += rec.Deductions
		totals.TotalAmount += rec.TotalAmount
	}

	totalRow := []any{
		"", "Total", "",
		MajorUnits(totals.BaseSalary), MajorUnits(totals.Overtime), MajorUnits(totals.Bonus), MajorUnits(totals.Gross),
		MajorUnits(totals.Tax), MajorUnits(totals.Pension), MajorUnits(totals.Deductions), MajorUnits(totals.TotalAmount),
	}
	if err := writeRow(f, len(records)+2, totalRow); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write register: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func writeRow(f *excelize.File, row int, values []any) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(registerSheet, cell, val); err != nil {
			return fmt.Errorf("failed to set cell value: %w", err)
		}
	}
	return nil
}

func toCells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
