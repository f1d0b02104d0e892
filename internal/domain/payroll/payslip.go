package payroll

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

// PayslipPDF renders the record's payslip. When a payslip directory is
// configured a copy is archived there, encrypted if a data key is set.
func (s *Service) PayslipPDF(ctx context.Context, recordID string) ([]byte, error) {
	rec, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	companyName := ""
	if cfg, err := s.settings.Get(ctx); err == nil {
		companyName = cfg.CompanyName
	}
	data, err := RenderPayslip(rec, companyName)
	if err != nil {
		return nil, err
	}
	if s.payslipDir != "" {
		if err := s.archivePayslip(rec.ID, data); err != nil {
			return nil, fmt.Errorf("archive payslip: %w", err)
		}
	}
	return data, nil
}

func (s *Service) archivePayslip(recordID string, data []byte) error {
	if err := os.MkdirAll(s.payslipDir, 0o755); err != nil {
		return err
	}
	name := recordID + ".pdf"
	if s.crypto != nil && s.crypto.Configured() {
		encrypted, err := s.crypto.Encrypt(data)
		if err != nil {
			return err
		}
		data = encrypted
		name += ".enc"
	}
	return os.WriteFile(filepath.Join(s.payslipDir, name), data, 0o600)
}

func RenderPayslip(rec Record, companyName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	title := "Payslip"
	if companyName != "" {
		title = companyName + " Payslip"
	}
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", rec.EmployeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", rec.Period))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", rec.Status))
	pdf.Ln(10)

	lines := []struct {
		label  string
		amount int64
	}{
		{"Base salary", rec.BaseSalary},
		{"Overtime", rec.Overtime},
		{"Bonus", rec.Bonus},
		{"Gross pay", rec.Gross},
		{"Tax", rec.Tax},
		{"Pension", rec.Pension},
		{"Total deductions", rec.Deductions},
	}
	for _, line := range lines {
		pdf.CellFormat(70, 8, line.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, FormatMoney(line.amount, rec.Currency), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(70, 8, "Net pay", "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, FormatMoney(rec.TotalAmount, rec.Currency), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
