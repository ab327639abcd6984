// Package pdf renders payroll documents. The renderer is a pure function
// of its input data, no storage or network access.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// PayslipData carries everything needed to render a payslip.
type PayslipData struct {
	EmployeeName  string
	EmployeeEmail string
	Role          string
	CompanyName   string
	PayPeriod     string
	PayDate       time.Time
	BasicSalary   decimal.Decimal
	Overtime      decimal.Decimal
	Allowances    decimal.Decimal
	Tax           decimal.Decimal
	SSS           decimal.Decimal
	PhilHealth    decimal.Decimal
	PagIbig       decimal.Decimal
}

// GrossPay is basic + overtime + allowances.
func (d PayslipData) GrossPay() decimal.Decimal {
	return d.BasicSalary.Add(d.Overtime).Add(d.Allowances)
}

// TotalDeductions is tax plus the statutory contributions.
func (d PayslipData) TotalDeductions() decimal.Decimal {
	return d.Tax.Add(d.SSS).Add(d.PhilHealth).Add(d.PagIbig)
}

// NetPay is gross pay minus total deductions.
func (d PayslipData) NetPay() decimal.Decimal {
	return d.GrossPay().Sub(d.TotalDeductions())
}

// RenderPayslip produces the payslip as PDF bytes.
func RenderPayslip(data PayslipData) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	contentW := 170.0

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 10, data.CompanyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, "Employee Payslip", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Employee block
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, "Employee", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW-40, 6, data.EmployeeName, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, "Email", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW-40, 6, data.EmployeeEmail, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, "Role", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW-40, 6, data.Role, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, "Pay Period", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW-40, 6, data.PayPeriod, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, "Pay Date", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW-40, 6, data.PayDate.Format("January 2, 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Earnings
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, "Earnings", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	writeAmountRow(pdf, contentW, "Basic Salary", data.BasicSalary)
	writeAmountRow(pdf, contentW, "Overtime", data.Overtime)
	writeAmountRow(pdf, contentW, "Allowances", data.Allowances)
	pdf.SetFont("Helvetica", "B", 10)
	writeAmountRow(pdf, contentW, "Gross Pay", data.GrossPay())
	pdf.Ln(4)

	// Deductions
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, "Deductions", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	writeAmountRow(pdf, contentW, "Withholding Tax", data.Tax)
	writeAmountRow(pdf, contentW, "SSS", data.SSS)
	writeAmountRow(pdf, contentW, "PhilHealth", data.PhilHealth)
	writeAmountRow(pdf, contentW, "Pag-IBIG", data.PagIbig)
	pdf.SetFont("Helvetica", "B", 10)
	writeAmountRow(pdf, contentW, "Total Deductions", data.TotalDeductions())
	pdf.Ln(6)

	// Net pay
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW/2, 9, "NET PAY", "T", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 9, "PHP "+data.NetPay().StringFixed(2), "T", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Generated by %s on %s", data.CompanyName, time.Now().Format("2006-01-02")), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render payslip: %w", err)
	}
	return buf.Bytes(), nil
}

func writeAmountRow(pdf *fpdf.Fpdf, contentW float64, label string, amount decimal.Decimal) {
	pdf.CellFormat(contentW/2, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 6, amount.StringFixed(2), "", 1, "R", false, 0, "")
}
