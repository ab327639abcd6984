package pdf_test

import (
	"testing"
	"time"

	"mobileopsconnect/internal/pdf"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayslip() pdf.PayslipData {
	return pdf.PayslipData{
		EmployeeName:  "delta@mobileops.com",
		EmployeeEmail: "delta@mobileops.com",
		Role:          "WarehouseStaff",
		CompanyName:   "MobileOps Hardware",
		PayPeriod:     "August 2026",
		PayDate:       time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		BasicSalary:   decimal.NewFromInt(26000),
		Overtime:      decimal.NewFromInt(4500),
		Allowances:    decimal.NewFromInt(1500),
		Tax:           decimal.NewFromInt(2200),
		SSS:           decimal.NewFromInt(1350),
		PhilHealth:    decimal.NewFromInt(1125),
		PagIbig:       decimal.NewFromInt(100),
	}
}

func TestPayslipTotals(t *testing.T) {
	data := samplePayslip()

	assert.True(t, data.GrossPay().Equal(decimal.NewFromInt(32000)))
	assert.True(t, data.TotalDeductions().Equal(decimal.NewFromInt(4775)))
	assert.True(t, data.NetPay().Equal(decimal.NewFromInt(27225)))
}

func TestRenderPayslipProducesPDF(t *testing.T) {
	doc, err := pdf.RenderPayslip(samplePayslip())
	require.NoError(t, err)
	require.NotEmpty(t, doc)

	// PDF documents start with the %PDF- magic bytes
	assert.Equal(t, "%PDF-", string(doc[:5]))
}
