package statement

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamdaser/statements/internal/ledger"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0,00", FormatMoney(decimal.RequireFromString("0.99")))
	assert.Equal(t, "$0,00", FormatMoney(decimal.RequireFromString("-0.5")))
	assert.Equal(t, "$1,00", FormatMoney(decimal.RequireFromString("1")))
	assert.Equal(t, "$150,50", FormatMoney(decimal.RequireFromString("150.5")))
	assert.Equal(t, "40,00%", FormatPercent(decimal.NewFromInt(40)))
	assert.Equal(t, "1.234.567,89", FormatAmount(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "-1.000.000,00", FormatAmount(decimal.RequireFromString("-999999.999")))
	assert.Equal(t, "90.071.992.547.409,93", FormatAmount(decimal.RequireFromString("90071992547409.93")))
}

func TestInvoiceNumber(t *testing.T) {
	n := int64(15)
	assert.Equal(t, "0003 - 00000015", InvoiceNumber(intPtr(3), &n))
	assert.Equal(t, "0000 - 00000000", InvoiceNumber(nil, &n))
	assert.Equal(t, "0000 - 00000000", InvoiceNumber(intPtr(3), nil))
}

func TestDetailLines(t *testing.T) {
	assert.Empty(t, DetailLines(nil))
	assert.Equal(t, "---", DetailLines([]ledger.MovementDetail{{Article: "A1", Description: "Tornillo"}}))
	assert.Equal(t, "A1 - Tornillo (x4)\nB2 - Tuerca (x1.5)", DetailLines([]ledger.MovementDetail{
		{Article: "A1", Description: "Tornillo", Quantity: decimal.NewFromInt(4)},
		{Article: "", Description: "Flete", Quantity: decimal.NewFromInt(1)},
		{Article: "B2", Description: "Tuerca", Quantity: decimal.RequireFromString("1.5")},
	}))
}

func TestVoucherLabel(t *testing.T) {
	invoice := ledger.Movement{VoucherTypeName: "FA", VoucherNumber: 15}
	assert.Equal(t, "FA 0000 - 00000000", VoucherLabel(invoice, nil))
	assert.Equal(t, "FA 0002 - 00000015", VoucherLabel(invoice, []ledger.MovementDetail{{PointOfSale: intPtr(2)}}))

	receipt := ledger.Movement{VoucherTypeName: "RB A", CashFlag: strPtr(" EFECTIVO ")}
	assert.Equal(t, "RB A (EFECTIVO)", VoucherLabel(receipt, nil))
	receipt.CashFlag = strPtr("")
	assert.Equal(t, "RB A", VoucherLabel(receipt, nil))
	assert.Equal(t, "N/C A", VoucherLabel(ledger.Movement{VoucherTypeName: "N/C A", CashFlag: strPtr("X")}, nil))
}

func TestFilename(t *testing.T) {
	at := time.Date(2025, 3, 31, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "7_Ana Pérez_Resumen de Cuenta_31-03-2025.pdf", Filename(7, "Ana Pérez", at, time.UTC, "pdf"))
	assert.Equal(t, "7_A-B_Resumen de Cuenta_31-03-2025.csv", Filename(7, "A/B", at, art, "csv"))
	assert.Equal(t, "7_X_Resumen de Cuenta_01-04-2025.pdf", Filename(7, "X", at, time.FixedZone("E", 3600), "pdf"))
}

func TestDescribeFilter(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, art)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, art)
	assert.Equal(t, "Todos los movimientos", DescribeFilter(ledger.NoFilter(), art))
	assert.Equal(t, "Desde 01/01/2025 hasta 31/01/2025", DescribeFilter(ledger.FilterState{Kind: ledger.FilterDateRange, From: &from, To: &to}, art))
	assert.Equal(t, "Hasta 31/01/2025", DescribeFilter(ledger.FilterState{Kind: ledger.FilterDateRange, To: &to}, art))
}

func TestMonthTitle(t *testing.T) {
	assert.Equal(t, "marzo 2025", MonthTitle(ledger.MonthGroup{Key: "2025-03", Year: 2025, Month: time.March}))
	assert.Equal(t, "Sin fecha", MonthTitle(ledger.MonthGroup{Key: ledger.UndatedMonthKey}))
}

func fixtureView(t *testing.T, filter ledger.FilterState) View {
	t.Helper()
	view, err := newFixtureService(newFixtureSource()).Statement(context.Background(), 7, filter)
	require.NoError(t, err)
	return view
}

func TestBuildDocument(t *testing.T) {
	svc := newFixtureService(newFixtureSource())
	doc := BuildDocument(fixtureView(t, ledger.NoFilter()), svc.DocumentOptions())

	h := doc.Header
	assert.Equal(t, "Lamda", h.Company)
	assert.Equal(t, "LAMDA.SER.MARTIN", h.Alias)
	assert.Equal(t, "Informe de Movimientos", h.Title)
	assert.Equal(t, "31/03/2025", h.GeneratedOn)
	assert.Equal(t, "007", h.CustomerNumber)
	assert.Equal(t, "$500,00", h.Balance)
	assert.Empty(t, h.PeriodBalance)
	assert.Equal(t, "7_Ana Pérez_Resumen de Cuenta_31-03-2025.pdf", doc.Filename)
	assert.Equal(t, "7_Ana Pérez_Resumen de Cuenta_31-03-2025.xlsx", doc.FilenameFor(FormatXLSX))

	require.Len(t, doc.Analysis, 2)
	assert.Equal(t, AnalysisLine{Color: "#d4edda", Amount: "$200,00", Percentage: "40,00%", Label: "Hasta 7 días", Invoices: 1}, doc.Analysis[0])
	assert.Equal(t, "#800020", doc.Analysis[1].Color)
	assert.Equal(t, "60,00%", doc.Analysis[1].Percentage)

	require.Len(t, doc.Rows, 4)
	fb, rb, fa, opening := doc.Rows[0], doc.Rows[1], doc.Rows[2], doc.Rows[3]
	assert.Equal(t, "FB 0003 - 00000016", fb.Voucher)
	assert.Equal(t, "#d4edda", fb.Fill)
	assert.True(t, fb.Bold)
	assert.Equal(t, "---", fb.Details)
	assert.Equal(t, "RB A (EFECTIVO)", rb.Voucher)
	assert.Empty(t, rb.Fill)
	assert.False(t, rb.Bold)
	assert.Equal(t, "$300,00", rb.Balance)
	assert.Equal(t, "FA 0003 - 00000015", fa.Voucher)
	assert.Equal(t, "#800020", fa.Fill)
	assert.Equal(t, "A1 - Tornillo (x4)", fa.Details)
	assert.Equal(t, "19/02/2025", fa.Date)
	assert.True(t, opening.Opening)
	assert.Equal(t, "Saldo Inicial", opening.Voucher)
	assert.Equal(t, "-", opening.Date)

	require.Len(t, doc.Months, 2)
	assert.Equal(t, "marzo 2025", doc.Months[0].Title)
	require.Len(t, doc.Months[0].Rows, 2)
	assert.Equal(t, fb, doc.Months[0].Rows[0])
	assert.Equal(t, "febrero 2025", doc.Months[1].Title)
	require.NotNil(t, doc.Opening)
	assert.Equal(t, opening, *doc.Opening)
}

func TestBuildDocumentFiltered(t *testing.T) {
	from := time.Date(2025, 2, 1, 0, 0, 0, 0, art)
	to := time.Date(2025, 2, 28, 0, 0, 0, 0, art)
	filter, err := ledger.DateRange(&from, &to)
	require.NoError(t, err)

	doc := BuildDocument(fixtureView(t, filter), DocumentOptions{Location: art})
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, "$500,00", doc.Header.Balance)
	assert.Equal(t, "$600,00", doc.Header.PeriodBalance)
	assert.Equal(t, "Desde 01/02/2025 hasta 28/02/2025", doc.Header.Filter)
	assert.Nil(t, doc.Opening)
	assert.Len(t, doc.Analysis, 2)
	assert.Equal(t, FilterForm{Kind: "rango", From: "2025-02-01", To: "2025-02-28"}, doc.Form)
}

func TestBuildDocumentFormWithoutRange(t *testing.T) {
	doc := BuildDocument(fixtureView(t, ledger.FromZeroBalance()), DocumentOptions{Location: art})
	assert.Equal(t, FilterForm{Kind: "saldo-cero"}, doc.Form)
}
