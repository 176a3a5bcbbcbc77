package statement

import (
	"time"

	"github.com/lamdaser/statements/internal/customers"
	"github.com/lamdaser/statements/internal/ledger"
)

const documentTitle = "Informe de Movimientos"

// View is a loaded, computed statement ready to render.
type View struct {
	Customer    customers.Customer
	GeneratedAt time.Time
	Result      ledger.Result
	Details     map[int64][]ledger.MovementDetail
	Scheme      ledger.AgingScheme
	Warning     string
}

// DocumentOptions carries the letterhead and clock-independent settings.
type DocumentOptions struct {
	Company  string
	Alias    string
	Location *time.Location
}

// Document is the format-neutral statement every renderer consumes.
type Document struct {
	Header   Header
	Analysis []AnalysisLine
	Rows     []Row
	Months   []MonthSection
	Opening  *Row
	Form     FilterForm
	Warning  string
	Filename string
}

// FilterForm echoes the active filter back into the on-screen form.
type FilterForm struct {
	Kind string
	From string
	To   string
}

func filterForm(f ledger.FilterState, loc *time.Location) FilterForm {
	form := FilterForm{Kind: string(f.Kind)}
	if f.Kind != ledger.FilterDateRange {
		return form
	}
	if f.From != nil {
		form.From = f.From.In(loc).Format(time.DateOnly)
	}
	if f.To != nil {
		form.To = f.To.In(loc).Format(time.DateOnly)
	}
	return form
}

// Header is the statement letterhead.
type Header struct {
	Company        string
	Alias          string
	Title          string
	GeneratedOn    string
	CustomerName   string
	CustomerNumber string
	Balance        string
	PeriodBalance  string
	Filter         string
}

// AnalysisLine is one age bucket of the balance analysis.
type AnalysisLine struct {
	Color      string
	Amount     string
	Percentage string
	Label      string
	Invoices   int
}

// Row is one movement line.
type Row struct {
	Date       string
	Voucher    string
	Amount     string
	Balance    string
	Details    string
	Fill       string
	Bold       bool
	Invoice    bool
	CreditNote bool
	Opening    bool
}

// MonthSection groups rows for on-screen display.
type MonthSection struct {
	Title string
	Rows  []Row
}

// BuildDocument lays the view out as a statement. Rows follow export order,
// so the opening entry, when shown, comes last.
func BuildDocument(v View, opts DocumentOptions) Document {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	res := v.Result
	header := Header{
		Company:        opts.Company,
		Alias:          opts.Alias,
		Title:          documentTitle,
		GeneratedOn:    FormatDate(&v.GeneratedAt, loc),
		CustomerName:   v.Customer.FullName(),
		CustomerNumber: v.Customer.DisplayNumber(),
		Balance:        FormatMoney(res.FinalBalance),
		Filter:         DescribeFilter(res.Filter, loc),
	}
	if res.Filter.Active() && !res.ProjectedBalance.Equal(res.FinalBalance) {
		header.PeriodBalance = FormatMoney(res.ProjectedBalance)
	}

	doc := Document{
		Header:   header,
		Form:     filterForm(res.Filter, loc),
		Warning:  v.Warning,
		Filename: Filename(v.Customer.Number, v.Customer.FullName(), v.GeneratedAt, loc, "pdf"),
	}
	for _, a := range res.Analysis {
		doc.Analysis = append(doc.Analysis, AnalysisLine{
			Color:      a.Bucket.Color,
			Amount:     FormatMoney(a.Amount),
			Percentage: FormatPercent(a.Percentage),
			Label:      a.Bucket.Label,
			Invoices:   a.Invoices,
		})
	}

	build := func(mov ledger.Movement) Row {
		return buildRow(mov, v.Details[mov.ID], res.Aging, loc)
	}
	for _, mov := range ledger.ExportOrder(res.Projected) {
		doc.Rows = append(doc.Rows, build(mov))
	}
	for _, g := range res.Display.Months {
		section := MonthSection{Title: MonthTitle(g)}
		for _, mov := range g.Movements {
			section.Rows = append(section.Rows, build(mov))
		}
		doc.Months = append(doc.Months, section)
	}
	if res.Display.Opening != nil {
		opening := build(*res.Display.Opening)
		doc.Opening = &opening
	}
	return doc
}

func buildRow(mov ledger.Movement, details []ledger.MovementDetail, aging map[int64]ledger.AgingEntry, loc *time.Location) Row {
	if mov.IsOpening() {
		return Row{
			Date:    FormatDate(nil, loc),
			Voucher: ledger.OpeningVoucherName,
			Amount:  FormatMoney(mov.GrossAmount),
			Balance: FormatMoney(mov.PartialBalance),
			Opening: true,
		}
	}
	c := mov.Classification()
	row := Row{
		Date:       FormatDate(mov.Date, loc),
		Voucher:    VoucherLabel(mov, details),
		Amount:     FormatMoney(mov.GrossAmount),
		Balance:    FormatMoney(mov.PartialBalance),
		Invoice:    c.IsInvoice,
		CreditNote: c.IsCreditNote,
		Details:    DetailLines(details),
	}
	if entry, ok := aging[mov.ID]; ok && c.IsInvoice {
		row.Fill = entry.Bucket.Color
		row.Bold = true
	}
	return row
}
