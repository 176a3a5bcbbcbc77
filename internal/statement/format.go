package statement

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/lamdaser/statements/internal/ledger"
)

// Amounts within this distance of zero print as zero.
var displayZero = decimal.RequireFromString("0.99")

var printer = message.NewPrinter(language.MustParse("es-AR"))

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatAmount prints v with es-AR grouping and two decimals.
func FormatAmount(v decimal.Decimal) string {
	if v.Abs().LessThanOrEqual(displayZero) {
		v = decimal.Zero
	}
	abs := v.Abs().Round(2)
	text := abs.StringFixed(2)
	whole, cents, _ := strings.Cut(text, ".")
	if n := abs.Truncate(0).BigInt(); n.IsInt64() {
		whole = printer.Sprint(number.Decimal(n.Int64()))
	}
	sign := ""
	if v.Sign() < 0 && text != "0.00" {
		sign = "-"
	}
	return sign + whole + "," + cents
}

// FormatMoney is FormatAmount with a currency sign.
func FormatMoney(v decimal.Decimal) string {
	return "$" + FormatAmount(v)
}

// FormatPercent prints a percentage with two decimals.
func FormatPercent(v decimal.Decimal) string {
	return FormatAmount(v) + "%"
}

// FormatDate prints DD/MM/YYYY in loc, or "-" without a date.
func FormatDate(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02/01/2006")
}

// MonthTitle names a month group, e.g. "marzo 2025".
func MonthTitle(g ledger.MonthGroup) string {
	if g.Key == ledger.UndatedMonthKey || g.Month < time.January || g.Month > time.December {
		return "Sin fecha"
	}
	return fmt.Sprintf("%s %d", monthNames[g.Month-1], g.Year)
}

// InvoiceNumber prints "PPPP - NNNNNNNN", or zeros when either part is missing.
func InvoiceNumber(pointOfSale *int, number *int64) string {
	if pointOfSale == nil || number == nil {
		return "0000 - 00000000"
	}
	return fmt.Sprintf("%04d - %08d", *pointOfSale, *number)
}

// DetailLines joins the printable detail lines of a movement. Details
// lacking an article, a description or a quantity are left out; when none
// remain the cell shows "---".
func DetailLines(details []ledger.MovementDetail) string {
	if len(details) == 0 {
		return ""
	}
	lines := make([]string, 0, len(details))
	for _, d := range details {
		if d.Article == "" || d.Description == "" || d.Quantity.IsZero() {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s - %s (x%s)", d.Article, d.Description, d.Quantity.String()))
	}
	if len(lines) == 0 {
		return "---"
	}
	return strings.Join(lines, "\n")
}

// VoucherLabel is the "Comprobante" cell of a movement.
func VoucherLabel(mov ledger.Movement, details []ledger.MovementDetail) string {
	c := mov.Classification()
	label := mov.VoucherTypeName
	switch {
	case c.IsInvoice:
		pos := mov.PointOfSale
		if pos == nil && len(details) > 0 {
			pos = details[0].PointOfSale
		}
		var number *int64
		if mov.VoucherNumber != 0 {
			n := mov.VoucherNumber
			number = &n
		}
		label += " " + InvoiceNumber(pos, number)
	case c.IsReceipt() && mov.CashFlag != nil && strings.TrimSpace(*mov.CashFlag) != "":
		label += " (" + strings.TrimSpace(*mov.CashFlag) + ")"
	}
	return label
}

// DescribeFilter is the header line naming the active filter.
func DescribeFilter(f ledger.FilterState, loc *time.Location) string {
	switch f.Kind {
	case ledger.FilterFromZeroBalance:
		return "Desde el último saldo cero"
	case ledger.FilterInvoicesInvolved:
		return "Desde la factura más antigua involucrada en el saldo"
	case ledger.FilterDateRange:
		switch {
		case f.From != nil && f.To != nil:
			return fmt.Sprintf("Desde %s hasta %s", FormatDate(f.From, loc), FormatDate(f.To, loc))
		case f.From != nil:
			return "Desde " + FormatDate(f.From, loc)
		case f.To != nil:
			return "Hasta " + FormatDate(f.To, loc)
		default:
			return "Todas las fechas"
		}
	default:
		return "Todos los movimientos"
	}
}

// Filename builds "{id}_{name}_Resumen de Cuenta_{DD-MM-YYYY}.{ext}" from the
// generation date.
func Filename(number int64, name string, generatedAt time.Time, loc *time.Location, ext string) string {
	if loc == nil {
		loc = time.UTC
	}
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	return fmt.Sprintf("%d_%s_Resumen de Cuenta_%s.%s", number, clean, generatedAt.In(loc).Format("02-01-2006"), ext)
}
