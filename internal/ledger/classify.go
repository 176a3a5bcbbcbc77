package ledger

import "strings"

// Direction describes the effect of a voucher on the running balance.
type Direction int

const (
	Neutral Direction = iota
	Increase
	Decrease
)

func (d Direction) String() string {
	switch d {
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	default:
		return "neutral"
	}
}

// Classification is the outcome of Classify.
type Classification struct {
	Direction    Direction
	IsCreditNote bool
	IsInvoice    bool
}

// IsReceipt reports whether the voucher is a receipt (payment).
func (c Classification) IsReceipt() bool {
	return c.Direction == Decrease
}

// Credit notes increase the balance: in this ledger they are adjustments
// billed against the customer.
var increasingVouchers = map[string]struct{}{
	"FA":        {},
	"FB":        {},
	"FC":        {},
	"FD":        {},
	"FE":        {},
	"N/C A":     {},
	"N/C B":     {},
	"N/C C":     {},
	"N/C E":     {},
	"Mov. Cli.": {},
}

var invoiceVouchers = map[string]struct{}{
	"FA": {},
	"FB": {},
	"FC": {},
	"FD": {},
	"FE": {},
}

const receiptPrefix = "RB"

// Classify maps a voucher type name to its balance direction and display flags.
// Unknown names are neutral.
func Classify(voucherTypeName string) Classification {
	var c Classification
	switch {
	case isIncreasing(voucherTypeName):
		c.Direction = Increase
	case strings.HasPrefix(voucherTypeName, receiptPrefix):
		c.Direction = Decrease
	}
	_, c.IsInvoice = invoiceVouchers[voucherTypeName]
	c.IsCreditNote = isCreditNote(voucherTypeName)
	return c
}

func isIncreasing(name string) bool {
	_, ok := increasingVouchers[name]
	return ok
}

func isCreditNote(name string) bool {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "" {
		return false
	}
	return strings.Contains(upper, "N/C") ||
		strings.HasPrefix(upper, "N") ||
		strings.Contains(upper, "NOTA DE CRÉDITO")
}
