package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Running balances with an absolute value below one are rounded to zero.
var zeroBalanceThreshold = decimal.NewFromInt(1)

// ComputeBalances orders movements chronologically, folds the opening balance
// through them and prepends the synthetic opening entry. Inputs are not modified.
//
// Movements without a date sort after every dated movement; ties keep the
// lower movement ID first.
func ComputeBalances(opening OpeningBalance, movements []Movement) []Movement {
	sorted := make([]Movement, len(movements))
	copy(sorted, movements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return chronologicalLess(sorted[i], sorted[j])
	})

	out := make([]Movement, 0, len(sorted)+1)
	out = append(out, openingEntry(opening))

	running := opening.Amount
	for i := range sorted {
		mov := sorted[i]
		switch Classify(mov.VoucherTypeName).Direction {
		case Increase:
			running = running.Add(mov.GrossAmount)
		case Decrease:
			running = running.Sub(mov.GrossAmount)
		}
		running = normalizeBalance(running)
		mov.SequenceIndex = i + OpeningSequenceIndex + 1
		mov.PartialBalance = running
		out = append(out, mov)
	}
	return out
}

// FinalBalance returns the partial balance of the last balanced movement.
func FinalBalance(balanced []Movement) decimal.Decimal {
	if len(balanced) == 0 {
		return decimal.Zero
	}
	return balanced[len(balanced)-1].PartialBalance
}

// IsZeroBalance reports whether a running balance counts as settled.
func IsZeroBalance(v decimal.Decimal) bool {
	return v.Abs().LessThan(zeroBalanceThreshold)
}

func normalizeBalance(v decimal.Decimal) decimal.Decimal {
	if IsZeroBalance(v) {
		return decimal.Zero
	}
	return v
}

func openingEntry(opening OpeningBalance) Movement {
	return Movement{
		VoucherTypeName: OpeningVoucherName,
		GrossAmount:     opening.Amount,
		NetAmount:       opening.Amount,
		SequenceIndex:   OpeningSequenceIndex,
		PartialBalance:  opening.Amount,
	}
}

func chronologicalLess(a, b Movement) bool {
	switch {
	case a.Date == nil && b.Date == nil:
		return a.ID < b.ID
	case a.Date == nil:
		return false
	case b.Date == nil:
		return true
	case a.Date.Equal(*b.Date):
		return a.ID < b.ID
	default:
		return a.Date.Before(*b.Date)
	}
}
