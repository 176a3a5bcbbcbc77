package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FilterKind names the active statement filter.
type FilterKind string

const (
	FilterNone             FilterKind = ""
	FilterFromZeroBalance  FilterKind = "saldo-cero"
	FilterDateRange        FilterKind = "rango"
	FilterInvoicesInvolved FilterKind = "facturas"
)

// ParseFilterKind accepts the query-string spelling of a filter.
func ParseFilterKind(s string) (FilterKind, error) {
	switch k := FilterKind(s); k {
	case FilterNone, FilterFromZeroBalance, FilterDateRange, FilterInvoicesInvolved:
		return k, nil
	default:
		return FilterNone, fmt.Errorf("ledger: unknown filter %q", s)
	}
}

// FilterState holds exactly one active filter. From and To are only used by
// FilterDateRange; a nil bound is unbounded.
type FilterState struct {
	Kind FilterKind `json:"kind"`
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// NoFilter shows every movement plus the opening entry.
func NoFilter() FilterState { return FilterState{Kind: FilterNone} }

// FromZeroBalance shows movements since the last settled balance.
func FromZeroBalance() FilterState { return FilterState{Kind: FilterFromZeroBalance} }

// InvoicesInvolved shows movements since the oldest invoice covering the balance.
func InvoicesInvolved() FilterState { return FilterState{Kind: FilterInvoicesInvolved} }

// DateRange builds a date-range filter, rejecting from after to.
func DateRange(from, to *time.Time) (FilterState, error) {
	f := FilterState{Kind: FilterDateRange, From: from, To: to}
	if err := f.Validate(); err != nil {
		return FilterState{}, err
	}
	return f, nil
}

// Validate enforces from <= to for date ranges.
func (f FilterState) Validate() error {
	if f.Kind == FilterDateRange && f.From != nil && f.To != nil && f.From.After(*f.To) {
		return ErrInvalidDateRange
	}
	return nil
}

// Active reports whether any filter other than none is selected.
func (f FilterState) Active() bool {
	return f.Kind != FilterNone
}

// ApplyFilter returns the ordered subset of balanced movements selected by
// filter. The opening entry is only kept when no filter is active. Date
// bounds compare calendar days in loc.
func ApplyFilter(balanced []Movement, filter FilterState, loc *time.Location) []Movement {
	if loc == nil {
		loc = time.UTC
	}
	switch filter.Kind {
	case FilterFromZeroBalance:
		return withoutOpening(fromLastZeroBalance(balanced))
	case FilterDateRange:
		return withinDates(balanced, filter.From, filter.To, loc)
	case FilterInvoicesInvolved:
		return withoutOpening(sinceOldestInvolvedInvoice(balanced))
	default:
		out := make([]Movement, len(balanced))
		copy(out, balanced)
		return out
	}
}

// RecomputeFinalBalance is the balance after the last projected movement, or
// the opening amount when nothing is projected.
func RecomputeFinalBalance(projected []Movement, opening OpeningBalance) decimal.Decimal {
	if len(projected) == 0 {
		return opening.Amount
	}
	return projected[len(projected)-1].PartialBalance
}

func fromLastZeroBalance(balanced []Movement) []Movement {
	for i := len(balanced) - 1; i >= 0; i-- {
		mov := balanced[i]
		if mov.IsOpening() {
			continue
		}
		if IsZeroBalance(mov.PartialBalance) {
			return balanced[i:]
		}
	}
	return balanced
}

func sinceOldestInvolvedInvoice(balanced []Movement) []Movement {
	allocations := allocate(balanced, FinalBalance(balanced))
	if len(allocations) == 0 {
		return balanced
	}
	minIndex := allocations[0].movement.SequenceIndex
	for _, a := range allocations[1:] {
		if a.movement.SequenceIndex < minIndex {
			minIndex = a.movement.SequenceIndex
		}
	}
	out := make([]Movement, 0, len(balanced))
	for _, mov := range balanced {
		if mov.SequenceIndex >= minIndex {
			out = append(out, mov)
		}
	}
	return out
}

func withinDates(balanced []Movement, from, to *time.Time, loc *time.Location) []Movement {
	var lower, upper time.Time
	if from != nil {
		lower = civilDay(*from, loc)
	}
	if to != nil {
		upper = civilDay(*to, loc)
	}
	out := make([]Movement, 0, len(balanced))
	for _, mov := range balanced {
		if mov.IsOpening() || mov.Date == nil {
			continue
		}
		day := civilDay(*mov.Date, loc)
		if from != nil && day.Before(lower) {
			continue
		}
		if to != nil && day.After(upper) {
			continue
		}
		out = append(out, mov)
	}
	return out
}

func withoutOpening(movements []Movement) []Movement {
	out := make([]Movement, 0, len(movements))
	for _, mov := range movements {
		if !mov.IsOpening() {
			out = append(out, mov)
		}
	}
	return out
}

func civilDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
