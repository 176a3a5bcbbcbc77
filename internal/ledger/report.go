package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Options carries the environment of a computation.
type Options struct {
	AsOf     time.Time
	Location *time.Location
	Scheme   AgingScheme
}

// Result bundles every derived figure of one statement computation.
type Result struct {
	Filter           FilterState
	Opening          OpeningBalance
	Balanced         []Movement
	Projected        []Movement
	FinalBalance     decimal.Decimal
	ProjectedBalance decimal.Decimal
	Aging            map[int64]AgingEntry
	Analysis         []AnalysisRow
	Display          DisplayView
}

// Compute runs the balance, aging and filter stages. Aging always covers the
// full balanced list so every filter shows the same invoice involvement.
func Compute(opening OpeningBalance, movements []Movement, filter FilterState, opts Options) Result {
	if len(opts.Scheme.Buckets) == 0 {
		opts.Scheme = FiveBucketScheme()
	}
	balanced := ComputeBalances(opening, movements)
	final := FinalBalance(balanced)
	aging := AllocateAging(balanced, final, opts.AsOf, opts.Scheme)
	projected := ApplyFilter(balanced, filter, opts.Location)
	return Result{
		Filter:           filter,
		Opening:          opening,
		Balanced:         balanced,
		Projected:        projected,
		FinalBalance:     final,
		ProjectedBalance: RecomputeFinalBalance(projected, opening),
		Aging:            aging,
		Analysis:         SummarizeAging(aging, opts.Scheme),
		Display:          GroupByMonth(projected, opts.Location),
	}
}

// Compute runs the pipeline over the accepted dataset and active filter.
func (s *SessionState) Compute(opts Options) Result {
	return Compute(s.data.Opening, s.data.Movements, s.filter, opts)
}
