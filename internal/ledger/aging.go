package ledger

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Allocations smaller than this are floating residue, not real coverage.
var minInvolvedAmount = decimal.RequireFromString("0.99")

var hundred = decimal.NewFromInt(100)

type allocation struct {
	movement Movement
	involved decimal.Decimal
}

// allocate walks invoices from the most recent sequence index backwards,
// covering finalBalance until it is exhausted.
func allocate(balanced []Movement, finalBalance decimal.Decimal) []allocation {
	if !finalBalance.IsPositive() {
		return nil
	}
	invoices := make([]Movement, 0, len(balanced))
	for _, mov := range balanced {
		if mov.IsOpening() || !Classify(mov.VoucherTypeName).IsInvoice {
			continue
		}
		invoices = append(invoices, mov)
	}
	sort.SliceStable(invoices, func(i, j int) bool {
		return invoices[i].SequenceIndex > invoices[j].SequenceIndex
	})

	var out []allocation
	remaining := finalBalance
	for _, inv := range invoices {
		if !remaining.IsPositive() {
			break
		}
		involved := decimal.Min(inv.GrossAmount, remaining)
		if involved.Abs().LessThan(minInvolvedAmount) {
			continue
		}
		out = append(out, allocation{movement: inv, involved: involved})
		remaining = remaining.Sub(involved)
	}
	return out
}

// AllocateAging assigns a positive final balance to the most recent invoices
// and buckets each involved invoice by the days elapsed up to asOf. The map is
// keyed by movement ID and is empty when finalBalance is not positive.
func AllocateAging(balanced []Movement, finalBalance decimal.Decimal, asOf time.Time, scheme AgingScheme) map[int64]AgingEntry {
	allocations := allocate(balanced, finalBalance)
	entries := make(map[int64]AgingEntry, len(allocations))
	for _, a := range allocations {
		elapsed := DaysElapsed(a.movement.Date, asOf)
		entries[a.movement.ID] = AgingEntry{
			MovementID:     a.movement.ID,
			SequenceIndex:  a.movement.SequenceIndex,
			InvolvedAmount: a.involved,
			Percentage:     a.involved.Div(finalBalance).Mul(hundred),
			DaysElapsed:    elapsed,
			Bucket:         scheme.BucketFor(elapsed),
		}
	}
	return entries
}

// DaysElapsed counts whole days between date and asOf, flooring partial days.
// A missing date counts as zero days.
func DaysElapsed(date *time.Time, asOf time.Time) int {
	if date == nil {
		return 0
	}
	return int(math.Floor(asOf.Sub(*date).Hours() / 24))
}

// AnalysisRow sums the aging entries that fall into one bucket.
type AnalysisRow struct {
	Bucket     Bucket          `json:"bucket"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
	Invoices   int             `json:"invoices"`
}

// SummarizeAging groups entries by bucket in scheme order, skipping empty buckets.
func SummarizeAging(entries map[int64]AgingEntry, scheme AgingScheme) []AnalysisRow {
	if len(entries) == 0 {
		return nil
	}
	sums := make(map[string]*AnalysisRow, len(scheme.Buckets))
	for _, entry := range entries {
		row := sums[entry.Bucket.Key]
		if row == nil {
			row = &AnalysisRow{Bucket: entry.Bucket, Amount: decimal.Zero, Percentage: decimal.Zero}
			sums[entry.Bucket.Key] = row
		}
		row.Amount = row.Amount.Add(entry.InvolvedAmount)
		row.Percentage = row.Percentage.Add(entry.Percentage)
		row.Invoices++
	}
	rows := make([]AnalysisRow, 0, len(sums))
	for _, key := range scheme.Order() {
		if row, ok := sums[key]; ok {
			rows = append(rows, *row)
		}
	}
	return rows
}
