package ledger

import (
	"sort"
	"time"
)

// UndatedMonthKey groups projected movements that carry no date.
const UndatedMonthKey = "sin-fecha"

// MonthGroup holds the movements of one calendar month, most recent first.
type MonthGroup struct {
	Key       string     `json:"key"`
	Year      int        `json:"year,omitempty"`
	Month     time.Month `json:"month,omitempty"`
	Movements []Movement `json:"movements"`
}

// DisplayView is the on-screen arrangement of projected movements.
type DisplayView struct {
	Months  []MonthGroup `json:"months"`
	Opening *Movement    `json:"opening,omitempty"`
}

// GroupByMonth arranges projected movements by calendar month in loc, most
// recent month first. The opening entry, when present, is returned apart so it
// can trail the months.
func GroupByMonth(projected []Movement, loc *time.Location) DisplayView {
	if loc == nil {
		loc = time.UTC
	}
	var view DisplayView
	groups := make(map[string]*MonthGroup)
	for _, mov := range projected {
		if mov.IsOpening() {
			opening := mov
			view.Opening = &opening
			continue
		}
		key := UndatedMonthKey
		var year int
		var month time.Month
		if mov.Date != nil {
			local := mov.Date.In(loc)
			year, month = local.Year(), local.Month()
			key = local.Format("2006-01")
		}
		group := groups[key]
		if group == nil {
			group = &MonthGroup{Key: key, Year: year, Month: month}
			groups[key] = group
		}
		group.Movements = append(group.Movements, mov)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == UndatedMonthKey {
			return false
		}
		if keys[j] == UndatedMonthKey {
			return true
		}
		return keys[i] > keys[j]
	})
	view.Months = make([]MonthGroup, 0, len(keys))
	for _, key := range keys {
		group := groups[key]
		sort.SliceStable(group.Movements, func(i, j int) bool {
			return group.Movements[i].SequenceIndex > group.Movements[j].SequenceIndex
		})
		view.Months = append(view.Months, *group)
	}
	return view
}

// ExportOrder reverses the projected list so the most recent movement comes
// first and the opening entry, when present, comes last.
func ExportOrder(projected []Movement) []Movement {
	out := make([]Movement, len(projected))
	for i, mov := range projected {
		out[len(projected)-1-i] = mov
	}
	return out
}

// GroupDetails indexes detail lines by parent movement ID, keeping their order.
func GroupDetails(details []MovementDetail) map[int64][]MovementDetail {
	grouped := make(map[int64][]MovementDetail)
	for _, d := range details {
		grouped[d.MovementID] = append(grouped[d.MovementID], d)
	}
	return grouped
}
