package statement

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lamdaser/statements/internal/ledger"
)

// StatementQuery holds the filter parameters of a statement request.
type StatementQuery struct {
	Filter string `validate:"omitempty,oneof=saldo-cero rango facturas"`
	From   string `validate:"omitempty,datetime=2006-01-02"`
	To     string `validate:"omitempty,datetime=2006-01-02"`
}

// QueryFromValues reads filtro, desde and hasta.
func QueryFromValues(v url.Values) StatementQuery {
	return StatementQuery{
		Filter: strings.TrimSpace(v.Get("filtro")),
		From:   strings.TrimSpace(v.Get("desde")),
		To:     strings.TrimSpace(v.Get("hasta")),
	}
}

// FilterState validates q and converts it to a ledger filter. Bounds are
// calendar days in loc. Dates without a filter name select a date range.
// An inverted range is returned as is so the caller can report it.
func (q StatementQuery) FilterState(v *validator.Validate, loc *time.Location) (ledger.FilterState, error) {
	if err := v.Struct(q); err != nil {
		return ledger.FilterState{}, err
	}
	kind, err := ledger.ParseFilterKind(q.Filter)
	if err != nil {
		return ledger.FilterState{}, err
	}
	if kind == ledger.FilterNone && (q.From != "" || q.To != "") {
		kind = ledger.FilterDateRange
	}
	if kind != ledger.FilterDateRange {
		return ledger.FilterState{Kind: kind}, nil
	}
	from, err := parseDay(q.From, loc)
	if err != nil {
		return ledger.FilterState{}, err
	}
	to, err := parseDay(q.To, loc)
	if err != nil {
		return ledger.FilterState{}, err
	}
	return ledger.FilterState{Kind: ledger.FilterDateRange, From: from, To: to}, nil
}

func parseDay(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", s, err)
	}
	return &t, nil
}
