// Package statement loads a customer's account, runs the ledger pipeline and
// renders the result as an account statement.
package statement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lamdaser/statements/internal/customers"
	"github.com/lamdaser/statements/internal/ledger"
)

// ErrStaleSelection is returned when a newer selection superseded a load.
var ErrStaleSelection = errors.New("statement: selection superseded")

const invalidRangeWarning = "La fecha 'hasta' no puede ser anterior a la fecha 'desde'."

// Source fetches the account data of one customer.
type Source interface {
	Movements(ctx context.Context, customerID int64) ([]ledger.Movement, error)
	MovementDetails(ctx context.Context, customerID int64) ([]ledger.MovementDetail, error)
	OpeningBalance(ctx context.Context, customerID int64) (ledger.OpeningBalance, error)
}

// CustomerLookup resolves a customer number.
type CustomerLookup interface {
	Get(ctx context.Context, number int64) (customers.Customer, error)
}

// Options tunes the computation and the document letterhead.
type Options struct {
	Location *time.Location
	Scheme   ledger.AgingScheme
	Company  string
	Alias    string
}

// Service drives account statements.
type Service struct {
	source    Source
	customers CustomerLookup
	opts      Options
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the data source and lookup.
func NewService(source Source, lookup CustomerLookup, opts Options, logger *slog.Logger) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if len(opts.Scheme.Buckets) == 0 {
		opts.Scheme = ledger.FiveBucketScheme()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, customers: lookup, opts: opts, logger: logger, now: time.Now}
}

// WithNow overrides the clock used for aging and generation dates.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// DocumentOptions returns the letterhead settings of the service.
func (s *Service) DocumentOptions() DocumentOptions {
	return DocumentOptions{Company: s.opts.Company, Alias: s.opts.Alias, Location: s.opts.Location}
}

// Scheme returns the configured aging scheme.
func (s *Service) Scheme() ledger.AgingScheme { return s.opts.Scheme }

// Session is a SessionState shared by concurrent loads. The most recent
// selection wins; loads started earlier return ErrStaleSelection.
type Session struct {
	mu    sync.Mutex
	state ledger.SessionState
}

// Load selects a customer on session, fetches its data and computes the
// statement under filter. Selecting resets the session, so a rejected date
// range leaves no filter active and is reported through View.Warning.
func (s *Service) Load(ctx context.Context, session *Session, customerID int64, filter ledger.FilterState) (View, error) {
	session.mu.Lock()
	token := session.state.Select(customerID)
	session.mu.Unlock()

	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return View{}, err
	}
	data, err := s.fetch(ctx, customerID)
	if err != nil {
		return View{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	state := &session.state
	if !state.Accept(token, data) {
		s.logger.Info("discarding stale statement load", slog.Int64("customer_id", customerID))
		return View{}, ErrStaleSelection
	}

	var warning string
	if err := state.SetFilter(filter); err != nil {
		warning = invalidRangeWarning
		s.logger.Warn("rejected statement filter", slog.Int64("customer_id", customerID), slog.Any("error", err))
	}

	now := s.now()
	result := state.Compute(ledger.Options{AsOf: now, Location: s.opts.Location, Scheme: s.opts.Scheme})
	return View{
		Customer:    customer,
		GeneratedAt: now,
		Result:      result,
		Details:     state.DetailsByMovement(),
		Scheme:      s.opts.Scheme,
		Warning:     warning,
	}, nil
}

// Statement is Load on a fresh session.
func (s *Service) Statement(ctx context.Context, customerID int64, filter ledger.FilterState) (View, error) {
	return s.Load(ctx, &Session{}, customerID, filter)
}

func (s *Service) fetch(ctx context.Context, customerID int64) (ledger.Dataset, error) {
	var data ledger.Dataset
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		movements, err := s.source.Movements(gctx, customerID)
		if err != nil {
			return fmt.Errorf("fetch movements: %w", err)
		}
		data.Movements = movements
		return nil
	})
	g.Go(func() error {
		opening, err := s.source.OpeningBalance(gctx, customerID)
		if err != nil {
			return fmt.Errorf("fetch opening balance: %w", err)
		}
		data.Opening = opening
		return nil
	})
	g.Go(func() error {
		details, err := s.source.MovementDetails(gctx, customerID)
		if err != nil {
			return fmt.Errorf("fetch movement details: %w", err)
		}
		data.Details = details
		return nil
	})
	if err := g.Wait(); err != nil {
		return ledger.Dataset{}, err
	}
	return data, nil
}
