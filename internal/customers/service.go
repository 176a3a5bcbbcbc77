package customers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lamdaser/statements/internal/platform/cache"
)

// ErrCustomerNotFound is returned by Get for an unknown customer number.
var ErrCustomerNotFound = errors.New("customers: customer not found")

// RosterSource loads the full customer roster.
type RosterSource interface {
	Customers(ctx context.Context) ([]Customer, error)
}

// Service serves roster lookups through the cache.
type Service struct {
	source RosterSource
	cache  *cache.Versioned
	logger *slog.Logger
}

// NewService wires a roster source and an optional cache.
func NewService(source RosterSource, c *cache.Versioned, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, cache: c, logger: logger}
}

type sourceError struct{ err error }

func (e sourceError) Error() string { return e.err.Error() }
func (e sourceError) Unwrap() error { return e.err }

// Roster returns every customer. Cache failures fall back to the source.
func (s *Service) Roster(ctx context.Context) ([]Customer, error) {
	key, err := s.cache.BuildKey(ctx, "roster")
	if err != nil {
		s.logger.Warn("roster cache key failed, bypassing cache", slog.Any("error", err))
		return s.fetch(ctx)
	}
	var roster []Customer
	err = s.cache.FetchJSON(ctx, key, &roster, func(ctx context.Context) (any, error) {
		list, err := s.source.Customers(ctx)
		if err != nil {
			return nil, sourceError{err}
		}
		return list, nil
	})
	var srcErr sourceError
	switch {
	case err == nil:
		return roster, nil
	case errors.As(err, &srcErr):
		return nil, fmt.Errorf("load roster: %w", srcErr.err)
	default:
		s.logger.Warn("roster cache failed, bypassing cache", slog.Any("error", err))
		return s.fetch(ctx)
	}
}

func (s *Service) fetch(ctx context.Context) ([]Customer, error) {
	list, err := s.source.Customers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return list, nil
}

// Search returns customers matching term in roster order. A blank term
// matches nothing.
func (s *Service) Search(ctx context.Context, term string) ([]Customer, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []Customer{}, nil
	}
	roster, err := s.Roster(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(roster, term), nil
}

// Filter keeps the customers matching term.
func Filter(roster []Customer, term string) []Customer {
	out := make([]Customer, 0)
	for _, c := range roster {
		if c.Matches(term) {
			out = append(out, c)
		}
	}
	return out
}

// Get looks a customer up by number.
func (s *Service) Get(ctx context.Context, number int64) (Customer, error) {
	roster, err := s.Roster(ctx)
	if err != nil {
		return Customer{}, err
	}
	for _, c := range roster {
		if c.Number == number {
			return c, nil
		}
	}
	return Customer{}, fmt.Errorf("%w: %d", ErrCustomerNotFound, number)
}

// Refresh invalidates the cached roster and loads it again, returning the
// number of customers.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	if err := s.cache.Bump(ctx); err != nil {
		return 0, fmt.Errorf("bump roster cache: %w", err)
	}
	roster, err := s.Roster(ctx)
	if err != nil {
		return 0, err
	}
	return len(roster), nil
}
