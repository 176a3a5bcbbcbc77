package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/lamdaser/statements/internal/customers"
	"github.com/lamdaser/statements/internal/platform/cache"
	"github.com/lamdaser/statements/internal/statement"
	"github.com/lamdaser/statements/internal/upstream"
	"github.com/lamdaser/statements/internal/view"
	"github.com/lamdaser/statements/report"
)

// Services are the domain components shared by the server and the CLI.
type Services struct {
	Redis      *redis.Client
	RosterKeys *cache.Versioned
	Upstream   *upstream.Client
	Customers  *customers.Service
	Statements *statement.Service
	Templates  *view.Engine
	PDF        *report.Client
	Exporter   *statement.Exporter
}

// NewServices wires the upstream client, the roster cache and the statement
// pipeline. An unreachable Redis disables caching instead of failing.
func NewServices(ctx context.Context, cfg *Config, logger *slog.Logger) (*Services, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	scheme, err := cfg.Scheme()
	if err != nil {
		return nil, err
	}
	templates, err := view.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Services{Templates: templates}
	s.Redis, err = cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, roster cache disabled", slog.String("addr", cfg.RedisAddr), slog.Any("error", err))
		s.Redis = nil
	}
	s.RosterKeys = cache.NewVersioned(s.Redis, "statements:roster", cfg.RosterCacheTTL)

	s.Upstream = upstream.NewClient(cfg.UpstreamURL, cfg.UpstreamTimeout, loc, logger)
	s.Customers = customers.NewService(s.Upstream, s.RosterKeys, logger)
	s.Statements = statement.NewService(s.Upstream, s.Customers, statement.Options{
		Location: loc,
		Scheme:   scheme,
		Company:  cfg.CompanyName,
		Alias:    cfg.CompanyAlias,
	}, logger)

	var converter statement.PDFConverter
	if cfg.GotenbergURL != "" {
		s.PDF = report.NewClient(cfg.GotenbergURL, cfg.GotenbergTimeout)
		converter = s.PDF
	}
	s.Exporter = statement.NewExporter(templates, converter)
	return s, nil
}

// Close releases the Redis connection.
func (s *Services) Close() error {
	if s == nil || s.Redis == nil {
		return nil
	}
	return s.Redis.Close()
}
