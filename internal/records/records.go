// Package records wires the record service to its configured backend and
// exposes constructors for the transports.
package records

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"roster/internal/platform/config"
	"roster/internal/platform/postgres"
	"roster/internal/platform/redis"
	"roster/internal/records/handler"
	"roster/internal/records/metrics"
	"roster/internal/records/service"
	"roster/internal/records/store/csvfile"
	"roster/internal/records/store/memory"
	pgstore "roster/internal/records/store/postgres"
	redisstore "roster/internal/records/store/redis"
	"roster/internal/records/web"
)

// Service exposes the record operations.
type Service = service.Service

// Handler wires the JSON API to the record service.
type Handler = handler.Handler

// NewService constructs the record service over store.
func NewService(store service.Store, logger *slog.Logger, m *metrics.Metrics, appendOnCreate bool) *Service {
	return service.New(store,
		service.WithLogger(logger),
		service.WithMetrics(m),
		service.WithAppendOnCreate(appendOnCreate),
	)
}

// NewHandler constructs the JSON API handler.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}

// NewWeb constructs the browser front end handler.
func NewWeb(s *Service, logger *slog.Logger) (*web.Handler, error) {
	return web.New(s, logger)
}

// OpenStore opens the backend named by cfg.Store.Backend. The returned closer
// releases any connection the backend holds.
func OpenStore(ctx context.Context, cfg config.Config) (service.Store, io.Closer, error) {
	switch cfg.Store.Backend {
	case config.BackendCSV:
		s, err := csvfile.Open(cfg.Store.Path, csvfile.WithStrictRows(cfg.Store.StrictRows))
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil

	case config.BackendMemory:
		return memory.NewInMemory(), nopCloser{}, nil

	case config.BackendPostgres:
		db, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		s, err := pgstore.New(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return s, db, nil

	case config.BackendRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		s, err := redisstore.New(ctx, client.Client,
			redisstore.WithKey(cfg.Redis.Key),
			redisstore.WithStrictRows(cfg.Store.StrictRows),
		)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return s, client, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
