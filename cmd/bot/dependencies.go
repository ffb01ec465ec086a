package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/pocketledger/internal/adapter/http/handler"
	"github.com/iho/pocketledger/internal/adapter/repository/file"
	"github.com/iho/pocketledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/pocketledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/pocketledger/internal/adapter/repository/redis"
	"github.com/iho/pocketledger/internal/adapter/telegram"
	"github.com/iho/pocketledger/internal/infrastructure/config"
	"github.com/iho/pocketledger/internal/infrastructure/eventpublisher"
	"github.com/iho/pocketledger/internal/infrastructure/metrics"
	"github.com/iho/pocketledger/internal/infrastructure/postgres"
	"github.com/iho/pocketledger/internal/infrastructure/redis"
	"github.com/iho/pocketledger/internal/infrastructure/retry"
	"github.com/iho/pocketledger/internal/usecase"
)

// dependencies builds the configured backends and remembers how to close
// them and how to probe them for readiness.
type dependencies struct {
	cfg     *config.Config
	logger  zerolog.Logger
	policy  retry.Policy
	metrics *metrics.Metrics

	redis   *goredis.Client
	checks  []handler.Check
	closers []func()
}

func newDependencies(cfg *config.Config, logger zerolog.Logger, policy retry.Policy) *dependencies {
	return &dependencies{
		cfg:    cfg,
		logger: logger,
		policy: policy,
	}
}

func (d *dependencies) withMetrics(m *metrics.Metrics) *dependencies {
	d.metrics = m
	return d
}

// close releases resources in reverse order of acquisition.
func (d *dependencies) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

func (d *dependencies) ledgerRepository(ctx context.Context) (usecase.LedgerRepository, error) {
	switch d.cfg.LedgerBackend {
	case config.LedgerBackendMemory:
		d.logger.Warn().Msg("ledger backend is memory, nothing will survive a restart")
		return memory.NewLedgerRepository(), nil

	case config.LedgerBackendPostgres:
		pool, err := retry.Connect(ctx, d.logger, "postgres", d.policy, func(ctx context.Context) (*pgxpool.Pool, error) {
			return postgres.NewPool(ctx, d.cfg.DatabaseURL, d.cfg.DatabaseMaxConns, d.cfg.DatabaseMinConns)
		})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		d.closers = append(d.closers, pool.Close)
		d.checks = append(d.checks, handler.Check{Name: "postgres", Ping: pool.Ping})

		if err := postgres.RunMigrations(d.cfg.DatabaseURL, d.cfg.MigrationsPath, d.logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		return postgresRepo.NewLedgerRepository(pool), nil

	default:
		d.logger.Info().Str("path", d.cfg.DataFile).Msg("using file ledger backend")
		return file.NewLedgerRepository(d.cfg.DataFile), nil
	}
}

// redisClient dials Redis once and shares the client.
func (d *dependencies) redisClient(ctx context.Context) (*goredis.Client, error) {
	if d.redis != nil {
		return d.redis, nil
	}

	client, err := retry.Connect(ctx, d.logger, "redis", d.policy, func(ctx context.Context) (*goredis.Client, error) {
		return redis.NewClient(ctx, d.cfg.RedisURL, "pocketledger-bot")
	})
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	d.redis = client
	d.closers = append(d.closers, func() { _ = client.Close() })
	d.checks = append(d.checks, handler.Check{
		Name: "redis",
		Ping: func(ctx context.Context) error { return client.Ping(ctx).Err() },
	})
	return client, nil
}

func (d *dependencies) sessionStore(ctx context.Context) (usecase.SessionStore, error) {
	if d.cfg.SessionBackend != config.SessionBackendRedis {
		return memory.NewSessionStore(), nil
	}

	client, err := d.redisClient(ctx)
	if err != nil {
		return nil, err
	}
	return redisRepo.NewSessionStore(client), nil
}

func (d *dependencies) eventPublisher(ctx context.Context) (usecase.EventPublisher, error) {
	var publisher usecase.EventPublisher

	switch d.cfg.EventsBackend {
	case config.EventsBackendRedis:
		client, err := d.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		publisher = eventpublisher.NewRedisPublisher(client, d.cfg.EventsChannel)

	case config.EventsBackendAMQP:
		p, err := retry.Connect(ctx, d.logger, "amqp", d.policy, func(context.Context) (*eventpublisher.AMQPPublisher, error) {
			return eventpublisher.NewAMQPPublisher(d.cfg.AMQPURL, d.cfg.AMQPExchange)
		})
		if err != nil {
			return nil, fmt.Errorf("connect to amqp: %w", err)
		}
		d.closers = append(d.closers, func() { _ = p.Close() })
		publisher = p

	default:
		publisher = eventpublisher.NewLogPublisher(d.logger)
	}

	if d.metrics != nil {
		return eventpublisher.WithMetrics(publisher, d.metrics), nil
	}
	return publisher, nil
}

// updateDeduplicator returns nil unless Redis is already part of the setup.
func (d *dependencies) updateDeduplicator(ctx context.Context) (telegram.Deduplicator, error) {
	if !d.cfg.UsesRedis() {
		return nil, nil
	}

	client, err := d.redisClient(ctx)
	if err != nil {
		return nil, err
	}
	return redisRepo.NewUpdateDeduplicator(client, d.cfg.UpdateDedupTTL), nil
}
