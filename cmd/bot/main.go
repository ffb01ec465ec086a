package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/pocketledger/internal/adapter/http"
	"github.com/iho/pocketledger/internal/adapter/http/handler"
	"github.com/iho/pocketledger/internal/adapter/http/middleware"
	"github.com/iho/pocketledger/internal/adapter/telegram"
	"github.com/iho/pocketledger/internal/infrastructure/config"
	"github.com/iho/pocketledger/internal/infrastructure/idgen"
	"github.com/iho/pocketledger/internal/infrastructure/logger"
	"github.com/iho/pocketledger/internal/infrastructure/metrics"
	"github.com/iho/pocketledger/internal/infrastructure/retry"
	"github.com/iho/pocketledger/internal/usecase"
)

const limiterCleanupInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := logger.New(logger.Config{Service: "pocketledger-bot"})
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "pocketledger-bot",
	})

	if err := cfg.ValidateBot(); err != nil {
		log.Fatal().Err(err).Msg("BOT_TOKEN not found, set it in the environment or .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("bot stopped with error")
	}
	log.Info().Msg("bot stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	m := metrics.New()
	deps := newDependencies(cfg, log, retry.DefaultPolicy(cfg.ConnectMaxElapsed)).withMetrics(m)
	defer deps.close()

	repo, err := deps.ledgerRepository(ctx)
	if err != nil {
		return err
	}
	sessions, err := deps.sessionStore(ctx)
	if err != nil {
		return err
	}
	publisher, err := deps.eventPublisher(ctx)
	if err != nil {
		return err
	}
	dedup, err := deps.updateDeduplicator(ctx)
	if err != nil {
		return err
	}

	store := usecase.NewLedgerStore(repo, m, log)
	store.Load(ctx)

	recorder := usecase.NewTransactionUseCase(usecase.TransactionConfig{
		Store:             store,
		Publisher:         publisher,
		IDGen:             idgen.NewULIDGenerator(),
		Metrics:           m,
		Logger:            log,
		StrictPersistence: cfg.StrictPersistence,
	})
	dialogue := usecase.NewDialogueUseCase(sessions, recorder, m, log)
	catalog := telegram.NewCatalog()
	reports := usecase.NewReportUseCase(store, catalog)

	bot, err := telegram.Connect(ctx, log, cfg.BotToken, cfg.BotDebug, deps.policy)
	if err != nil {
		return fmt.Errorf("connect to telegram: %w", err)
	}
	log.Info().Str("bot", bot.Self.UserName).Msg("authorized on telegram")

	botHandler := telegram.NewHandler(telegram.HandlerConfig{
		Sender:   bot,
		Dialogue: dialogue,
		Reports:  reports,
		Catalog:  catalog,
		Dedup:    dedup,
		Metrics:  m,
		Logger:   log,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return botHandler.Run(gctx, telegram.Updates(gctx, bot, cfg.BotPollTimeout))
	})

	if cfg.HTTPEnabled() {
		var limiter *middleware.RateLimiter
		if cfg.HTTPRateLimit > 0 {
			limiter = middleware.NewRateLimiter(cfg.HTTPRateLimit, cfg.HTTPRateBurst).OnLimited(m.RateLimited)
			g.Go(func() error { return limiter.RunCleanup(gctx, limiterCleanupInterval) })
		}

		server := newHTTPServer(cfg, httpAdapter.NewRouter(httpAdapter.RouterConfig{
			HealthHandler: handler.NewHealthHandler(deps.checks...),
			ReportHandler: handler.NewReportHandler(reports.ReadOnly()),
			LedgerHandler: handler.NewLedgerHandler(usecase.NewLedgerUseCase(store)),
			RateLimiter:   limiter,
			Logger:        log,
		}))

		g.Go(func() error {
			log.Info().Str("addr", server.Addr).Msg("starting ops server")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("ops server: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			log.Info().Msg("shutting down ops server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	} else {
		log.Info().Msg("ops server disabled")
	}

	err = g.Wait()

	// Already logged and counted on failure.
	_ = store.Save(context.Background())

	return err
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}
}
