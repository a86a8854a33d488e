package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"valuator/internal/adapters/anthropic"
	"valuator/internal/adapters/gemini"
	httpadapter "valuator/internal/adapters/http"
	"valuator/internal/adapters/memory"
	pg "valuator/internal/adapters/postgres"
	rds "valuator/internal/adapters/redis"
	"valuator/internal/adapters/report"
	"valuator/internal/adapters/sqlite"
	"valuator/internal/config"
	"valuator/internal/gateway"
	"valuator/internal/logger"
	"valuator/internal/ports"
	"valuator/internal/services/assistant"
	"valuator/internal/services/deals"
	"valuator/internal/services/gutcheck"
	"valuator/internal/services/session"
	"valuator/internal/telemetry"
	"valuator/internal/workers/assistrunner"
)

const assistQueueSize = 256

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the assist workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
}

func runServe(ctx context.Context, cfg config.Config) error {
	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format).
		With(logger.Fields{"service": "valuator", "env": cfg.App.Env})
	defer logger.Sync(log)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.OTLPEndpoint, "valuator", version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.WithError(err).Warn("tracer shutdown failed", nil)
		}
	}()

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	store, closeStore, err := openSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	closers = append(closers, closeStore)

	repo, closeRepo, err := openDealRepository(ctx, cfg)
	if err != nil {
		return err
	}
	closers = append(closers, closeRepo)

	gw := gateway.Instrument(openGateway(ctx, cfg, log))
	queue := assistrunner.NewQueue(assistQueueSize)

	sessions := session.NewService(store, log)
	assistOpts := []assistant.Option{assistant.WithTimeout(cfg.AI.Timeout)}
	if cfg.Workers.Assist > 0 {
		assistOpts = append(assistOpts, assistant.WithQueue(queue))
	}
	assist := assistant.New(sessions, gw, log, assistOpts...)

	srv := httpadapter.New(httpadapter.Deps{
		Sessions:       sessions,
		Assistant:      assist,
		GutCheck:       gutcheck.New(sessions, gw, log, cfg.AI.Timeout),
		Deals:          deals.New(repo, sessions, cfg.Storage.Deals, log),
		PDF:            report.NewPDFRenderer(cfg.Report.ChromePath),
		Log:            log,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTP.ListenAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", logger.Fields{
			"addr": cfg.HTTP.ListenAddr, "deals": cfg.Storage.Deals,
			"sessions": cfg.Storage.Sessions, "provider": gw.Name(),
		})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		assistrunner.Run(gctx, queue, assist, cfg.Workers.Assist, log)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", nil)
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(sctx)
	})
	return g.Wait()
}

func openSessionStore(ctx context.Context, cfg config.Config) (session.Store, func(), error) {
	if cfg.Storage.Sessions == config.SessionsRedis {
		rdb, err := rds.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return rds.NewSessionStore(rdb, cfg.Storage.SessionTTL), func() { _ = rdb.Close() }, nil
	}
	return memory.NewSessionStore(), func() {}, nil
}

func openDealRepository(ctx context.Context, cfg config.Config) (ports.DealRepository, func(), error) {
	switch cfg.Storage.Deals {
	case config.DealsPostgres:
		db, err := pg.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		return pg.NewDealStore(db), db.Close, nil
	case config.DealsRedis:
		rdb, err := rds.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return rds.NewDealStore(rdb), func() { _ = rdb.Close() }, nil
	case config.DealsMemory:
		return memory.NewDealStore(), func() {}, nil
	default:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewDealStore(db), func() { _ = db.Close() }, nil
	}
}

// openGateway falls back to the unavailable gateway, so every deferred
// command gets the apology, when the provider cannot be built.
func openGateway(ctx context.Context, cfg config.Config, log logger.Logger) ports.Gateway {
	var (
		gw  ports.Gateway
		err error
	)
	switch cfg.AI.Provider {
	case config.ProviderGemini:
		gw, err = gemini.New(ctx, cfg.AI.Gemini.APIKey, cfg.AI.Gemini.Model)
	case config.ProviderAnthropic:
		gw, err = anthropic.New(cfg.AI.Anthropic.APIKey, cfg.AI.Anthropic.Model)
	default:
		return gateway.Unavailable{}
	}
	if err != nil {
		log.WithError(err).Warn("ai provider unavailable", logger.Fields{"provider": cfg.AI.Provider})
		return gateway.Unavailable{}
	}
	return gw
}
