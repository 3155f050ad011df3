package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pressly/goose/v3"
	"golang.org/x/sync/errgroup"

	"tollgate/internal/identity"
	identityhandler "tollgate/internal/identity/handler"
	"tollgate/internal/ledger"
	"tollgate/internal/notify"
	notifyhandler "tollgate/internal/notify/handler"
	"tollgate/internal/platform/config"
	"tollgate/internal/platform/httpserver"
	"tollgate/internal/platform/kafka"
	"tollgate/internal/platform/logger"
	"tollgate/internal/platform/postgres"
	platredis "tollgate/internal/platform/redis"
	"tollgate/internal/rating"
	"tollgate/internal/security"
	securityhandler "tollgate/internal/security/handler"
	"tollgate/internal/toll"
	tollhandler "tollgate/internal/toll/handler"
	"tollgate/internal/toll/metrics"
	httptransport "tollgate/internal/transport/http"
	"tollgate/migrations"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal services; nothing here makes decisions.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.PostgresURL)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	redisClient, err := platredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	producer, err := kafka.NewProducer(ctx, cfg.Kafka)
	if err != nil {
		return err
	}
	if producer != nil {
		defer producer.Close()
	}

	identityStore := identity.NewPostgres(db)
	securityStore := security.NewPostgres(db)
	ratingStore := rating.NewPostgres(db)
	ledgerStore := ledger.NewPostgres(db)

	notifyOpts := []notify.Option{notify.WithChannels(notify.NewLogChannel(log))}
	if producer != nil {
		notifyOpts = append(notifyOpts, notify.WithChannels(notify.NewKafkaChannel(producer)))
	}
	notifier := notify.NewService(notify.NewPostgres(db), identityStore, log, notifyOpts...)

	resolver := identity.NewResolver(identityStore, log)
	engine := toll.NewEngine(
		resolver,
		security.NewScreener(securityStore, notifier, log),
		rating.NewRater(ratingStore, log),
		ledger.NewSettler(ledgerStore, notifier, log),
		notifier,
		log,
		toll.WithMetrics(metrics.New()),
		toll.WithRequireTag(cfg.RequireTag),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Toll:        tollhandler.New(engine, log),
		Identity:    identityhandler.New(identity.NewService(identityStore, log), log),
		Security:    securityhandler.New(security.NewAdmin(securityStore, log), log),
		Notify:      notifyhandler.New(resolver, notifier, log),
		Logger:      log,
		Redis:       redisClient,
		AdminJWTKey: cfg.AdminJWTKey,
		RateLimit:   cfg.RateLimit.Limit,
		RateWindow:  cfg.RateLimit.Window,
		Health: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			if redisClient != nil {
				if err := redisClient.Health(ctx); err != nil {
					return fmt.Errorf("redis: %w", err)
				}
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("tollgate listening",
			"addr", cfg.Addr,
			"require_tag", cfg.RequireTag,
			"redis", redisClient != nil,
			"kafka", producer != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
