package run

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v6"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/MEERAN2314/socialtab/api"
	"github.com/MEERAN2314/socialtab/notify"
	slackNotify "github.com/MEERAN2314/socialtab/notify/slack"
	"github.com/MEERAN2314/socialtab/notify/webhook"
	"github.com/MEERAN2314/socialtab/service"
	db2 "github.com/MEERAN2314/socialtab/storage/db"
)

type Config struct {
	API        api.Config
	Handler    service.Config
	Slack      slackNotify.Config
	Webhook    webhook.Config
	DBLocation string `env:"DB_LOCATION" envDefault:"/var/sqlite/socialtab.db"`
}

func (c Config) String() string {
	res, _ := json.Marshal(&c)
	return string(res)
}

func Run() error {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("new logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting", zap.String("config", cfg.String()))

	db, err := sqlx.Connect("sqlite3", cfg.DBLocation)
	if err != nil {
		return fmt.Errorf("connect DB: %w", err)
	}
	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("new sqlite3 migration driver: %w", err)
	}
	dbStorage, err := db2.New(db, driver, "")
	if err != nil {
		return fmt.Errorf("new dbStorage: %w", err)
	}
	defer dbStorage.Close() //nolint:errcheck

	var sinks []notify.Sink
	if cfg.Slack.OauthToken != "" && cfg.Slack.Channel != "" {
		sinks = append(sinks, slackNotify.New(cfg.Slack))
	}
	if cfg.Webhook.URL != "" {
		sinks = append(sinks, webhook.New(cfg.Webhook))
	}
	notifier := notify.NewPrioritizedSink(logger, notify.NewStoreSink(dbStorage), sinks...)

	serviceHandler := service.New(cfg.Handler, logger, dbStorage, dbStorage, dbStorage, notifier)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go serviceHandler.ReminderWorker(ctx)

	apiServer := api.New(cfg.API, logger, serviceHandler, serviceHandler, serviceHandler)
	httpServer := &http.Server{
		Addr:    cfg.API.Addr,
		Handler: apiServer.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Info("listening", zap.String("addr", cfg.API.Addr))

	select {
	case err := <-errCh:
		return fmt.Errorf("ListenAndServe: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
