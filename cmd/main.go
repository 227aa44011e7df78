package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nzyazin/ledgerconsole/internal/core/clock"
	"github.com/Nzyazin/ledgerconsole/internal/core/gateway"
	"github.com/Nzyazin/ledgerconsole/internal/core/handler"
	"github.com/Nzyazin/ledgerconsole/internal/core/loading"
	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
	"github.com/Nzyazin/ledgerconsole/internal/core/notify"
	"github.com/Nzyazin/ledgerconsole/internal/core/pipeline"
	"github.com/Nzyazin/ledgerconsole/internal/core/repository"
	"github.com/Nzyazin/ledgerconsole/internal/core/repository/local"
	"github.com/Nzyazin/ledgerconsole/internal/core/repository/postgres"
	"github.com/Nzyazin/ledgerconsole/internal/core/session"
	"github.com/Nzyazin/ledgerconsole/internal/core/usecase"
	"github.com/Nzyazin/ledgerconsole/internal/server"
	"github.com/Nzyazin/ledgerconsole/pkg/config"
	"github.com/Nzyazin/ledgerconsole/pkg/postgresdb"
)

func main() {
	cfg, err := config.Load("config.env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, cleanup, err := logger.NewLogger(cfg.LogDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	var opts []server.Option
	store, db, err := credentialStore(cfg, log)
	if err != nil {
		log.Error("Failed to open credential store", logger.ErrorField("error", err))
		return
	}
	if db != nil {
		opts = append(opts, server.WithCloser(db))
	}

	sink := notify.NewSink(clock.Real{}, log)
	tracker := loading.NewTracker()

	manager := session.NewManager(store, sink, session.NavigatorFunc(func() {
		tracker.Reset()
		log.Info("Session ended, login required")
	}), log)

	apiCfg := pipeline.DefaultConfig(cfg.API.Origin)
	apiCfg.Namespace = cfg.API.Namespace
	apiCfg.Timeout = cfg.API.Timeout

	client, err := pipeline.New(apiCfg, manager, tracker, sink, log)
	if err != nil {
		log.Error("Failed to build request pipeline", logger.ErrorField("error", err))
		return
	}
	ledger := gateway.NewClient(client, log)
	manager.Bind(ledger)

	list := usecase.NewWalletList(ledger, sink, log)
	detail := usecase.NewWalletDetail(ledger, sink, clock.Real{}, usecase.DetailConfig{
		PageSize:        cfg.Workflow.PageSize,
		PreviewDebounce: cfg.Workflow.PreviewDebounce,
	}, log)

	srv := server.NewServer(log, []server.Routes{
		handler.NewSessionHandler(manager, log),
		handler.NewWalletHandler(list, log),
		handler.NewDetailHandler(detail, log),
		handler.NewStatusHandler(tracker, sink),
	}, opts...)

	go func() {
		log.Info("Starting console", logger.StringField("addr", cfg.Console.Addr), logger.StringField("ledger", cfg.API.Origin))
		if err := srv.Run(cfg.Console.Addr); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", logger.ErrorField("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", logger.ErrorField("error", err))
	}

	detail.Close()
	log.Info("Server exited properly")
}

func credentialStore(cfg *config.Config, log logger.Logger) (repository.CredentialRepository, *postgresdb.Database, error) {
	switch cfg.Credential.Backend {
	case config.BackendMemory:
		return local.NewMemory(), nil, nil
	case config.BackendPostgres:
		db, err := postgresdb.NewPostgresDB(cfg.DB, log)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store, err := postgres.NewPostgresCredentialRepo(ctx, db.DB, cfg.Credential.Profile, log)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db, nil
	default:
		store, err := local.NewFile(cfg.Credential.File, log)
		return store, nil, err
	}
}
