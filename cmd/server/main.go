package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickpersak/idle-rpg/internal/auth"
	"github.com/rickpersak/idle-rpg/internal/config"
	"github.com/rickpersak/idle-rpg/internal/content"
	"github.com/rickpersak/idle-rpg/internal/database"
	"github.com/rickpersak/idle-rpg/internal/game"
	"github.com/rickpersak/idle-rpg/internal/save"
	"github.com/rickpersak/idle-rpg/internal/server"
	"github.com/rickpersak/idle-rpg/internal/session"
	"github.com/rickpersak/idle-rpg/internal/settings"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "server error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stderr io.Writer) error {
	logger := log.New(stderr, "", 0)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	clock := game.RealClock{}
	saveRepo := save.NewSQLiteRepo(db, clock)
	if err := saveRepo.EnsureSchema(ctx); err != nil {
		return err
	}

	authRepo, err := auth.NewFileRepo(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open auth repo: %w", err)
	}
	authSvc := auth.NewService(authRepo, logger)

	settingsRepo, err := settings.NewFileRepo(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open settings repo: %w", err)
	}

	cnt, err := content.Load(cfg.ContentPath)
	if err != nil {
		return err
	}

	broker := session.NewBroker()
	manager := session.NewManager(session.Options{
		Clock:    clock,
		Content:  cnt,
		Saves:    saveRepo,
		Settings: settingsRepo,
		Broker:   broker,
		Logger:   logger,
	})

	handler := server.NewHandler(server.Options{
		Logger:   logger,
		Auth:     authSvc,
		Sessions: manager,
		Broker:   broker,
		Settings: settingsRepo,
		DB:       db,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("http shutdown: %v", err)
		}
		// controllers take their final autosaves before the db closes
		manager.StopAll()
		return nil
	})
	return g.Wait()
}
