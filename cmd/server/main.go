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

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	httpapi "bombreveal/internal/api/http"
	"bombreveal/internal/config"
	"bombreveal/internal/logging"
	"bombreveal/internal/room"
	"bombreveal/internal/store"
)

func main() {
	cfg := config.Load()

	app := &cli.App{
		Name:  "bombreveal",
		Usage: "multiplayer hidden bomb reveal server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: cfg.HTTPAddr, Usage: "listen address"},
			&cli.StringFlag{Name: "env", Value: cfg.Env, Usage: "dev or prod"},
		},
		Action: func(c *cli.Context) error {
			cfg.HTTPAddr = c.String("addr")
			cfg.Env = c.String("env")
			return serve(c.Context, cfg)
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(parent context.Context, cfg config.Config) error {
	logger, err := logging.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mem := store.NewMemoryStore()
	rm := room.NewManager(mem, cfg, logger)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(rm, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Int("rooms", mem.Len()))
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}
