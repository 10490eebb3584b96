package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jusunglee/polonizacyja/internal/logger"
	"github.com/jusunglee/polonizacyja/internal/web"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/samber/lo"
)

//go:embed all:dist
var staticFiles embed.FS

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
	slog.Info("exiting without error")
}

func mainE() error {
	_ = godotenv.Load()

	fs_ := ff.NewFlagSet("polonizacyja-web")

	var (
		port           = fs_.Int64Long("port", 8080, "HTTP server port")
		databaseURL    = fs_.StringLong("database-url", "sqlite://polonizacyja.db", "sqlite:// path or postgres:// URL for saved transliterations")
		allowedOrigins = fs_.StringLong("allowed-origins", "", "Comma-separated list of allowed CORS origins")
		retention      = fs_.DurationLong("retention", 30*24*time.Hour, "Delete saved transliterations older than this (0 keeps them forever)")
	)

	if err := ff.Parse(fs_, os.Args[1:], ff.WithEnvVars()); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs_))
		return fmt.Errorf("parsing flags: %w", err)
	}

	log := logger.New()

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	repo, err := openRepository(ctx, *databaseURL, log)
	if err != nil {
		return err
	}
	defer repo.Close()

	if *retention > 0 {
		go runRetention(ctx, repo, log, *retention, time.Hour)
	}

	origins := lo.Compact(lo.Map(strings.Split(*allowedOrigins, ","), func(o string, _ int) string {
		return strings.TrimSpace(o)
	}))

	distFS, err := fs.Sub(staticFiles, "dist")
	if err != nil {
		return fmt.Errorf("creating sub filesystem: %w", err)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           web.NewRouter(repo, log, distFS, origins).Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.InfoContext(ctx, "received signal, shutting down gracefully", "signal", sig)
		cancel(errors.New("signal received"))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.ErrorContext(ctx, "server shutdown error", "error", err)
		}
	}()

	log.InfoContext(ctx, "starting web server", "port", *port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
