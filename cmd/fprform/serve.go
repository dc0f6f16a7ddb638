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

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/csg33k/fpr-form/internal/adapters/httpapi"
	"github.com/csg33k/fpr-form/internal/adapters/redisstore"
	"github.com/csg33k/fpr-form/internal/adapters/sqlite"
	"github.com/csg33k/fpr-form/internal/analytics"
	"github.com/csg33k/fpr-form/internal/common/config"
	"github.com/csg33k/fpr-form/internal/common/logger"
	"github.com/csg33k/fpr-form/internal/fieldconfig"
	"github.com/csg33k/fpr-form/internal/form"
	"github.com/csg33k/fpr-form/internal/handlers"
	"github.com/csg33k/fpr-form/internal/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the form HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.NewZapAdapter(zapLog)

	fields, err := fieldconfig.LoadFile(cfg.Form.FieldsPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	repo, err := sqlite.New(cfg.Storage.SQLite.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()
	checks := map[string]ports.HealthChecker{"sqlite": repo}

	var states ports.FormStateStore = repo
	if cfg.Storage.Driver == config.DriverRedis {
		var store *redisstore.Store
		err := retryWithBackoff(ctx, func() error {
			var err error
			store, err = redisstore.New(ctx, cfg.Storage.Redis)
			return err
		}, 5, time.Second, log, "redis connection")
		if err != nil {
			return err
		}
		defer store.Close()
		states = store
		checks["redis"] = store
	}

	// --- Collaborating services ---
	client := httpapi.NewClient(cfg.Services.Timeout)
	svc := form.NewService(fields, form.Deps{
		States:    states,
		Outcomes:  repo,
		Details:   repo,
		Pincodes:  httpapi.NewPincodeClient(client, cfg.Services.PincodeURL),
		Verifier:  httpapi.NewVerifyClient(client, cfg.Services.VerifyURL),
		Consent:   httpapi.NewConsentClient(client, cfg.Services.ConsentURL),
		Analytics: analytics.NewSink(log),
		Logger:    log,
	})

	h := handlers.New(svc, handlers.NewSessions(cfg.Session.Secret, cfg.Session.Lifetime, cfg.Session.Secure), log, checks)
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      h.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", map[string]interface{}{
			"addr":    cfg.Server.Addr,
			"storage": cfg.Storage.Driver,
			"env":     cfg.App.Environment,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		// consent inserts outlive their request
		svc.Wait()
		return err
	})
	return g.Wait()
}

// retryWithBackoff runs operation until it succeeds, doubling the delay
// between attempts.
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay
	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if i == maxRetries-1 {
			break
		}
		log.Warn(operationName+" failed, retrying", map[string]interface{}{
			"error":       err.Error(),
			"attempt":     i + 1,
			"max_retries": maxRetries,
			"next_in":     delay.String(),
		})
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
