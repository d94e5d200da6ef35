// cmd/grant-portal/main.go
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

	"go.uber.org/zap"

	"grant-portal/internal/api"
	awsclient "grant-portal/internal/common/aws"
	"grant-portal/internal/common/camunda"
	"grant-portal/internal/common/config"
	"grant-portal/internal/common/database"
	"grant-portal/internal/common/logger"
	"grant-portal/internal/common/observability"
	"grant-portal/internal/models"
	"grant-portal/internal/store"
	fieldrules "grant-portal/internal/wizard/field-rules"
	formsession "grant-portal/internal/wizard/form-session"
	sendconfirmation "grant-portal/internal/wizard/send-confirmation"
	startreview "grant-portal/internal/wizard/start-review"
	stepdefinitions "grant-portal/internal/wizard/step-definitions"
	submitapplication "grant-portal/internal/wizard/submit-application"

	"github.com/gin-gonic/gin"
)

const serviceName = "grant-portal"

// retryWithBackoff attempts operation up to maxRetries times, doubling the
// delay after each failure.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service":     serviceName,
		"environment": cfg.App.Environment,
	})

	if err := run(cfg, log); err != nil {
		log.Error("grant portal stopped with error", map[string]interface{}{"error": err})
		os.Exit(1)
	}
}

// closer releases a resource on shutdown.
type closer struct {
	name  string
	close func() error
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].close(); err != nil {
				log.Warn("close failed", map[string]interface{}{"resource": closers[i].name, "error": err})
			}
		}
	}()

	var obs *observability.Observability
	if cfg.Metrics.Enabled {
		obs = observability.New(serviceName)
		closers = append(closers, closer{"observability", func() error { obs.Shutdown(); return nil }})
	}

	// --- Application store ---
	appStore, checks, storeClose, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if storeClose != nil {
		closers = append(closers, closer{appStore.Name(), storeClose})
	}

	stats, err := appStore.Stats(ctx)
	if err != nil {
		return fmt.Errorf("read store stats: %w", err)
	}
	log.Info("application store ready", map[string]interface{}{
		"backend": appStore.Name(),
		"total":   stats.Total,
	})

	// --- Wizard core ---
	validator := fieldrules.NewValidator(nil)
	steps := stepdefinitions.NewTable()

	pipeline := submitapplication.NewHandler(
		submitapplication.ConfigFromWizard(cfg.Wizard),
		appStore,
		submitapplication.NewReferenceGenerator(cfg.Wizard.ReferenceStrategy, int64(stats.Total)+1),
		obs,
		log,
	)

	// --- Post-submit listeners ---
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		confirm, err := newConfirmationListener(ctx, cfg.Notifications, log)
		if err != nil {
			return err
		}
		pipeline.AddListener(confirm)
		log.Info("confirmation listener registered", nil)
	}

	if cfg.Camunda.Enabled {
		var zeebe *camunda.Client
		err := retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClientWithConfig(camunda.ClientConfigFrom(cfg.Camunda))
			return err
		}, 10, 2*time.Second, log, "Zeebe client initialization")
		if err != nil {
			return err
		}
		closers = append(closers, closer{"zeebe", zeebe.Close})
		checks = append(checks, api.ReadinessCheck{Name: "zeebe", Check: zeebe.HealthCheck})

		pipeline.AddListener(startreview.NewHandler(startreview.ConfigFromCamunda(cfg.Camunda), zeebe, log))
		log.Info("review listener registered", map[string]interface{}{"processId": cfg.Camunda.ReviewProcessID})
	}

	registry := formsession.NewRegistry(formsession.ConfigFromWizard(cfg.Wizard), validator, steps, pipeline, log)
	registry.OnComplete(func(c formsession.Completion) {
		log.Info("application submitted", map[string]interface{}{
			"sessionId": c.SessionID,
			"reference": c.Reference,
			"amount":    c.Application.Amount,
			"currency":  c.Application.Currency,
		})
	})
	go registry.Run(ctx)

	// --- HTTP ---
	gin.SetMode(cfg.Server.Mode)
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	server := api.NewServer(api.Deps{
		Registry:       registry,
		Steps:          steps,
		Catalog:        validator.Catalog(),
		Store:          appStore,
		Logger:         log,
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MetricsPath:    metricsPath,
		Checks:         checks,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      server.Router(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", map[string]interface{}{"address": httpServer.Addr})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received, draining requests...", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	log.Info("grant portal stopped", map[string]interface{}{"sessions": registry.Len()})
	return nil
}

// openStore builds the configured backend and its readiness check.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.ApplicationStore, []api.ReadinessCheck, func() error, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		var rc *database.RedisClient
		err := retryWithBackoff(func() error {
			var err error
			rc, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			if err := rc.Ping(ctx); err != nil {
				rc.Close()
				return err
			}
			return nil
		}, 10, 2*time.Second, log, "Redis connection")
		if err != nil {
			return nil, nil, nil, err
		}
		checks := []api.ReadinessCheck{{Name: "redis", Check: rc.Ping}}
		return store.NewRedisStore(rc.Client), checks, rc.Close, nil

	case config.StoreBackendPostgres:
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				pg.Close()
				return err
			}
			return nil
		}, 15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			return nil, nil, nil, err
		}
		if err := pg.Migrate(ctx, store.Schema...); err != nil {
			pg.Close()
			return nil, nil, nil, err
		}
		checks := []api.ReadinessCheck{{Name: "postgres", Check: pg.Ping}}
		return store.NewPostgresStore(pg.DB), checks, pg.Close, nil

	default:
		var seed []models.Application
		if cfg.Store.Seed {
			seed = models.SeedApplications()
		}
		return store.NewMemoryStore(seed), nil, nil, nil
	}
}

func newConfirmationListener(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*sendconfirmation.Handler, error) {
	awsCfg, err := awsclient.LoadConfig(ctx, cfg.AWS.Region)
	if err != nil {
		return nil, err
	}

	// A channel that is off keeps a nil client.
	var (
		sesClient sendconfirmation.SESService
		snsClient sendconfirmation.SNSService
	)
	if cfg.Email.Enabled {
		sesClient = awsclient.NewSESClient(awsCfg)
	}
	if cfg.SMS.Enabled {
		snsClient = awsclient.NewSNSClient(awsCfg)
	}
	return sendconfirmation.NewHandler(sendconfirmation.ConfigFromNotifications(cfg), sesClient, snsClient, log), nil
}
