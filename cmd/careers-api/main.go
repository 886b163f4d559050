// cmd/careers-api/main.go
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

	commonaws "careers-api/internal/common/aws"
	"careers-api/internal/common/config"
	"careers-api/internal/common/database"
	apperrors "careers-api/internal/common/errors"
	commonhttp "careers-api/internal/common/http"
	"careers-api/internal/common/logger"
	"careers-api/internal/common/observability"

	"careers-api/internal/application"
	"careers-api/internal/jobs"
	"careers-api/internal/mail"
	"careers-api/internal/notify"
	"careers-api/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console", "stderr")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting careers api...",
		zap.String("environment", cfg.App.Environment),
		zap.String("mailProvider", cfg.Mail.Provider),
		zap.String("jobSource", cfg.Jobs.Source),
	)

	obs := observability.New(cfg.Observability.ServiceName, log)
	defer obs.Shutdown()

	ctx := context.Background()
	var readiness []server.ReadinessCheck

	// --- Redis (job listing cache) ---
	var redis *database.RedisClient
	if cfg.Jobs.CacheTTL > 0 {
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		readiness = append(readiness, server.ReadinessCheck{Name: "redis", Check: redis.Ping})
		zapLog.Info("Redis connected successfully")
	}

	// --- Elasticsearch (job listing index) ---
	var esClient *database.ElasticsearchClient
	if cfg.Jobs.Source == config.JobSourceElasticsearch {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		readiness = append(readiness, server.ReadinessCheck{Name: "elasticsearch", Check: esClient.Ping})
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Mail provider ---
	provider, err := newMailProvider(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("mail provider init failed", zap.Error(err))
	}
	if cfg.SMTP.Username == "" || cfg.SMTP.Password == "" {
		zapLog.Warn("SMTP credentials are not configured; submissions will be rejected")
	}
	zapLog.Info("Mail provider ready", zap.String("provider", provider.Name()))

	// --- Recruiter alerts ---
	var notifier application.Notifier
	if cfg.Notifications.SNS.Enabled {
		snsClient, err := commonaws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		notifier = notify.NewSNSNotifier(snsClient, cfg.Notifications.SNS.TopicARN, log)
		zapLog.Info("SNS recruiter alerts enabled", zap.String("topicArn", cfg.Notifications.SNS.TopicARN))
	}

	// --- Job listings ---
	var source jobs.Source
	switch cfg.Jobs.Source {
	case config.JobSourceElasticsearch:
		source = jobs.NewElasticsearchSource(esClient.Client, cfg.Jobs.Index)
	default:
		source = jobs.NewAPISource(commonhttp.NewClient(config.GetDuration(cfg.Jobs.Timeout)), cfg.Jobs.APIURL)
	}
	if redis != nil {
		source = jobs.NewCachedSource(source, redis.Client, time.Duration(cfg.Jobs.CacheTTL)*time.Second, log)
	}

	// --- Handlers ---
	errorHandler := apperrors.NewErrorHandler(log)

	submissions := application.NewService(application.ServiceDependencies{
		Provider:      provider,
		Notifier:      notifier,
		Observability: obs,
		Logger:        log,
	}, application.NewConfig(cfg))

	router := server.NewRouter(server.Dependencies{
		Config: cfg.Server,
		Logger: log,
		Handlers: []server.Registrar{
			application.NewHandler(submissions, errorHandler, log),
			jobs.NewHandler(jobs.NewService(source, log), errorHandler),
		},
		Readiness:     readiness,
		EnableMetrics: cfg.Observability.MetricsEnabled,
	})

	srv := server.NewHTTPServer(cfg.Server, router)

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Careers api stopped gracefully")
}

// newMailProvider selects the delivery backend named by mail.provider.
func newMailProvider(ctx context.Context, cfg *config.Config, log logger.Logger) (mail.Provider, error) {
	switch cfg.Mail.Provider {
	case config.MailProviderSMTP:
		return mail.NewSMTPProvider(cfg.SMTP, log), nil
	case config.MailProviderSES:
		client, err := commonaws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			return nil, err
		}
		return mail.NewSESProvider(client, cfg.Integrations.AWS.SES.FromEmail, log), nil
	case config.MailProviderLog:
		return mail.NewLogProvider(log), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Mail.Provider)
	}
}
