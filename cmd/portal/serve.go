// cmd/portal/serve.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	portalaws "interview-portal/internal/common/aws"
	"interview-portal/internal/common/camunda"
	"interview-portal/internal/common/config"
	"interview-portal/internal/common/database"
	commonhttp "interview-portal/internal/common/http"
	"interview-portal/internal/common/logger"
	"interview-portal/internal/common/observability"
	"interview-portal/internal/events"
	"interview-portal/internal/httpapi"
	"interview-portal/internal/interview"
	"interview-portal/internal/jobs"
	"interview-portal/internal/profile"
	"interview-portal/internal/submission"
	"interview-portal/internal/toast"
	recordapplication "interview-portal/internal/workers/application/record-application"
	sendconfirmation "interview-portal/internal/workers/application/send-confirmation"
	validateapplication "interview-portal/internal/workers/application/validate-application"
)

func ServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and, when Camunda is enabled, the workflow workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log, flush := opts.newLogger(cfg)
			defer flush()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

// backends holds the connections serve owns and must close.
type backends struct {
	redis    *database.RedisClient
	postgres *database.PostgresClient
	es       *database.ElasticsearchClient
	zeebe    *camunda.Client
}

func (b *backends) close(log logger.Logger) {
	if b.zeebe != nil {
		if err := b.zeebe.Close(); err != nil {
			log.Error("Error closing Zeebe client", map[string]interface{}{"error": err})
		}
	}
	if b.postgres != nil {
		_ = b.postgres.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

func connect(ctx context.Context, cfg *config.Config, log logger.Logger) (*backends, error) {
	b := &backends{}

	err := retryWithBackoff(ctx, func() error {
		var err error
		b.redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return b.redis.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		return b, err
	}
	log.Info("Redis connected successfully", nil)

	if cfg.Jobs.Source == config.JobsSourcePostgres || cfg.Camunda.Enabled {
		err = retryWithBackoff(ctx, func() error {
			var err error
			b.postgres, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return b.postgres.Ping(ctx)
		}, 15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			return b, err
		}
		log.Info("PostgreSQL connected successfully", nil)
	}

	if len(cfg.Database.Elasticsearch.GetAddresses()) > 0 {
		err = retryWithBackoff(ctx, func() error {
			var err error
			b.es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return b.es.Ping(ctx)
		}, 15, 2*time.Second, log, "Elasticsearch connection")
		if err != nil {
			return b, err
		}
		log.Info("Elasticsearch connected successfully", nil)
	}

	if cfg.Camunda.Enabled {
		err = retryWithBackoff(ctx, func() error {
			var err error
			b.zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				ConnectionTimeout:      10 * time.Second,
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, log, "Zeebe client initialization")
		if err != nil {
			return b, err
		}
		log.Info("Zeebe client connected successfully", nil)
	}
	return b, nil
}

func serve(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	log.Info("Starting portal", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"address":     cfg.Server.Address,
	})

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		log.Warn("OpenTelemetry metrics disabled", map[string]interface{}{"error": err})
	}
	defer func() { _ = obs.Shutdown(context.Background()) }()

	b, err := connect(ctx, cfg, log)
	defer b.close(log)
	if err != nil {
		return err
	}

	hub := events.NewHub()
	toasts := toast.NewRegistry(toast.Options{
		Duration: config.GetDuration(cfg.Toasts.Duration),
		Offset:   cfg.Toasts.Offset,
	}, hub)
	defer toasts.Close()

	d, err := buildDeps(cfg, b, obs, hub, toasts, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      httpapi.NewHandler(d, cfg.Server, cfg.App.Environment == "production"),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	var workers []worker.JobWorker
	if b.zeebe != nil {
		workers = camunda.StartWorkers(b.zeebe.GetClient(), workerRegistrations(ctx, cfg, b.postgres.DB, log), log)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening", map[string]interface{}{"address": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutdown signal received, draining", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		camunda.StopWorkers(workers, log)
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Portal stopped gracefully", nil)
	return nil
}

func buildDeps(cfg *config.Config, b *backends, obs *observability.Observability, hub *events.Hub, toasts *toast.Registry, log logger.Logger) (httpapi.Deps, error) {
	upstream := commonhttp.NewClient(cfg.Upstream.BaseURL, config.GetDuration(cfg.Upstream.Timeout))

	var lookup jobs.Lookup
	switch cfg.Jobs.Source {
	case config.JobsSourcePostgres:
		lookup = jobs.NewRepository(b.postgres.DB)
	default:
		lookup = jobs.NewAPIClient(upstream, cfg.Upstream.JobsPath, obs)
	}
	if cfg.Jobs.CacheTTL > 0 {
		lookup = jobs.NewCachedLookup(lookup, b.redis.Client, config.GetDuration(cfg.Jobs.CacheTTL), log)
	}

	shape, err := submission.ParseShape(cfg.Upstream.PayloadShape, submission.ShapeNested)
	if err != nil {
		return httpapi.Deps{}, err
	}

	var starter submission.ProcessStarter
	if b.zeebe != nil {
		starter = b.zeebe
	}

	profiles := profile.NewProvider(b.redis.Client, cfg.Profile.KeyPrefix, log)

	d := httpapi.Deps{
		Log:      log,
		Obs:      obs,
		Hub:      hub,
		Toasts:   toasts,
		Profiles: profiles,
		Resolver: interview.NewResolver(lookup, profiles, log),
		Jobs:     lookup,
		Submitter: submission.NewSubmitter(upstream, starter, obs, submission.Config{
			LegacyPath: cfg.Upstream.LegacyPath,
			NestedPath: cfg.Upstream.NestedPath,
			ProcessID:  cfg.Camunda.ProcessID,
		}, log),
		DefaultShape: shape,
		ServiceName:  cfg.App.Name,
		Version:      cfg.App.Version,
		Ready:        readinessChecks(b),
	}
	if b.es != nil {
		d.Search = jobs.NewSearch(b.es.Client, cfg.Jobs.SearchIndex)
	}
	return d, nil
}

func readinessChecks(b *backends) []httpapi.ReadinessCheck {
	checks := []httpapi.ReadinessCheck{{Name: "redis", Check: b.redis.Ping}}
	if b.postgres != nil {
		checks = append(checks, httpapi.ReadinessCheck{Name: "postgres", Check: b.postgres.Ping})
	}
	if b.es != nil {
		checks = append(checks, httpapi.ReadinessCheck{Name: "elasticsearch", Check: b.es.Ping})
	}
	if b.zeebe != nil {
		checks = append(checks, httpapi.ReadinessCheck{Name: "zeebe", Check: b.zeebe.HealthCheck})
	}
	return checks
}

func workerRegistrations(ctx context.Context, cfg *config.Config, db *sql.DB, log logger.Logger) []camunda.Registration {
	validateCfg := config.GetWorkerConfig(cfg, validateapplication.TaskType)
	validate := validateapplication.NewHandler(validateapplication.NewConfig(validateCfg), log)

	recordCfg := config.GetWorkerConfig(cfg, recordapplication.TaskType)
	record := recordapplication.NewHandler(recordapplication.NewConfig(recordCfg), db, log)

	confirmCfg := config.GetWorkerConfig(cfg, sendconfirmation.TaskType)
	var (
		email sendconfirmation.EmailSender
		sms   sendconfirmation.SMSSender
	)
	n := cfg.Notifications
	if n.Email.Enabled || n.SMS.Enabled {
		awsCfg, err := portalaws.LoadConfig(ctx, n.AWS.Region)
		if err != nil {
			log.Error("AWS config unavailable, confirmations disabled", map[string]interface{}{"error": err})
		} else {
			if n.Email.Enabled {
				email = portalaws.NewSESClient(awsCfg)
			}
			if n.SMS.Enabled {
				sms = portalaws.NewSNSClient(awsCfg)
			}
		}
	}
	confirm := sendconfirmation.NewHandler(sendconfirmation.NewConfig(n, confirmCfg), email, sms, log)

	return []camunda.Registration{
		{TaskType: validateapplication.TaskType, Handler: validate.Handle, Config: validateCfg},
		{TaskType: recordapplication.TaskType, Handler: record.Handle, Config: recordCfg},
		{TaskType: sendconfirmation.TaskType, Handler: confirm.Handle, Config: confirmCfg},
	}
}
