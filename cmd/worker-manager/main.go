// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"profitum-workers/internal/common/camunda"
	"profitum-workers/internal/common/config"
	"profitum-workers/internal/common/database"
	"profitum-workers/internal/common/logger"
	"profitum-workers/internal/common/observability"
	"profitum-workers/internal/refdata"
	"profitum-workers/pkg/registry"

	bc "profitum-workers/internal/workers/simulation/benchmark-comparison"
	ee "profitum-workers/internal/workers/simulation/evaluate-eligibility"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("tablesVersion", cfg.Simulation.TablesVersion),
	)

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
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
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch (optional, analytics only) ---
	var esClient *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.GetURL() != "" {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 5, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Warn("elasticsearch unavailable, result indexing disabled", zap.Error(err))
			esClient = nil
		} else {
			zapLog.Info("Elasticsearch connected successfully")
		}
	}

	// --- Reference data store shared by both workers ---
	store := refdata.NewStore(refdata.StoreOptions{
		DB:       pg,
		Redis:    redis,
		Logger:   log,
		Version:  cfg.Simulation.TablesVersion,
		CacheTTL: cfg.Simulation.GetRefDataCacheTTL(),
	})
	// Warm the cache so the first job does not pay the Postgres round trip.
	_ = store.Tables(ctx)

	// --- Activity registry (documents task types and their schemas) ---
	if reg, err := registry.LoadRegistry(cfg.Simulation.RegistryPath); err != nil {
		zapLog.Warn("activity registry not loaded", zap.Error(err))
	} else {
		zapLog.Info("activity registry loaded",
			zap.String("version", reg.Version),
			zap.Int("activities", len(reg.Activities)),
		)
		for _, taskType := range []string{ee.TaskType, bc.TaskType} {
			if _, ok := reg.FindByTaskType(taskType); !ok {
				zapLog.Warn("task type not documented in activity registry", zap.String("taskType", taskType))
			}
		}
	}

	// --- Register Simulation Workers ---
	var workers []*camunda.Worker

	if cfg.IsWorkerEnabled(ee.TaskType) {
		handler := ee.NewHandler(
			&ee.Config{
				Timeout:        config.GetDuration(cfg.GetWorkerConfig(ee.TaskType).Timeout),
				ResultCacheTTL: cfg.Simulation.GetResultCacheTTL(),
				ResultIndex:    cfg.Simulation.ResultIndex,
				IndexResults:   esClient != nil,
			},
			store, redis, esClient, obs, log,
		)
		workers = append(workers, startWorker(zeebeClient, ee.TaskType, cfg.GetWorkerConfig(ee.TaskType), handler.Handle, zapLog))
	}

	if cfg.IsWorkerEnabled(bc.TaskType) {
		handler := bc.NewHandler(
			&bc.Config{
				Timeout: config.GetDuration(cfg.GetWorkerConfig(bc.TaskType).Timeout),
			},
			store, log,
		)
		workers = append(workers, startWorker(zeebeClient, bc.TaskType, cfg.GetWorkerConfig(bc.TaskType), handler.Handle, zapLog))
	}

	zapLog.Info("All simulation workers registered")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			status := "ready"
			code := http.StatusOK
			if err := pg.Ping(r.Context()); err != nil {
				status = "degraded: postgres unreachable"
				code = http.StatusServiceUnavailable
			} else if err := zeebeClient.HealthCheck(r.Context()); err != nil {
				status = "degraded: zeebe unreachable"
				code = http.StatusServiceUnavailable
			}
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{
				"status": status,
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for _, w := range workers {
			if w != nil {
				w.Close()
			}
		}
		if err := zeebeClient.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
		close(done)
	}()

	select {
	case <-done:
		zapLog.Info("Worker manager stopped gracefully")
	case <-shutdownCtx.Done():
		zapLog.Warn("Shutdown timed out, exiting with jobs possibly in flight")
	}
}

func startWorker(client *camunda.Client, taskType string, wcfg config.WorkerConfig, handlerFunc camunda.JobHandler, log *zap.Logger) *camunda.Worker {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return nil
	}

	return camunda.StartWorker(
		client.GetClient(),
		taskType,
		wcfg.MaxJobsActive,
		time.Duration(wcfg.Timeout)*time.Millisecond,
		handlerFunc,
		log,
	)
}
