package cron

import (
	"context"
	"time"

	"memberportal/config"
	"memberportal/services/tasks"
	"memberportal/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const workerConcurrency = 5

// EnrichHandler processes tasks.TypeSocialEnrich.
type EnrichHandler interface {
	HandleEnrichTask(ctx context.Context, task *asynq.Task) error
}

// RedisOpt is the queue connection shared by the client and the worker.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewClient returns the producer side of the background queue.
func NewClient() *asynq.Client {
	return asynq.NewClient(RedisOpt())
}

// Worker runs background jobs until Shutdown.
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewWorker(enrich EnrichHandler) *Worker {
	logger := utils.GetLogger()
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: workerConcurrency,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Warn("Background task failed", zap.String("type", task.Type()), zap.Error(err))
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSocialEnrich, enrich.HandleEnrichTask)
	return &Worker{srv: srv, mux: mux}
}

// Start launches the worker, retrying with a growing backoff while Redis is unreachable.
func (w *Worker) Start(ctx context.Context) {
	logger := utils.GetLogger()
	go monitorRedisConnection(ctx)

	go func() {
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				logger.Info("Background worker started", zap.Int("concurrency", workerConcurrency))
				return
			}
			logger.Warn("Background worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Background worker gave up; social enrichment disabled")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

// monitorRedisConnection pings the queue database periodically to surface outages.
func monitorRedisConnection(ctx context.Context) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				utils.GetLogger().Warn("Queue Redis connection lost", zap.Error(err))
			}
		}
	}
}
