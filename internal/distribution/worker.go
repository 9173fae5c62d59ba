package distribution

import (
	"context"

	"github.com/craftbid/matchengine/internal/config"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewServeMux registers the distribution handlers.
func NewServeMux(orchestrator *Orchestrator) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskDistributeProject, orchestrator.HandleDistributeProject)
	return mux
}

// RunWorker starts the asynq server consuming the distribution queue. Retry
// scheduling, backoff, and archival of exhausted tasks are asynq's defaults.
func RunWorker(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, mux *asynq.ServeMux) {
	srv := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: cfg.Queue.Concurrency,
		Queues: map[string]int{
			QueueProjectDistribution: 1,
		},
	})

	workerLog := log.Named("distribution.worker")
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := srv.Start(mux); err != nil {
				return err
			}
			workerLog.Info("distribution worker started",
				zap.Int("concurrency", cfg.Queue.Concurrency),
			)
			return nil
		},
		OnStop: func(context.Context) error {
			srv.Shutdown()
			return nil
		},
	})
}
