package distribution

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/craftbid/matchengine/internal/config"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Client enqueues distribution jobs, decoupling fan-out from the
// project-creation request path.
type Client struct {
	log   *zap.Logger
	cfg   config.QueueConfig
	asynq *asynq.Client
}

func NewClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *Client {
	client := asynq.NewClient(redisOpt(cfg))
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return &Client{
		log:   log.Named("distribution.client"),
		cfg:   cfg.Queue,
		asynq: client,
	}
}

// Enqueue schedules the fan-out for one project. The queue retries a failed
// job with exponential backoff up to MaxRetry attempts, then archives it.
func (c *Client) Enqueue(ctx context.Context, projectID snowflake.ID) error {
	payload, err := json.Marshal(newPayload(projectID))
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskDistributeProject, payload)
	info, err := c.asynq.EnqueueContext(ctx, task,
		asynq.Queue(QueueProjectDistribution),
		asynq.MaxRetry(c.cfg.MaxRetry),
		asynq.Timeout(c.cfg.Timeout),
	)
	if err != nil {
		return err
	}

	c.log.Info("distribution job enqueued",
		zap.String("project_id", projectID.String()),
		zap.String("task_id", info.ID),
	)
	return nil
}

func redisOpt(cfg config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     strings.TrimSpace(cfg.RedisAddr),
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	}
}
