package rating

import (
	"strings"

	"github.com/craftbid/matchengine/internal/config"
	"github.com/craftbid/matchengine/internal/rating/cache"
	ratingdomain "github.com/craftbid/matchengine/internal/rating/domain"
	"github.com/craftbid/matchengine/internal/rating/repository"
	"github.com/craftbid/matchengine/internal/rating/service"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// NewScoreCache builds the Redis-backed score cache. An empty Redis address
// disables caching; every consumer tolerates an always-miss cache.
func NewScoreCache(cfg config.Config) ratingdomain.ScoreCache {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return cache.NewRedisScoreCache(nil, cfg.Engine.RatingCacheTTL)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})
	return cache.NewRedisScoreCache(client, cfg.Engine.RatingCacheTTL)
}

var Module = fx.Module("rating",
	fx.Provide(repository.Provide),
	fx.Provide(NewScoreCache),
	fx.Provide(service.New),
	fx.Provide(service.NewScores),
)
