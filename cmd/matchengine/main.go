package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/craftbid/matchengine/internal/clock"
	"github.com/craftbid/matchengine/internal/config"
	"github.com/craftbid/matchengine/internal/distribution"
	"github.com/craftbid/matchengine/internal/logger"
	"github.com/craftbid/matchengine/internal/matching"
	"github.com/craftbid/matchengine/internal/messaging"
	"github.com/craftbid/matchengine/internal/migration"
	"github.com/craftbid/matchengine/internal/project"
	"github.com/craftbid/matchengine/internal/quote"
	"github.com/craftbid/matchengine/internal/quoterank"
	"github.com/craftbid/matchengine/internal/rating"
	"github.com/craftbid/matchengine/internal/review"
	"github.com/craftbid/matchengine/internal/scheduler"
	"github.com/craftbid/matchengine/internal/seed"
	"github.com/craftbid/matchengine/internal/server"
	"github.com/craftbid/matchengine/internal/supplier"
	"github.com/craftbid/matchengine/pkg/db"
	"go.uber.org/fx"
)

// The monolith runs the HTTP API and the distribution worker in one process.
// Deployments that need independent scaling use apps/api and apps/worker.
func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		seed.Module,

		supplier.Module,
		project.Module,
		review.Module,
		rating.Module,
		matching.Module,
		quote.Module,
		quoterank.Module,
		messaging.Module,
		distribution.Module,
		distribution.WorkerModule,
		scheduler.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
