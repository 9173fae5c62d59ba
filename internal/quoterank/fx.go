package quoterank

import (
	"github.com/craftbid/matchengine/internal/quoterank/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quoterank",
	fx.Provide(service.New),
)
