package matching

import (
	"github.com/craftbid/matchengine/internal/matching/service"
	"go.uber.org/fx"
)

var Module = fx.Module("matching",
	fx.Provide(service.New),
)
