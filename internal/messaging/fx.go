package messaging

import (
	"github.com/craftbid/matchengine/internal/messaging/repository"
	"github.com/craftbid/matchengine/internal/messaging/service"
	"go.uber.org/fx"
)

var Module = fx.Module("messaging",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
