package quote

import (
	"github.com/craftbid/matchengine/internal/quote/repository"
	"github.com/craftbid/matchengine/internal/quote/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quote",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
