package supplier

import (
	"github.com/craftbid/matchengine/internal/supplier/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("supplier",
	fx.Provide(repository.Provide),
)
