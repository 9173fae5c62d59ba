package review

import (
	"github.com/craftbid/matchengine/internal/review/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("review",
	fx.Provide(repository.Provide),
)
