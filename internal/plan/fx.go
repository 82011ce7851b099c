package plan

import (
	"go.uber.org/fx"

	"github.com/lodgerhq/lodger/internal/plan/repository"
)

var Module = fx.Module("plan",
	fx.Provide(repository.Provide),
)
