package license

import (
	"go.uber.org/fx"

	"github.com/lodgerhq/lodger/internal/license/repository"
	"github.com/lodgerhq/lodger/internal/license/service"
)

var Module = fx.Module("license",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
