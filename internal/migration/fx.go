package migration

import (
	"strings"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/lodgerhq/lodger/internal/config"
	licensedomain "github.com/lodgerhq/lodger/internal/license/domain"
	plandomain "github.com/lodgerhq/lodger/internal/plan/domain"
	"github.com/lodgerhq/lodger/internal/seed"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if strings.EqualFold(cfg.DBType, "postgres") {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// non-postgres deployments are dev setups; AutoMigrate is enough
			if err := conn.AutoMigrate(&plandomain.Plan{}, &licensedomain.License{}); err != nil {
				return err
			}
		}

		if cfg.SeedPlans {
			return seed.EnsurePlans(conn)
		}
		return nil
	}),
)
