// Package seed populates the plan catalog so a fresh deployment has
// purchasable tiers, including the edge shapes: a quarterly-only plan and a
// contact-sales plan with no pricing.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	plandomain "github.com/lodgerhq/lodger/internal/plan/domain"
)

type planSeed struct {
	name           string
	priceQuarterly *float64
	priceYearly    *float64
}

func price(v float64) *float64 { return &v }

var defaultPlans = []planSeed{
	{name: "Starter", priceQuarterly: price(30)},
	{name: "Pro", priceQuarterly: price(90), priceYearly: price(300)},
	{name: "Business", priceYearly: price(900)},
	{name: "Enterprise"},
}

// EnsurePlans inserts any missing catalog plans. Existing rows are left
// untouched so operators can adjust prices without the seeder reverting
// them on restart.
func EnsurePlans(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range defaultPlans {
			if err := ensurePlanTx(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensurePlanTx(ctx context.Context, tx *gorm.DB, p planSeed) error {
	id := slug.Make(p.name)

	var existing plandomain.Plan
	err := tx.WithContext(ctx).Where("id = ?", id).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	return tx.WithContext(ctx).Create(&plandomain.Plan{
		ID:             id,
		Name:           p.name,
		PriceQuarterly: p.priceQuarterly,
		PriceYearly:    p.priceYearly,
		CreatedAt:      now,
		UpdatedAt:      now,
	}).Error
}
