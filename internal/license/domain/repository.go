package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, license *License) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*License, error)
	FindByTransactionID(ctx context.Context, db *gorm.DB, transactionID string) (*License, error)
	FindByLicenceKey(ctx context.Context, db *gorm.DB, key string) (*License, error)
	FindLatestPendingByPlan(ctx context.Context, db *gorm.DB, planID string) (*License, error)

	// ActivatePending applies the PENDING→PAID transition as one conditional
	// update. It reports false when the precondition did not hold, which the
	// caller resolves by re-reading the record.
	ActivatePending(ctx context.Context, db *gorm.DB, id snowflake.ID, activation Activation) (bool, error)

	// BindOwner attaches an owner to an already-PAID license found by key.
	BindOwner(ctx context.Context, db *gorm.DB, id snowflake.ID, ownerID string, boundAt time.Time) (bool, error)
}
