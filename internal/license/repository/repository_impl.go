package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/lodgerhq/lodger/internal/license/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, license *domain.License) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO licenses (id, plan_id, owner_id, licence_key, payment_status, billing_period, transaction_id, expires_at, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		license.ID,
		license.PlanID,
		license.OwnerID,
		license.LicenceKey,
		license.PaymentStatus,
		license.BillingPeriod,
		license.TransactionID,
		license.ExpiresAt,
		license.Metadata,
		license.CreatedAt,
		license.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.License, error) {
	return r.findOne(ctx, db, `id = ?`, id)
}

func (r *repo) FindByTransactionID(ctx context.Context, db *gorm.DB, transactionID string) (*domain.License, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, nil
	}
	return r.findOne(ctx, db, `transaction_id = ?`, transactionID)
}

func (r *repo) FindByLicenceKey(ctx context.Context, db *gorm.DB, key string) (*domain.License, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	return r.findOne(ctx, db, `licence_key = ?`, key)
}

func (r *repo) FindLatestPendingByPlan(ctx context.Context, db *gorm.DB, planID string) (*domain.License, error) {
	planID = strings.TrimSpace(planID)
	if planID == "" {
		return nil, nil
	}
	return r.findOne(ctx, db, `plan_id = ? AND payment_status = 'PENDING'`, planID)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, where string, args ...any) (*domain.License, error) {
	var l domain.License
	err := db.WithContext(ctx).Raw(
		`SELECT id, plan_id, owner_id, licence_key, payment_status, billing_period, transaction_id, expires_at, metadata, created_at, updated_at
		 FROM licenses WHERE `+where+` ORDER BY created_at DESC LIMIT 1`,
		args...,
	).Scan(&l).Error
	if err != nil {
		return nil, err
	}
	if l.ID == 0 {
		return nil, nil
	}
	return &l, nil
}

func (r *repo) ActivatePending(ctx context.Context, db *gorm.DB, id snowflake.ID, activation domain.Activation) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE licenses
		 SET licence_key = ?, payment_status = 'PAID', billing_period = ?, transaction_id = ?, expires_at = ?, owner_id = COALESCE(?, owner_id), updated_at = ?
		 WHERE id = ? AND payment_status = 'PENDING'`,
		activation.LicenceKey,
		activation.BillingPeriod,
		activation.TransactionID,
		activation.ExpiresAt,
		activation.OwnerID,
		activation.ActivatedAt,
		id,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repo) BindOwner(ctx context.Context, db *gorm.DB, id snowflake.ID, ownerID string, boundAt time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE licenses SET owner_id = ?, updated_at = ? WHERE id = ? AND payment_status = 'PAID' AND owner_id IS NULL`,
		ownerID,
		boundAt,
		id,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
