package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/lodgerhq/lodger/internal/plan/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Plan, error) {
	var p domain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, price_quarterly, price_yearly, created_at, updated_at
		 FROM plans WHERE id = ?`,
		strings.TrimSpace(id),
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Plan, error) {
	var items []domain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, price_quarterly, price_yearly, created_at, updated_at
		 FROM plans ORDER BY created_at ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
