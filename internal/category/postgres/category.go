package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/category"
	categoryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/category"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID int64) ([]*categoryDatamodel.Category, error) {
	var categories []*categoryDatamodel.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("type ASC, category ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Exists(ctx context.Context, userID int64, entryType, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&categoryDatamodel.Category{}).
		Where("user_id = ? AND type = ? AND category = ?", userID, entryType, name).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check category: %w", err)
	}
	return count > 0, nil
}

func (r *CategoryRepository) Create(ctx context.Context, cat *categoryDatamodel.Category) error {
	err := r.db.WithContext(ctx).Create(cat).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.ErrDuplicateCategory
	}
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) CreateIfNotExists(ctx context.Context, cat *categoryDatamodel.Category) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(cat).Error
	if err != nil {
		return fmt.Errorf("ensure category: %w", err)
	}
	return nil
}
