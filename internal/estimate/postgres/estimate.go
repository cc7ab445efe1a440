package postgres

import (
	"context"
	"errors"
	"fmt"

	estimateDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/estimate"
	"github.com/frahmantamala/interior-ledger/internal/estimate"
	"gorm.io/gorm"
)

type EstimateRepository struct {
	db *gorm.DB
}

func NewEstimateRepository(db *gorm.DB) estimate.RepositoryAPI {
	return &EstimateRepository{db: db}
}

// Create inserts the estimate and, through the association, its items.
func (r *EstimateRepository) Create(ctx context.Context, e *estimateDatamodel.Estimate) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(e).Error
	})
	if err != nil {
		return fmt.Errorf("create estimate: %w", err)
	}
	return nil
}

func (r *EstimateRepository) GetByID(ctx context.Context, userID, id int64) (*estimateDatamodel.Estimate, error) {
	var e estimateDatamodel.Estimate
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ? AND user_id = ?", id, userID).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get estimate: %w", err)
	}
	return &e, nil
}

func (r *EstimateRepository) List(ctx context.Context, userID, projectID int64) ([]*estimateDatamodel.Estimate, error) {
	var estimates []*estimateDatamodel.Estimate
	query := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("user_id = ?", userID)
	if projectID != 0 {
		query = query.Where("project_id = ?", projectID)
	}
	if err := query.Order("date DESC, id DESC").Find(&estimates).Error; err != nil {
		return nil, fmt.Errorf("list estimates: %w", err)
	}
	return estimates, nil
}

func (r *EstimateRepository) SetProject(ctx context.Context, userID, id, projectID int64) error {
	err := r.db.WithContext(ctx).
		Model(&estimateDatamodel.Estimate{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("project_id", projectID).Error
	if err != nil {
		return fmt.Errorf("attach estimate: %w", err)
	}
	return nil
}
