package postgres

import (
	"context"
	"errors"
	"fmt"

	entryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/entry"
	paymentBillDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/paymentbill"
	projectDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/project"
	"github.com/frahmantamala/interior-ledger/internal/project"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) project.RepositoryAPI {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *projectDatamodel.Project) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, userID, id int64) (*projectDatamodel.Project, error) {
	var p projectDatamodel.Project
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (r *ProjectRepository) FindByName(ctx context.Context, userID int64, name string) (*projectDatamodel.Project, error) {
	var p projectDatamodel.Project
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		Order("id ASC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find project by name: %w", err)
	}
	return &p, nil
}

func (r *ProjectRepository) ListByUser(ctx context.Context, userID int64, status string) ([]*projectDatamodel.Project, error) {
	var projects []*projectDatamodel.Project
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at DESC, id DESC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepository) UpdateFields(ctx context.Context, userID, id int64, fields map[string]interface{}) error {
	err := r.db.WithContext(ctx).
		Model(&projectDatamodel.Project{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields).Error
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) DeleteCascade(ctx context.Context, userID, id int64) (int64, error) {
	var deletedEntries int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var transferIDs []string
		err := tx.Model(&entryDatamodel.Entry{}).
			Where("project_id = ? AND user_id = ? AND transfer_id IS NOT NULL", id, userID).
			Pluck("transfer_id", &transferIDs).Error
		if err != nil {
			return fmt.Errorf("load transfer ids: %w", err)
		}

		// Counterparts on other projects go with the project: linked halves by
		// transfer id, unlinked incomes by their source project.
		scope := tx.Where("project_id = ?", id).
			Or("is_income_from_other_project = ? AND source_project_id = ?", true, id)
		if len(transferIDs) > 0 {
			scope = scope.Or("transfer_id IN ?", transferIDs)
		}
		query := tx.Where("user_id = ?", userID).Where(scope)
		res := query.Delete(&entryDatamodel.Entry{})
		if res.Error != nil {
			return fmt.Errorf("delete entries: %w", res.Error)
		}
		deletedEntries = res.RowsAffected

		if err := tx.Where("project_id = ? AND user_id = ?", id, userID).Delete(&paymentBillDatamodel.PaymentBill{}).Error; err != nil {
			return fmt.Errorf("delete payment bills: %w", err)
		}

		if err := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&projectDatamodel.Project{}).Error; err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deletedEntries, nil
}
