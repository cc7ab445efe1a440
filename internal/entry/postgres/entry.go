package postgres

import (
	"context"
	"errors"
	"fmt"

	entryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/entry"
	"github.com/frahmantamala/interior-ledger/internal/entry"
	"gorm.io/gorm"
)

type EntryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) entry.RepositoryAPI {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) Create(ctx context.Context, e *entryDatamodel.Entry) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	return nil
}

func (r *EntryRepository) GetByID(ctx context.Context, id int64) (*entryDatamodel.Entry, error) {
	var e entryDatamodel.Entry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return &e, nil
}

func (r *EntryRepository) Save(ctx context.Context, e *entryDatamodel.Entry) error {
	if err := r.db.WithContext(ctx).Save(e).Error; err != nil {
		return fmt.Errorf("save entry: %w", err)
	}
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entryDatamodel.Entry{})
	if res.Error != nil {
		return false, fmt.Errorf("delete entry: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *EntryRepository) ListByProject(ctx context.Context, userID, projectID int64) ([]*entryDatamodel.Entry, error) {
	var entries []*entryDatamodel.Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Order("date DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

func (r *EntryRepository) ListByTransferID(ctx context.Context, transferID string) ([]*entryDatamodel.Entry, error) {
	var entries []*entryDatamodel.Entry
	err := r.db.WithContext(ctx).
		Where("transfer_id = ?", transferID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list transfer entries: %w", err)
	}
	return entries, nil
}

func (r *EntryRepository) SaveAll(ctx context.Context, rows []*entryDatamodel.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if err := tx.Save(row).Error; err != nil {
				return fmt.Errorf("save entry %d: %w", row.ID, err)
			}
		}
		return nil
	})
}

func (r *EntryRepository) DeleteByTransferID(ctx context.Context, transferID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("transfer_id = ?", transferID).Delete(&entryDatamodel.Entry{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete transfer entries: %w", res.Error)
	}
	return res.RowsAffected, nil
}
