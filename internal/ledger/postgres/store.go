package postgres

import (
	"context"
	"errors"
	"fmt"

	entryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/entry"
	projectDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/project"
	"github.com/frahmantamala/interior-ledger/internal/ledger"
	"gorm.io/gorm"
)

// LedgerStore backs the ledger engine with gorm. It implements both
// ledger.Store and ledger.Transactor.
type LedgerStore struct {
	db *gorm.DB
}

func NewLedgerStore(db *gorm.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) WithinTx(ctx context.Context, fn func(tx ledger.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LedgerStore{db: tx})
	})
}

func (s *LedgerStore) GetProject(ctx context.Context, userID, id int64) (*projectDatamodel.Project, error) {
	var p projectDatamodel.Project
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (s *LedgerStore) FindProjectByName(ctx context.Context, userID int64, name string) (*projectDatamodel.Project, error) {
	var p projectDatamodel.Project
	err := s.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).Order("id ASC").First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find project by name: %w", err)
	}
	return &p, nil
}

func (s *LedgerStore) ListProjects(ctx context.Context, userID int64, status string) ([]*projectDatamodel.Project, error) {
	var projects []*projectDatamodel.Project
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("id ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *LedgerStore) CreateEntry(ctx context.Context, e *entryDatamodel.Entry) error {
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	return nil
}

func (s *LedgerStore) DeleteEntry(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&entryDatamodel.Entry{}).Error; err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func (s *LedgerStore) FindEntries(ctx context.Context, f ledger.EntryFilter) ([]*entryDatamodel.Entry, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", f.UserID)
	if f.ProjectID != 0 {
		query = query.Where("project_id = ?", f.ProjectID)
	}
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.SharedOnly {
		query = query.Where("is_shared_expense = ?", true)
	}
	if f.TransfersOnly {
		query = query.Where("is_income_from_other_project = ?", true)
	}
	if f.Since != nil {
		query = query.Where("date >= ?", *f.Since)
	}
	if f.Until != nil {
		query = query.Where("date < ?", *f.Until)
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	var entries []*entryDatamodel.Entry
	if err := query.Order("date DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("find entries: %w", err)
	}
	return entries, nil
}
