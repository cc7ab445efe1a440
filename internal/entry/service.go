package entry

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/core/common/validation"
	entryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/entry"
	"github.com/frahmantamala/interior-ledger/internal/core/events"
	"github.com/frahmantamala/interior-ledger/internal/project"
)

type RepositoryAPI interface {
	Create(ctx context.Context, entry *entryDatamodel.Entry) error
	// GetByID returns (nil, nil) when absent.
	GetByID(ctx context.Context, id int64) (*entryDatamodel.Entry, error)
	Save(ctx context.Context, entry *entryDatamodel.Entry) error
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)
	ListByProject(ctx context.Context, userID, projectID int64) ([]*entryDatamodel.Entry, error)
	ListByTransferID(ctx context.Context, transferID string) ([]*entryDatamodel.Entry, error)
	// SaveAll writes every row or none.
	SaveAll(ctx context.Context, rows []*entryDatamodel.Entry) error
	// DeleteByTransferID removes both halves of a transfer in one statement.
	DeleteByTransferID(ctx context.Context, transferID string) (int64, error)
}

// ProjectLookup resolves a project owned by the user or fails with NOT_FOUND.
type ProjectLookup interface {
	Get(ctx context.Context, userID, id int64) (*project.Project, error)
}

// CategoryRegistry records custom category names as entries use them.
type CategoryRegistry interface {
	EnsureRegistered(ctx context.Context, userID int64, entryType, name string) error
}

type Service struct {
	repo       RepositoryAPI
	projects   ProjectLookup
	categories CategoryRegistry
	publisher  events.Publisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo RepositoryAPI, projects ProjectLookup, categories CategoryRegistry, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		projects:   projects,
		categories: categories,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) AddEntry(ctx context.Context, userID int64, dto AddEntryDTO) (*Entry, error) {
	e := &Entry{
		UserID:      userID,
		ProjectID:   dto.ProjectID,
		Type:        dto.Type,
		Amount:      dto.Amount,
		Category:    dto.Category,
		Description: dto.Description,
	}
	if dto.Date != nil {
		e.Date = *dto.Date
	}
	NormalizeEntry(e, s.now())
	if appErr := ValidateEntry(e); appErr != nil {
		return nil, appErr
	}

	if _, err := s.projects.Get(ctx, userID, e.ProjectID); err != nil {
		return nil, err
	}

	row := ToDataModel(e)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create entry", "error", err, "user_id", userID, "project_id", e.ProjectID)
		return nil, errors.NewInternalError("failed to create entry", err)
	}
	s.register(ctx, e)

	s.logger.Info("entry created",
		"entry_id", row.ID,
		"user_id", userID,
		"project_id", row.ProjectID,
		"type", row.Type,
		"amount", row.Amount)
	s.publish(ctx, events.NewEntryCreatedEvent(row.ID, userID, row.ProjectID, row.Type, row.Amount, row.Category))

	return FromDataModel(row), nil
}

// UpdateEntry patches type, amount, category, description and date. Entries of
// another user read as not found. A transfer half keeps its type and category,
// and an amount or date change is applied to both halves in one write.
func (s *Service) UpdateEntry(ctx context.Context, userID, id int64, dto UpdateEntryDTO) (*Entry, error) {
	if dto.IsEmpty() {
		return nil, errors.NewValidationError("no fields to update", errors.ErrCodeValidationFailed)
	}

	e, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if e.IsTransferHalf() {
		return s.updateTransferHalf(ctx, e, dto)
	}

	applyPatch(e, dto)
	NormalizeEntry(e, s.now())
	if appErr := ValidateEntry(e); appErr != nil {
		return nil, appErr
	}

	row := ToDataModel(e)
	if err := s.repo.Save(ctx, row); err != nil {
		s.logger.Error("failed to update entry", "error", err, "entry_id", id)
		return nil, errors.NewInternalError("failed to update entry", err)
	}

	if dto.Type != nil || dto.Category != nil {
		s.register(ctx, e)
	}

	s.logger.Info("entry updated", "entry_id", id, "user_id", e.UserID)
	return FromDataModel(row), nil
}

func (s *Service) updateTransferHalf(ctx context.Context, e *Entry, dto UpdateEntryDTO) (*Entry, error) {
	if dto.Type != nil && *dto.Type != e.Type {
		return nil, errors.NewValidationFieldError("type", "a transfer entry keeps its type", errors.ErrCodeTransferPair)
	}
	if dto.Category != nil && *dto.Category != e.Category {
		return nil, errors.NewValidationFieldError("category", "a transfer entry keeps its category", errors.ErrCodeTransferPair)
	}

	pairChange := dto.Amount != nil || dto.Date != nil
	if pairChange && e.TransferID == nil {
		return nil, errors.ErrTransferPairUnlinked
	}

	rows := []*entryDatamodel.Entry{ToDataModel(e)}
	if pairChange {
		var err error
		rows, err = s.repo.ListByTransferID(ctx, *e.TransferID)
		if err != nil {
			s.logger.Error("failed to load transfer pair", "error", err, "entry_id", e.ID)
			return nil, errors.NewInternalError("failed to update entry", err)
		}
		if len(rows) != 2 {
			return nil, errors.ErrTransferPairUnlinked
		}
	}

	var updated *entryDatamodel.Entry
	now := s.now()
	for i, row := range rows {
		half := FromDataModel(row)
		if half.ID == e.ID {
			applyPatch(half, dto)
		} else {
			applyPatch(half, UpdateEntryDTO{Amount: dto.Amount, Date: dto.Date})
		}
		NormalizeEntry(half, now)
		if appErr := ValidateEntry(half); appErr != nil {
			return nil, appErr
		}
		rows[i] = ToDataModel(half)
		if half.ID == e.ID {
			updated = rows[i]
		}
	}

	if err := s.repo.SaveAll(ctx, rows); err != nil {
		s.logger.Error("failed to update transfer", "error", err, "entry_id", e.ID)
		return nil, errors.NewInternalError("failed to update entry", err)
	}

	s.logger.Info("transfer entry updated", "entry_id", e.ID, "user_id", e.UserID, "rows", len(rows))
	return FromDataModel(updated), nil
}

// DeleteEntry removes an entry. Deleting either half of a linked transfer
// removes both halves together; an unlinked transfer income is refused.
func (s *Service) DeleteEntry(ctx context.Context, userID, id int64) error {
	e, err := s.get(ctx, userID, id)
	if err != nil {
		return err
	}
	if e.IsTransferHalf() {
		return s.deleteTransfer(ctx, e)
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete entry", "error", err, "entry_id", id)
		return errors.NewInternalError("failed to delete entry", err)
	}
	if !removed {
		return errors.ErrEntryNotFound
	}

	s.logger.Info("entry deleted", "entry_id", id, "user_id", e.UserID)
	s.publish(ctx, events.NewEntryDeletedEvent(id, e.UserID, e.ProjectID))
	return nil
}

func (s *Service) deleteTransfer(ctx context.Context, e *Entry) error {
	if e.TransferID == nil {
		return errors.ErrTransferPairUnlinked
	}

	rows, err := s.repo.ListByTransferID(ctx, *e.TransferID)
	if err != nil {
		s.logger.Error("failed to load transfer pair", "error", err, "entry_id", e.ID)
		return errors.NewInternalError("failed to delete entry", err)
	}

	removed, err := s.repo.DeleteByTransferID(ctx, *e.TransferID)
	if err != nil {
		s.logger.Error("failed to delete transfer", "error", err, "entry_id", e.ID, "transfer_id", *e.TransferID)
		return errors.NewInternalError("failed to delete entry", err)
	}
	if removed == 0 {
		return errors.ErrEntryNotFound
	}

	s.logger.Info("transfer deleted", "entry_id", e.ID, "user_id", e.UserID, "transfer_id", *e.TransferID, "rows", removed)
	for _, row := range rows {
		s.publish(ctx, events.NewEntryDeletedEvent(row.ID, row.UserID, row.ProjectID))
	}
	return nil
}

func applyPatch(e *Entry, dto UpdateEntryDTO) {
	if dto.Type != nil {
		e.Type = *dto.Type
	}
	if dto.Amount != nil {
		e.Amount = *dto.Amount
	}
	if dto.Category != nil {
		e.Category = *dto.Category
	}
	if dto.Description != nil {
		e.Description = *dto.Description
	}
	if dto.Date != nil {
		e.Date = *dto.Date
	}
}

// register records the entry's category once the entry itself is stored. A
// failure here does not undo the write.
func (s *Service) register(ctx context.Context, e *Entry) {
	if err := s.categories.EnsureRegistered(ctx, e.UserID, e.Type, e.Category); err != nil {
		s.logger.Warn("failed to register category", "error", err, "user_id", e.UserID, "category", e.Category)
	}
}

// ListEntries returns a project's entries, newest first.
func (s *Service) ListEntries(ctx context.Context, userID, projectID int64) ([]*Entry, error) {
	v := validation.NewValidator()
	v.Field("user_id", userID).Required()
	v.Field("project_id", projectID).Required()
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	rows, err := s.repo.ListByProject(ctx, userID, projectID)
	if err != nil {
		s.logger.Error("failed to list entries", "error", err, "user_id", userID, "project_id", projectID)
		return nil, errors.NewInternalError("failed to list entries", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) get(ctx context.Context, userID, id int64) (*Entry, error) {
	v := validation.NewValidator()
	v.Field("entry_id", id).Required()
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to get entry", err)
	}
	if row == nil || (userID != 0 && row.UserID != userID) {
		return nil, errors.ErrEntryNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", "event_type", e.EventType(), "error", err)
	}
}
