package project

import (
	"context"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/core/common/validation"
	projectDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/project"
	"github.com/frahmantamala/interior-ledger/internal/core/events"
)

type RepositoryAPI interface {
	Create(ctx context.Context, project *projectDatamodel.Project) error
	// GetByID returns (nil, nil) when the project does not exist for the user.
	GetByID(ctx context.Context, userID, id int64) (*projectDatamodel.Project, error)
	FindByName(ctx context.Context, userID int64, name string) (*projectDatamodel.Project, error)
	// ListByUser filters by status when status is non-empty.
	ListByUser(ctx context.Context, userID int64, status string) ([]*projectDatamodel.Project, error)
	UpdateFields(ctx context.Context, userID, id int64, fields map[string]interface{}) error
	// DeleteCascade removes the project with its entries and bills in one transaction,
	// together with the other half of every transfer it took part in, and reports
	// how many entries went with it.
	DeleteCascade(ctx context.Context, userID, id int64) (int64, error)
}

// EstimateSource is the part of the estimate service a project needs to adopt
// an estimate's final amount as its budget.
type EstimateSource interface {
	FinalAmount(ctx context.Context, userID, id int64) (float64, error)
	AttachProject(ctx context.Context, userID, id, projectID int64) error
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	estimates EstimateSource
	logger    *slog.Logger
}

type Option func(*Service)

func WithEstimates(src EstimateSource) Option {
	return func(s *Service) { s.estimates = src }
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, userID int64, dto CreateProjectDTO) (*Project, error) {
	p := &Project{
		UserID:      userID,
		Name:        dto.Name,
		Description: dto.Description,
		Status:      dto.Status,
	}
	if dto.Budget != nil {
		p.Budget = *dto.Budget
	}
	NormalizeProject(p)

	v := validation.NewValidator()
	v.Field("user_id", userID).Required()
	v.Field("name", p.Name).Required().MaxLength(200)
	v.Field("budget", p.Budget).MinFloat(0, errors.ErrCodeInvalidBudget)
	v.Field("status", p.Status).OneOf(errors.ErrCodeInvalidStatus, projectDatamodel.Statuses...)
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	row := ToDataModel(p)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create project", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to create project", err)
	}

	s.logger.Info("project created", "project_id", row.ID, "user_id", userID, "budget", row.Budget)
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]*Project, error) {
	return s.list(ctx, userID, "")
}

// ListInProgress is the eligible set for shared-expense distribution.
func (s *Service) ListInProgress(ctx context.Context, userID int64) ([]*Project, error) {
	return s.list(ctx, userID, StatusInProgress)
}

func (s *Service) list(ctx context.Context, userID int64, status string) ([]*Project, error) {
	if appErr := requireUser(userID); appErr != nil {
		return nil, appErr
	}
	rows, err := s.repo.ListByUser(ctx, userID, status)
	if err != nil {
		s.logger.Error("failed to list projects", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to list projects", err)
	}
	projects := make([]*Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, FromDataModel(row))
	}
	return projects, nil
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*Project, error) {
	v := validation.NewValidator()
	v.Field("user_id", userID).Required()
	v.Field("project_id", id).Required()
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	row, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		s.logger.Error("failed to get project", "error", err, "project_id", id)
		return nil, errors.NewInternalError("failed to get project", err)
	}
	if row == nil {
		return nil, errors.ErrProjectNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) FindByName(ctx context.Context, userID int64, name string) (*Project, error) {
	name = strings.TrimSpace(name)
	v := validation.NewValidator()
	v.Field("user_id", userID).Required()
	v.Field("name", name).Required()
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	row, err := s.repo.FindByName(ctx, userID, name)
	if err != nil {
		return nil, errors.NewInternalError("failed to find project", err)
	}
	if row == nil {
		return nil, errors.ErrProjectNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) UpdateBudget(ctx context.Context, userID, id int64, budget float64) (*Project, error) {
	if appErr := validation.ValidateBudget(budget); appErr != nil {
		return nil, appErr
	}
	return s.update(ctx, userID, id, map[string]interface{}{"budget": budget})
}

// ConnectEstimate links an estimate to the project and adopts its final
// amount as the project budget.
func (s *Service) ConnectEstimate(ctx context.Context, userID, id, estimateID int64) (*Project, error) {
	v := validation.NewValidator()
	v.Field("estimate_id", estimateID).Required()
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}
	if s.estimates == nil {
		return nil, errors.NewInternalError("estimates are not configured", nil)
	}
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}

	finalAmount, err := s.estimates.FinalAmount(ctx, userID, estimateID)
	if err != nil {
		return nil, err
	}
	if appErr := validation.ValidateBudget(finalAmount); appErr != nil {
		return nil, appErr
	}
	if err := s.estimates.AttachProject(ctx, userID, estimateID, id); err != nil {
		return nil, err
	}

	p, err := s.update(ctx, userID, id, map[string]interface{}{"budget": finalAmount})
	if err != nil {
		return nil, err
	}
	s.logger.Info("estimate connected to project", "project_id", id, "estimate_id", estimateID, "budget", finalAmount)
	return p, nil
}

func (s *Service) UpdateStatus(ctx context.Context, userID, id int64, status string) (*Project, error) {
	v := validation.NewValidator()
	v.Field("status", status).Required().OneOf(errors.ErrCodeInvalidStatus, projectDatamodel.Statuses...)
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}
	return s.update(ctx, userID, id, map[string]interface{}{"status": status})
}

func (s *Service) update(ctx context.Context, userID, id int64, fields map[string]interface{}) (*Project, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	fields["updated_at"] = time.Now()
	if err := s.repo.UpdateFields(ctx, userID, id, fields); err != nil {
		s.logger.Error("failed to update project", "error", err, "project_id", id)
		return nil, errors.NewInternalError("failed to update project", err)
	}
	return s.Get(ctx, userID, id)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) (int64, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return 0, err
	}

	deleted, err := s.repo.DeleteCascade(ctx, userID, id)
	if err != nil {
		s.logger.Error("failed to delete project", "error", err, "project_id", id)
		return 0, errors.NewInternalError("failed to delete project", err)
	}

	s.logger.Info("project deleted", "project_id", id, "user_id", userID, "deleted_entries", deleted)
	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.NewProjectDeletedEvent(userID, id, deleted))
	}
	return deleted, nil
}

func requireUser(userID int64) *errors.AppError {
	v := validation.NewValidator()
	v.Field("user_id", userID).Required()
	return v.Validate()
}
