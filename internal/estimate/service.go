package estimate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	errors "github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/core/common/validation"
	estimateDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/estimate"
	projectDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/project"
)

type RepositoryAPI interface {
	// Create stores the estimate with its items in one transaction.
	Create(ctx context.Context, estimate *estimateDatamodel.Estimate) error
	// GetByID returns (nil, nil) when the estimate does not exist for the user.
	GetByID(ctx context.Context, userID, id int64) (*estimateDatamodel.Estimate, error)
	// List filters by project when projectID is non-zero.
	List(ctx context.Context, userID, projectID int64) ([]*estimateDatamodel.Estimate, error)
	SetProject(ctx context.Context, userID, id, projectID int64) error
}

// ProjectLookup is satisfied by the project repository.
type ProjectLookup interface {
	GetByID(ctx context.Context, userID, id int64) (*projectDatamodel.Project, error)
}

type Service struct {
	repo     RepositoryAPI
	projects ProjectLookup
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo RepositoryAPI, projects ProjectLookup, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		projects: projects,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) Create(ctx context.Context, userID int64, dto CreateEstimateDTO) (*Estimate, error) {
	e := &Estimate{
		UserID:        userID,
		DocumentType:  strings.TrimSpace(dto.DocumentType),
		ClientName:    strings.TrimSpace(dto.ClientName),
		ClientEmail:   strings.TrimSpace(dto.ClientEmail),
		ClientPhone:   strings.TrimSpace(dto.ClientPhone),
		ClientAddress: strings.TrimSpace(dto.ClientAddress),
		DiscountType:  strings.TrimSpace(dto.DiscountType),
		DiscountValue: dto.DiscountValue,
	}
	if e.DocumentType == "" {
		e.DocumentType = estimateDatamodel.DocumentInvoice
	}
	if e.DiscountType == "" {
		e.DiscountType = DiscountAmount
	}
	for _, it := range dto.Items {
		item := &Item{
			Particular:   strings.TrimSpace(it.Particular),
			Description:  strings.TrimSpace(it.Description),
			Unit:         strings.TrimSpace(it.Unit),
			Quantity:     1,
			PricePerUnit: it.PricePerUnit,
		}
		if it.Quantity != nil {
			item.Quantity = *it.Quantity
		}
		if item.Unit == UnitSquareFeet {
			item.Width = it.Width
			item.Height = it.Height
		}
		e.Items = append(e.Items, item)
	}

	if appErr := validate(userID, e); appErr != nil {
		return nil, appErr
	}

	ComputeTotals(e)
	if e.FinalAmount < 0 {
		return nil, errors.NewValidationFieldError("discount_value", "discount cannot exceed the grand total", errors.ErrCodeInvalidDiscount)
	}

	if dto.ProjectID != nil && *dto.ProjectID != 0 {
		if err := s.requireProject(ctx, userID, *dto.ProjectID); err != nil {
			return nil, err
		}
		projectID := *dto.ProjectID
		e.ProjectID = &projectID
	}

	now := s.now()
	e.BillNumber = BillNumber(now)
	e.Date = now
	if dto.Date != nil {
		e.Date = *dto.Date
	}

	row := ToDataModel(e)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create estimate", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to create estimate", err)
	}

	s.logger.Info("estimate created",
		"estimate_id", row.ID,
		"bill_number", row.BillNumber,
		"user_id", userID,
		"final_amount", row.FinalAmount)
	return FromDataModel(row), nil
}

func validate(userID int64, e *Estimate) *errors.AppError {
	v := validation.NewValidator()
	v.Field("user_id", userID).Required()
	v.Field("client_name", e.ClientName).Required().MaxLength(200)
	v.Field("document_type", e.DocumentType).OneOf(errors.ErrCodeValidationFailed, estimateDatamodel.DocumentTypes...)
	v.Field("discount_type", e.DiscountType).OneOf(errors.ErrCodeInvalidDiscount, estimateDatamodel.DiscountTypes...)
	v.Field("discount_value", e.DiscountValue).
		MinFloat(0, errors.ErrCodeInvalidDiscount).
		Custom(func(interface{}) *errors.AppError {
			if e.DiscountType == DiscountPercentage && e.DiscountValue > 100 {
				return errors.NewValidationFieldError("discount_value", "a percentage discount cannot exceed 100", errors.ErrCodeInvalidDiscount)
			}
			return nil
		})
	if e.ClientEmail != "" {
		v.Field("client_email", e.ClientEmail).Custom(func(interface{}) *errors.AppError {
			if err := checkmail.ValidateFormat(e.ClientEmail); err != nil {
				return errors.NewValidationFieldError("client_email", "invalid email format", errors.ErrCodeInvalidEmail)
			}
			return nil
		})
	}
	v.Field("items", int64(len(e.Items))).Required()

	for i, item := range e.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		v.Field(prefix+"particular", item.Particular).Required().MaxLength(200)
		v.Field(prefix+"unit", item.Unit).Required().OneOf(errors.ErrCodeInvalidUnit, estimateDatamodel.Units...)
		v.Field(prefix+"quantity", item.Quantity).Positive(errors.ErrCodeInvalidAmount)
		v.Field(prefix+"price_per_unit", item.PricePerUnit).MinFloat(0, errors.ErrCodeInvalidAmount)
		if item.Unit == UnitSquareFeet {
			v.Field(prefix+"width", item.Width).Required().Positive(errors.ErrCodeInvalidAmount)
			v.Field(prefix+"height", item.Height).Required().Positive(errors.ErrCodeInvalidAmount)
		}
	}
	return v.Validate()
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*Estimate, error) {
	v := validation.NewValidator()
	v.Field("estimate_id", id).Required()
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	row, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load estimate", err)
	}
	if row == nil {
		return nil, errors.ErrEstimateNotFound
	}
	return FromDataModel(row), nil
}

// List returns the user's estimates, newest first, optionally for one project.
func (s *Service) List(ctx context.Context, userID, projectID int64) ([]*Estimate, error) {
	rows, err := s.repo.List(ctx, userID, projectID)
	if err != nil {
		s.logger.Error("failed to list estimates", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to list estimates", err)
	}
	estimates := make([]*Estimate, 0, len(rows))
	for _, row := range rows {
		estimates = append(estimates, FromDataModel(row))
	}
	return estimates, nil
}

func (s *Service) FinalAmount(ctx context.Context, userID, id int64) (float64, error) {
	e, err := s.Get(ctx, userID, id)
	if err != nil {
		return 0, err
	}
	return e.FinalAmount, nil
}

// AttachProject links the estimate to a project of the same user.
func (s *Service) AttachProject(ctx context.Context, userID, id, projectID int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.requireProject(ctx, userID, projectID); err != nil {
		return err
	}
	if err := s.repo.SetProject(ctx, userID, id, projectID); err != nil {
		s.logger.Error("failed to attach estimate", "error", err, "estimate_id", id, "project_id", projectID)
		return errors.NewInternalError("failed to attach estimate", err)
	}
	s.logger.Info("estimate attached", "estimate_id", id, "project_id", projectID, "user_id", userID)
	return nil
}

func (s *Service) requireProject(ctx context.Context, userID, projectID int64) error {
	p, err := s.projects.GetByID(ctx, userID, projectID)
	if err != nil {
		return errors.NewInternalError("failed to load project", err)
	}
	if p == nil {
		return errors.ErrProjectNotFound
	}
	return nil
}
