package category

import (
	"context"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/core/common/validation"
	categoryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/category"
	entryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/entry"
)

type RepositoryAPI interface {
	ListByUser(ctx context.Context, userID int64) ([]*categoryDatamodel.Category, error)
	Exists(ctx context.Context, userID int64, entryType, name string) (bool, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	// CreateIfNotExists inserts the row unless the (user, type, name) triple is taken.
	CreateIfNotExists(ctx context.Context, category *categoryDatamodel.Category) error
}

type Service struct {
	repo     RepositoryAPI
	builtins Builtins
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, builtins Builtins, logger *slog.Logger) *Service {
	if builtins == nil {
		builtins = DefaultBuiltins
	}
	return &Service{
		repo:     repo,
		builtins: builtins,
		logger:   logger,
	}
}

func validateKey(userID int64, entryType, name string) *errors.AppError {
	v := validation.NewValidator()
	v.Field("user_id", userID).Required()
	v.Field("type", entryType).Required().OneOf(errors.ErrCodeInvalidType, entryDatamodel.Types...)
	v.Field("category", name).Required().MaxLength(100)
	return v.Validate()
}

// ListCategories returns only the user's custom categories.
func (s *Service) ListCategories(ctx context.Context, userID int64) (*CategoriesResponse, error) {
	if appErr := validateUser(userID); appErr != nil {
		return nil, appErr
	}

	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list categories", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to list categories", err)
	}

	resp := &CategoriesResponse{Expense: []string{}, Income: []string{}}
	for _, row := range rows {
		switch row.Type {
		case entryDatamodel.TypeExpense:
			resp.Expense = append(resp.Expense, row.Name)
		case entryDatamodel.TypeIncome:
			resp.Income = append(resp.Income, row.Name)
		}
	}
	return resp, nil
}

// ListAllCategories merges built-ins ahead of the user's custom names.
func (s *Service) ListAllCategories(ctx context.Context, userID int64) (*CategoriesResponse, error) {
	custom, err := s.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &CategoriesResponse{
		Expense: append(append([]string{}, s.builtins[entryDatamodel.TypeExpense]...), custom.Expense...),
		Income:  append(append([]string{}, s.builtins[entryDatamodel.TypeIncome]...), custom.Income...),
	}
	return resp, nil
}

func (s *Service) Register(ctx context.Context, userID int64, dto RegisterCategoryDTO) (*Category, error) {
	name := strings.TrimSpace(dto.Category)
	if appErr := validateKey(userID, dto.Type, name); appErr != nil {
		return nil, appErr
	}
	if s.builtins.Contains(dto.Type, name) {
		return nil, errors.NewValidationFieldError("category", "category is built in and cannot be registered", errors.ErrCodeInvalidCategory)
	}

	exists, err := s.repo.Exists(ctx, userID, dto.Type, name)
	if err != nil {
		s.logger.Error("failed to check category", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to register category", err)
	}
	if exists {
		return nil, errors.ErrDuplicateCategory
	}

	cat := NewCategory(userID, dto.Type, name)
	row := ToDataModel(cat)
	if err := s.repo.Create(ctx, row); err != nil {
		if appErr, ok := errors.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to create category", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to register category", err)
	}

	s.logger.Info("category registered", "user_id", userID, "type", dto.Type, "category", name)
	return FromDataModel(row), nil
}

// EnsureRegistered is the insert-or-ignore used by entry writes. Built-ins are a no-op.
func (s *Service) EnsureRegistered(ctx context.Context, userID int64, entryType, name string) error {
	name = strings.TrimSpace(name)
	if appErr := validateKey(userID, entryType, name); appErr != nil {
		return appErr
	}
	if s.builtins.Contains(entryType, name) {
		return nil
	}

	if err := s.repo.CreateIfNotExists(ctx, ToDataModel(NewCategory(userID, entryType, name))); err != nil {
		s.logger.Error("failed to ensure category", "user_id", userID, "category", name, "error", err)
		return errors.NewInternalError("failed to register category", err)
	}
	return nil
}

func (s *Service) IsBuiltin(entryType, name string) bool {
	return s.builtins.Contains(entryType, name)
}

func validateUser(userID int64) *errors.AppError {
	v := validation.NewValidator()
	v.Field("user_id", userID).Required()
	return v.Validate()
}
