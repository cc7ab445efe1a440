package user

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/interior-ledger/internal"
	userDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	// Create maps unique violations on username or email to ErrDuplicateUser.
	Create(ctx context.Context, user *userDatamodel.User) error
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

type Service struct {
	repo       RepositoryAPI
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, bcryptCost int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*User, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	taken, err := s.repo.ExistsByUsernameOrEmail(ctx, dto.Username, dto.Email)
	if err != nil {
		return nil, errors.NewInternalError("failed to check existing users", err)
	}
	if taken {
		return nil, errors.ErrDuplicateUser
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	model := &userDatamodel.User{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, model); err != nil {
		if _, ok := errors.IsAppError(err); ok {
			return nil, err
		}
		return nil, errors.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user registered", "user_id", model.ID, "username", model.Username)
	return FromDataModel(model), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	model, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to get user", err)
	}
	if model == nil {
		return nil, errors.ErrUserNotFound
	}
	return FromDataModel(model), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	model, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewInternalError("failed to get user", err)
	}
	if model == nil {
		return nil, errors.ErrUserNotFound
	}
	return FromDataModel(model), nil
}
