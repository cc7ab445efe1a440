package ledger

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/core/common/validation"
	"github.com/frahmantamala/interior-ledger/internal/core/events"
)

// CategoryRegistry records custom category names as the engine writes entries.
type CategoryRegistry interface {
	EnsureRegistered(ctx context.Context, userID int64, entryType, name string) error
}

type Service struct {
	store       Store
	categories  CategoryRegistry
	publisher   events.Publisher
	logger      *slog.Logger
	currency    string
	recentLimit int
	now         func() time.Time
	newBatchID  func() string
}

type Option func(*Service)

func WithCurrency(currency string) Option {
	return func(s *Service) { s.currency = currency }
}

func WithRecentLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recentLimit = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithBatchIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newBatchID = gen }
}

func NewService(store Store, categories CategoryRegistry, publisher events.Publisher, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:       store,
		categories:  categories,
		publisher:   publisher,
		logger:      logger,
		recentLimit: 10,
		now:         time.Now,
		newBatchID:  newBatchID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", "event_type", e.EventType(), "error", err)
	}
}

func requireKeys(userID, projectID int64) *errors.AppError {
	v := validation.NewValidator()
	v.Field("user_id", userID).Required()
	v.Field("project_id", projectID).Required()
	return v.Validate()
}

func requireUser(userID int64) *errors.AppError {
	v := validation.NewValidator()
	v.Field("user_id", userID).Required()
	return v.Validate()
}
