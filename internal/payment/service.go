package payment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/core/common/validation"
	paymentBillDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/paymentbill"
	"github.com/frahmantamala/interior-ledger/internal/core/events"
	"github.com/frahmantamala/interior-ledger/internal/project"
)

type RepositoryAPI interface {
	Create(ctx context.Context, bill *paymentBillDatamodel.PaymentBill) error
	// GetByID returns (nil, nil) when the bill does not exist for the user.
	GetByID(ctx context.Context, userID, id int64) (*paymentBillDatamodel.PaymentBill, error)
	ListByProject(ctx context.Context, userID, projectID int64) ([]*paymentBillDatamodel.PaymentBill, error)
}

type ProjectLookup interface {
	Get(ctx context.Context, userID, id int64) (*project.Project, error)
}

// BudgetCalculator is the part of the ledger engine bills depend on.
type BudgetCalculator interface {
	RecognizedIncome(ctx context.Context, userID, projectID int64) (float64, error)
}

type Service struct {
	repo      RepositoryAPI
	projects  ProjectLookup
	budget    BudgetCalculator
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, projects ProjectLookup, budget BudgetCalculator, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		projects:  projects,
		budget:    budget,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate issues a receipt. The remaining amount is the project budget less
// recognized income, so transfers from other projects never reduce it.
func (s *Service) Generate(ctx context.Context, userID int64, dto GenerateBillDTO) (*Bill, error) {
	v := validation.NewValidator()
	v.Field("user_id", userID).Required()
	v.Field("project_id", dto.ProjectID).Required()
	v.Field("amount_received", dto.AmountReceived).Required().Positive(errors.ErrCodeInvalidAmount)
	v.Field("notes", dto.Notes).MaxLength(1000)
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	p, err := s.projects.Get(ctx, userID, dto.ProjectID)
	if err != nil {
		return nil, err
	}

	recognized, err := s.budget.RecognizedIncome(ctx, userID, p.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	bill := &Bill{
		BillNumber:      BillNumber(now),
		UserID:          userID,
		ProjectID:       p.ID,
		AmountReceived:  dto.AmountReceived,
		RemainingAmount: p.Budget - recognized,
		Notes:           strings.TrimSpace(dto.Notes),
		Date:            now,
	}
	if dto.Date != nil {
		bill.Date = *dto.Date
	}

	row := ToDataModel(bill)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create payment bill", "error", err, "project_id", p.ID, "user_id", userID)
		return nil, errors.NewInternalError("failed to create payment bill", err)
	}

	s.logger.Info("payment bill generated",
		"bill_number", row.BillNumber,
		"project_id", p.ID,
		"user_id", userID,
		"remaining_amount", row.RemainingAmount)

	if s.publisher != nil {
		event := events.NewPaymentBillGeneratedEvent(userID, p.ID, row.BillNumber, row.AmountReceived, row.RemainingAmount)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish payment bill event", "error", err)
		}
	}

	return FromDataModel(row), nil
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*Bill, error) {
	row, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load payment bill", err)
	}
	if row == nil {
		return nil, errors.ErrPaymentBillNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) ListByProject(ctx context.Context, userID, projectID int64) ([]*Bill, error) {
	v := validation.NewValidator()
	v.Field("user_id", userID).Required()
	v.Field("project_id", projectID).Required()
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	rows, err := s.repo.ListByProject(ctx, userID, projectID)
	if err != nil {
		return nil, errors.NewInternalError("failed to list payment bills", err)
	}

	bills := make([]*Bill, 0, len(rows))
	for _, row := range rows {
		bills = append(bills, FromDataModel(row))
	}
	return bills, nil
}

// Receipt gathers a bill with its project and current budget figures.
func (s *Service) Receipt(ctx context.Context, userID, id int64) (*Receipt, error) {
	bill, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	p, err := s.projects.Get(ctx, userID, bill.ProjectID)
	if err != nil {
		return nil, err
	}
	recognized, err := s.budget.RecognizedIncome(ctx, userID, p.ID)
	if err != nil {
		return nil, err
	}
	return &Receipt{
		Bill:             bill,
		Project:          p,
		RecognizedIncome: recognized,
		RemainingBudget:  p.Budget - recognized,
	}, nil
}
