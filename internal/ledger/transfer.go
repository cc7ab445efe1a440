package ledger

import (
	"context"
	"fmt"
	"strings"

	errors "github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/core/common/validation"
	entryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/entry"
	"github.com/frahmantamala/interior-ledger/internal/core/events"
	"github.com/frahmantamala/interior-ledger/internal/entry"
)

// TransferIncome moves money from a named source project into the current one
// as a pair: Income on current, Expense ("Project Payment") on source, same
// amount and date. The pair lands together or not at all.
func (s *Service) TransferIncome(ctx context.Context, userID int64, dto TransferDTO) (*TransferResult, error) {
	dto.SourceProjectName = strings.TrimSpace(dto.SourceProjectName)

	v := validation.NewValidator()
	v.Field("user_id", userID).Required()
	v.Field("current_project_id", dto.CurrentProjectID).Required()
	v.Field("source_project_name", dto.SourceProjectName).Required()
	v.Field("amount", dto.Amount).Required().Positive(errors.ErrCodeInvalidAmount)
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	current, err := s.store.GetProject(ctx, userID, dto.CurrentProjectID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load project", err)
	}
	if current == nil {
		return nil, errors.ErrProjectNotFound
	}

	source, err := s.store.FindProjectByName(ctx, userID, dto.SourceProjectName)
	if err != nil {
		return nil, errors.NewInternalError("failed to load source project", err)
	}
	if source == nil {
		return nil, errors.ErrSourceProjectNotFound
	}
	if source.ID == current.ID {
		return nil, errors.NewValidationFieldError("source_project_name", "a project cannot transfer to itself", errors.ErrCodeSameProject)
	}

	now := s.now()
	sourceID := source.ID
	transferID := s.newBatchID()
	income := &entry.Entry{
		UserID:                   userID,
		ProjectID:                current.ID,
		Type:                     entry.TypeIncome,
		Amount:                   dto.Amount,
		Category:                 source.Name,
		Description:              dto.Description,
		IsIncomeFromOtherProject: true,
		SourceProjectID:          &sourceID,
		TransferID:               &transferID,
	}
	if dto.Date != nil {
		income.Date = *dto.Date
	}
	entry.NormalizeEntry(income, now)

	expense := &entry.Entry{
		UserID:      userID,
		ProjectID:   source.ID,
		Type:        entry.TypeExpense,
		Amount:      dto.Amount,
		Category:    entry.TransferExpenseCategory,
		Description: fmt.Sprintf("Payment to %s", current.Name),
		Date:        income.Date,
		TransferID:  &transferID,
	}
	entry.NormalizeEntry(expense, now)

	for _, e := range []*entry.Entry{income, expense} {
		if appErr := entry.ValidateEntry(e); appErr != nil {
			return nil, appErr
		}
	}

	incomeRow := entry.ToDataModel(income)
	expenseRow := entry.ToDataModel(expense)

	result, err := s.writeTransferPair(ctx, incomeRow, expenseRow)
	if err != nil {
		s.logger.Error("transfer failed",
			"user_id", userID,
			"current_project_id", current.ID,
			"source_project_id", source.ID,
			"outcome", result.Outcome,
			"error", err)
		return result, err
	}

	s.logger.Info("transfer completed",
		"user_id", userID,
		"current_project_id", current.ID,
		"source_project_id", source.ID,
		"amount", dto.Amount)
	s.publish(ctx, events.NewTransferCompletedEvent(userID, current.ID, source.ID, incomeRow.ID, expenseRow.ID, dto.Amount))

	return result, nil
}

func (s *Service) writeTransferPair(ctx context.Context, incomeRow, expenseRow *entryDatamodel.Entry) (*TransferResult, error) {
	if tx, ok := s.store.(Transactor); ok {
		stage := OutcomeFirstFailed
		err := tx.WithinTx(ctx, func(store Store) error {
			if err := store.CreateEntry(ctx, incomeRow); err != nil {
				return err
			}
			stage = OutcomeSecondFailedRolledBack
			if err := store.CreateEntry(ctx, expenseRow); err != nil {
				return err
			}
			stage = OutcomeCommitFailed
			return nil
		})
		if err != nil {
			details := TransferFailure{Outcome: stage}
			return &TransferResult{Outcome: stage},
				errors.NewInternalError("transfer was not recorded", err).WithDetails(details)
		}
		return &TransferResult{
			Outcome: OutcomeBothSucceeded,
			Income:  entry.FromDataModel(incomeRow),
			Expense: entry.FromDataModel(expenseRow),
		}, nil
	}

	if err := s.store.CreateEntry(ctx, incomeRow); err != nil {
		return &TransferResult{Outcome: OutcomeFirstFailed},
			errors.NewInternalError("transfer was not recorded", err).WithDetails(TransferFailure{Outcome: OutcomeFirstFailed})
	}

	if err := s.store.CreateEntry(ctx, expenseRow); err != nil {
		if delErr := s.store.DeleteEntry(ctx, incomeRow.ID); delErr != nil {
			details := TransferFailure{Outcome: OutcomeSecondFailedUncompensated, IncomeEntryID: incomeRow.ID}
			return &TransferResult{Outcome: OutcomeSecondFailedUncompensated, Income: entry.FromDataModel(incomeRow)},
				errors.NewPartialWriteError("transfer income was recorded without its paired expense",
					errors.ErrCodePartialTransfer, details, fmt.Errorf("%w; compensation: %v", err, delErr))
		}
		details := TransferFailure{Outcome: OutcomeSecondFailedCompensated, IncomeEntryID: incomeRow.ID}
		return &TransferResult{Outcome: OutcomeSecondFailedCompensated},
			errors.NewPartialWriteError("transfer expense failed and the income was removed",
				errors.ErrCodePartialTransfer, details, err)
	}

	return &TransferResult{
		Outcome: OutcomeBothSucceeded,
		Income:  entry.FromDataModel(incomeRow),
		Expense: entry.FromDataModel(expenseRow),
	}, nil
}

// VerifyTransferPairs lists transfer incomes that lack exactly one matching
// expense on their source project. Each expense can pair with one income only,
// and a linked income only pairs with the expense carrying its transfer id.
func (s *Service) VerifyTransferPairs(ctx context.Context, userID int64) ([]UnpairedTransfer, error) {
	if appErr := requireUser(userID); appErr != nil {
		return nil, appErr
	}

	rows, err := s.store.FindEntries(ctx, EntryFilter{UserID: userID})
	if err != nil {
		return nil, errors.NewInternalError("failed to load entries", err)
	}

	used := make(map[int64]bool)
	unpaired := []UnpairedTransfer{}
	for _, in := range rows {
		if in.Type != entry.TypeIncome || !in.IsIncomeFromOtherProject {
			continue
		}
		if in.SourceProjectID == nil {
			unpaired = append(unpaired, UnpairedTransfer{Income: entry.FromDataModel(in), Reason: "missing source project"})
			continue
		}

		var match *entryDatamodel.Entry
		for _, out := range rows {
			if used[out.ID] || out.Type != entry.TypeExpense || out.ProjectID != *in.SourceProjectID {
				continue
			}
			if out.Category != entry.TransferExpenseCategory || out.Amount != in.Amount || !out.Date.Equal(in.Date) {
				continue
			}
			if in.TransferID != nil && (out.TransferID == nil || *out.TransferID != *in.TransferID) {
				continue
			}
			match = out
			break
		}
		if match == nil {
			unpaired = append(unpaired, UnpairedTransfer{Income: entry.FromDataModel(in), Reason: "no matching expense on source project"})
			continue
		}
		used[match.ID] = true
	}
	return unpaired, nil
}
