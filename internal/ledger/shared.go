package ledger

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	errors "github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/core/common/validation"
	entryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/entry"
	projectDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/project"
	"github.com/frahmantamala/interior-ledger/internal/core/events"
	"github.com/frahmantamala/interior-ledger/internal/entry"
	"github.com/google/uuid"
)

func newBatchID() string {
	return uuid.New().String()
}

// DistributeSharedExpense splits amount evenly over the user's in-progress
// projects, one Expense each. Division is plain float; cent drift is accepted.
func (s *Service) DistributeSharedExpense(ctx context.Context, userID int64, dto SharedExpenseDTO) (*SharedExpenseResult, error) {
	dto.Category = strings.TrimSpace(dto.Category)
	dto.Description = strings.TrimSpace(dto.Description)

	v := validation.NewValidator()
	v.Field("user_id", userID).Required()
	v.Field("amount", dto.Amount).Required().Positive(errors.ErrCodeInvalidAmount)
	v.Field("category", dto.Category).Required().MaxLength(100)
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	projects, err := s.store.ListProjects(ctx, userID, projectDatamodel.StatusInProgress)
	if err != nil {
		return nil, errors.NewInternalError("failed to load projects", err)
	}
	if len(projects) == 0 {
		return nil, errors.ErrNoEligibleProjects
	}

	description := entry.SharedExpenseLabel
	if dto.Description != "" {
		description = fmt.Sprintf("%s (%s)", dto.Description, entry.SharedExpenseLabel)
	}

	now := s.now()
	batchID := s.newBatchID()
	original := dto.Amount
	distributed := dto.Amount / float64(len(projects))

	rows := make([]*entryDatamodel.Entry, 0, len(projects))
	for _, p := range projects {
		e := &entry.Entry{
			UserID:          userID,
			ProjectID:       p.ID,
			Type:            entry.TypeExpense,
			Amount:          distributed,
			Category:        dto.Category,
			Description:     description,
			IsSharedExpense: true,
			OriginalAmount:  &original,
			SharedBatchID:   &batchID,
		}
		if dto.Date != nil {
			e.Date = *dto.Date
		}
		entry.NormalizeEntry(e, now)
		if appErr := entry.ValidateEntry(e); appErr != nil {
			return nil, appErr
		}
		rows = append(rows, entry.ToDataModel(e))
	}

	if err := s.writeShares(ctx, batchID, rows); err != nil {
		s.logger.Error("shared expense distribution failed", "user_id", userID, "batch_id", batchID, "error", err)
		return nil, err
	}

	// The category is only registered once the shares are stored.
	if err := s.categories.EnsureRegistered(ctx, userID, entry.TypeExpense, dto.Category); err != nil {
		s.logger.Warn("failed to register shared expense category", "user_id", userID, "category", dto.Category, "error", err)
	}

	projectIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		projectIDs = append(projectIDs, row.ProjectID)
	}
	s.logger.Info("shared expense distributed",
		"user_id", userID,
		"batch_id", batchID,
		"original_amount", original,
		"project_count", len(rows))
	s.publish(ctx, events.NewSharedExpenseDistributedEvent(userID, batchID, original, distributed, projectIDs))

	return &SharedExpenseResult{
		BatchID:           batchID,
		OriginalAmount:    original,
		DistributedAmount: distributed,
		ProjectCount:      len(rows),
		Entries:           entry.FromDataModels(rows),
	}, nil
}

func (s *Service) writeShares(ctx context.Context, batchID string, rows []*entryDatamodel.Entry) error {
	failure := DistributionFailure{BatchID: batchID, CreatedProjectIDs: []int64{}}

	if tx, ok := s.store.(Transactor); ok {
		err := tx.WithinTx(ctx, func(store Store) error {
			for _, row := range rows {
				if err := store.CreateEntry(ctx, row); err != nil {
					failure.FailedProjectID = row.ProjectID
					return err
				}
			}
			return nil
		})
		if err != nil {
			failure.RolledBack = true
			return errors.NewPartialWriteError("shared expense was not recorded",
				errors.ErrCodePartialDistribution, failure, err)
		}
		return nil
	}

	for _, row := range rows {
		if err := s.store.CreateEntry(ctx, row); err != nil {
			failure.FailedProjectID = row.ProjectID
			return errors.NewPartialWriteError("shared expense was recorded for some projects only",
				errors.ErrCodePartialDistribution, failure, err)
		}
		failure.CreatedProjectIDs = append(failure.CreatedProjectIDs, row.ProjectID)
	}
	return nil
}

// SharedExpenseGroups rebuilds logical splits: by batch id when stored, else by
// (date, original amount, category). Distinct splits sharing that key merge.
func (s *Service) SharedExpenseGroups(ctx context.Context, userID int64) ([]*SharedExpenseGroup, error) {
	if appErr := requireUser(userID); appErr != nil {
		return nil, appErr
	}

	rows, err := s.store.FindEntries(ctx, EntryFilter{UserID: userID, SharedOnly: true})
	if err != nil {
		return nil, errors.NewInternalError("failed to load shared expenses", err)
	}
	return groupShared(entry.FromDataModels(rows)), nil
}

func sharedKey(e *entry.Entry) string {
	if e.SharedBatchID != nil && *e.SharedBatchID != "" {
		return "batch:" + *e.SharedBatchID
	}
	original := e.Amount
	if e.OriginalAmount != nil {
		original = *e.OriginalAmount
	}
	return strings.Join([]string{
		e.Date.UTC().Format(time.RFC3339Nano),
		strconv.FormatFloat(original, 'f', -1, 64),
		e.Category,
	}, "|")
}

func groupShared(entries []*entry.Entry) []*SharedExpenseGroup {
	byKey := make(map[string]*SharedExpenseGroup)
	var order []string
	for _, e := range entries {
		if !e.IsSharedExpense {
			continue
		}
		key := sharedKey(e)
		g, ok := byKey[key]
		if !ok {
			g = &SharedExpenseGroup{
				Date:              e.Date,
				Category:          e.Category,
				Description:       e.Description,
				DistributedAmount: e.Amount,
				OriginalAmount:    e.Amount,
			}
			if e.SharedBatchID != nil {
				g.BatchID = *e.SharedBatchID
			}
			if e.OriginalAmount != nil {
				g.OriginalAmount = *e.OriginalAmount
			}
			byKey[key] = g
			order = append(order, key)
		}
		g.ProjectIDs = append(g.ProjectIDs, e.ProjectID)
		g.Entries = append(g.Entries, e)
	}

	groups := make([]*SharedExpenseGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, byKey[key])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date.After(groups[j].Date)
	})
	return groups
}
