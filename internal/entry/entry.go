package entry

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/core/common/validation"
	entryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/entry"
)

const (
	TypeIncome  = entryDatamodel.TypeIncome
	TypeExpense = entryDatamodel.TypeExpense

	// TransferExpenseCategory marks the funding side of a cross-project transfer.
	TransferExpenseCategory = "Project Payment"
	SharedExpenseLabel      = "Shared Expense"
)

type Entry struct {
	ID                       int64     `json:"id"`
	UserID                   int64     `json:"user_id"`
	ProjectID                int64     `json:"project_id"`
	Type                     string    `json:"type"`
	Amount                   float64   `json:"amount"`
	Category                 string    `json:"category"`
	Description              string    `json:"description"`
	Date                     time.Time `json:"date"`
	IsSharedExpense          bool      `json:"is_shared_expense"`
	OriginalAmount           *float64  `json:"original_amount,omitempty"`
	SharedBatchID            *string   `json:"shared_batch_id,omitempty"`
	IsIncomeFromOtherProject bool      `json:"is_income_from_other_project"`
	SourceProjectID          *int64    `json:"source_project_id,omitempty"`
	TransferID               *string   `json:"transfer_id,omitempty"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

func (e *Entry) IsIncome() bool {
	return e.Type == TypeIncome
}

func (e *Entry) IsExpense() bool {
	return e.Type == TypeExpense
}

// IsTransferHalf reports whether the entry is either side of a cross-project
// transfer, linked or not.
func (e *Entry) IsTransferHalf() bool {
	return e.TransferID != nil || e.IsIncomeFromOtherProject
}

// NormalizeEntry runs on every write before persistence: it trims text, defaults
// the date and drops fields that only make sense for the other origin.
func NormalizeEntry(e *Entry, now time.Time) {
	e.Type = strings.TrimSpace(e.Type)
	e.Category = strings.TrimSpace(e.Category)
	e.Description = strings.TrimSpace(e.Description)
	if e.Date.IsZero() {
		e.Date = now
	}
	if !e.IsSharedExpense {
		e.OriginalAmount = nil
		e.SharedBatchID = nil
	}
	if !e.IsIncomeFromOtherProject {
		e.SourceProjectID = nil
	}
}

// ValidateEntry checks the required keys, the single-origin rule and that an
// origin flag agrees with the entry type.
func ValidateEntry(e *Entry) *errors.AppError {
	v := validation.NewValidator()
	v.Field("user_id", e.UserID).Required()
	v.Field("project_id", e.ProjectID).Required()
	v.Field("type", e.Type).Required().OneOf(errors.ErrCodeInvalidType, entryDatamodel.Types...)
	v.Field("amount", e.Amount).Required().Positive(errors.ErrCodeInvalidAmount)
	v.Field("category", e.Category).Required().MaxLength(100)
	v.Field("description", e.Description).MaxLength(1000)
	v.Field("origin", e).Custom(func(interface{}) *errors.AppError {
		if e.IsSharedExpense && e.IsIncomeFromOtherProject {
			return errors.NewValidationFieldError("origin", "an entry cannot be both a shared expense and a transfer", errors.ErrCodeInvalidOrigin)
		}
		if e.IsIncomeFromOtherProject && (e.SourceProjectID == nil || *e.SourceProjectID == 0) {
			return errors.NewValidationFieldError("source_project_id", "transfer income needs a source project", errors.ErrCodeInvalidOrigin)
		}
		if e.IsIncomeFromOtherProject && e.Type != TypeIncome {
			return errors.NewValidationFieldError("type", "transfer income must stay an Income", errors.ErrCodeInvalidOrigin)
		}
		if e.IsSharedExpense && e.Type != TypeExpense {
			return errors.NewValidationFieldError("type", "a shared expense must stay an Expense", errors.ErrCodeInvalidOrigin)
		}
		return nil
	})
	return v.Validate()
}

func ToDataModel(e *Entry) *entryDatamodel.Entry {
	return &entryDatamodel.Entry{
		ID:                       e.ID,
		UserID:                   e.UserID,
		ProjectID:                e.ProjectID,
		Type:                     e.Type,
		Amount:                   e.Amount,
		Category:                 e.Category,
		Description:              e.Description,
		Date:                     e.Date,
		IsSharedExpense:          e.IsSharedExpense,
		OriginalAmount:           e.OriginalAmount,
		SharedBatchID:            e.SharedBatchID,
		IsIncomeFromOtherProject: e.IsIncomeFromOtherProject,
		SourceProjectID:          e.SourceProjectID,
		TransferID:               e.TransferID,
		CreatedAt:                e.CreatedAt,
		UpdatedAt:                e.UpdatedAt,
	}
}

func FromDataModel(e *entryDatamodel.Entry) *Entry {
	return &Entry{
		ID:                       e.ID,
		UserID:                   e.UserID,
		ProjectID:                e.ProjectID,
		Type:                     e.Type,
		Amount:                   e.Amount,
		Category:                 e.Category,
		Description:              e.Description,
		Date:                     e.Date,
		IsSharedExpense:          e.IsSharedExpense,
		OriginalAmount:           e.OriginalAmount,
		SharedBatchID:            e.SharedBatchID,
		IsIncomeFromOtherProject: e.IsIncomeFromOtherProject,
		SourceProjectID:          e.SourceProjectID,
		TransferID:               e.TransferID,
		CreatedAt:                e.CreatedAt,
		UpdatedAt:                e.UpdatedAt,
	}
}

func FromDataModels(rows []*entryDatamodel.Entry) []*Entry {
	entries := make([]*Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, FromDataModel(row))
	}
	return entries
}
