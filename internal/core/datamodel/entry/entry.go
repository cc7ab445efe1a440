package entry

import "time"

const (
	TypeIncome  = "Income"
	TypeExpense = "Expense"
)

var Types = []string{TypeIncome, TypeExpense}

// Entry is a single ledger line. At most one of IsSharedExpense and
// IsIncomeFromOtherProject is set. Both halves of a transfer share TransferID.
type Entry struct {
	ID                       int64     `gorm:"primaryKey"`
	UserID                   int64     `gorm:"column:user_id;not null;index:idx_entries_user_project"`
	ProjectID                int64     `gorm:"column:project_id;not null;index:idx_entries_user_project"`
	Type                     string    `gorm:"column:type;not null"`
	Amount                   float64   `gorm:"column:amount;not null"`
	Category                 string    `gorm:"column:category;not null"`
	Description              string    `gorm:"column:description"`
	Date                     time.Time `gorm:"column:date;not null;index"`
	IsSharedExpense          bool      `gorm:"column:is_shared_expense;not null;default:false"`
	OriginalAmount           *float64  `gorm:"column:original_amount"`
	SharedBatchID            *string   `gorm:"column:shared_batch_id;index"`
	IsIncomeFromOtherProject bool      `gorm:"column:is_income_from_other_project;not null;default:false"`
	SourceProjectID          *int64    `gorm:"column:source_project_id"`
	TransferID               *string   `gorm:"column:transfer_id;index"`
	CreatedAt                time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Entry) TableName() string {
	return "entries"
}
