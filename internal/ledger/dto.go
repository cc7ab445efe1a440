package ledger

import (
	"time"

	"github.com/frahmantamala/interior-ledger/internal/entry"
)

type TransferDTO struct {
	CurrentProjectID  int64      `json:"current_project_id"`
	SourceProjectName string     `json:"source_project_name"`
	Amount            float64    `json:"amount"`
	Description       string     `json:"description"`
	Date              *time.Time `json:"date,omitempty"`
}

type TransferOutcome string

const (
	OutcomeBothSucceeded             TransferOutcome = "both_succeeded"
	OutcomeFirstFailed               TransferOutcome = "first_failed"
	OutcomeSecondFailedRolledBack    TransferOutcome = "second_failed_rolled_back"
	OutcomeSecondFailedCompensated   TransferOutcome = "second_failed_compensated"
	OutcomeSecondFailedUncompensated TransferOutcome = "second_failed_uncompensated"
	// OutcomeCommitFailed: both writes ran but the transaction did not commit.
	OutcomeCommitFailed TransferOutcome = "commit_failed"
)

type TransferResult struct {
	Outcome TransferOutcome `json:"outcome"`
	Income  *entry.Entry    `json:"income,omitempty"`
	Expense *entry.Entry    `json:"expense,omitempty"`
}

// TransferFailure is the Details payload of a failed transfer.
type TransferFailure struct {
	Outcome       TransferOutcome `json:"outcome"`
	IncomeEntryID int64           `json:"income_entry_id,omitempty"`
}

type SharedExpenseDTO struct {
	Amount      float64    `json:"amount"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date,omitempty"`
}

type SharedExpenseResult struct {
	BatchID           string         `json:"batch_id"`
	OriginalAmount    float64        `json:"original_amount"`
	DistributedAmount float64        `json:"distributed_amount"`
	ProjectCount      int            `json:"project_count"`
	Entries           []*entry.Entry `json:"entries"`
}

// DistributionFailure is the Details payload of a failed distribution. With a
// transactional store CreatedProjectIDs is always empty.
type DistributionFailure struct {
	BatchID           string  `json:"batch_id"`
	CreatedProjectIDs []int64 `json:"created_project_ids"`
	FailedProjectID   int64   `json:"failed_project_id"`
	RolledBack        bool    `json:"rolled_back"`
}

// SharedExpenseGroup is one logical split reconstructed from its entries.
type SharedExpenseGroup struct {
	BatchID           string         `json:"batch_id,omitempty"`
	Date              time.Time      `json:"date"`
	Category          string         `json:"category"`
	Description       string         `json:"description"`
	OriginalAmount    float64        `json:"original_amount"`
	DistributedAmount float64        `json:"distributed_amount"`
	ProjectIDs        []int64        `json:"project_ids"`
	Entries           []*entry.Entry `json:"entries"`
}

type UnpairedTransfer struct {
	Income *entry.Entry `json:"income"`
	Reason string       `json:"reason"`
}

type Summary struct {
	GrossIncome      float64   `json:"gross_income"`
	RecognizedIncome float64   `json:"recognized_income"`
	TotalExpenses    float64   `json:"total_expenses"`
	NetBalance       float64   `json:"net_balance"`
	Currency         string    `json:"currency,omitempty"`
	LastUpdated      time.Time `json:"last_updated"`
}

type MonthlyRow struct {
	Month    int     `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

type YearlyRow struct {
	Year     int     `json:"year"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type PeriodRow struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

type RecentEntry struct {
	*entry.Entry
	ProjectName string `json:"project_name"`
}

type UserTotals struct {
	TotalProjects      int                `json:"total_projects"`
	TotalIncome        float64            `json:"total_income"`
	TotalExpenses      float64            `json:"total_expenses"`
	NetBalance         float64            `json:"net_balance"`
	IncomeByCategory   map[string]float64 `json:"income_by_category"`
	ExpensesByCategory map[string]float64 `json:"expenses_by_category"`
	MonthlyBreakdown   []PeriodRow        `json:"monthly_breakdown"`
	RecentTransactions []RecentEntry      `json:"recent_transactions"`
}

type ProjectDetails struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget"`
	Status      string  `json:"status"`
}

type BalanceSheetSummary struct {
	GrossIncome      float64 `json:"total_income"`
	RecognizedIncome float64 `json:"recognized_income"`
	TotalExpenses    float64 `json:"total_expenses"`
	NetBalance       float64 `json:"net_balance"`
	BudgetRemaining  float64 `json:"budget_remaining"`
}

type CategoryGroup struct {
	Category    string         `json:"category"`
	TotalAmount float64        `json:"total_amount"`
	Entries     []*entry.Entry `json:"entries"`
}

type TypeSection struct {
	Total      float64         `json:"total"`
	Categories []CategoryGroup `json:"categories"`
}

// BalanceSheet is the per-project report handed to document generators.
type BalanceSheet struct {
	Project     ProjectDetails      `json:"project_details"`
	Summary     BalanceSheetSummary `json:"summary"`
	Income      TypeSection         `json:"income"`
	Expenses    TypeSection         `json:"expenses"`
	Currency    string              `json:"currency,omitempty"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// OnlyCategories keeps the named categories and recomputes section totals.
// The summary is left as computed over the whole project. An empty list keeps everything.
func (b *BalanceSheet) OnlyCategories(names []string) *BalanceSheet {
	if len(names) == 0 {
		return b
	}
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	filter := func(s TypeSection) TypeSection {
		out := TypeSection{Categories: []CategoryGroup{}}
		for _, c := range s.Categories {
			if keep[c.Category] {
				out.Categories = append(out.Categories, c)
				out.Total += c.TotalAmount
			}
		}
		return out
	}
	cp := *b
	cp.Income = filter(b.Income)
	cp.Expenses = filter(b.Expenses)
	return &cp
}
