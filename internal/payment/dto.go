package payment

import (
	"time"

	"github.com/frahmantamala/interior-ledger/internal/project"
)

type GenerateBillDTO struct {
	ProjectID      int64      `json:"project_id"`
	AmountReceived float64    `json:"amount_received"`
	Notes          string     `json:"notes"`
	Date           *time.Time `json:"date,omitempty"`
}

// Receipt is what document generators render for one bill.
type Receipt struct {
	Bill             *Bill            `json:"bill"`
	Project          *project.Project `json:"project"`
	RecognizedIncome float64          `json:"recognized_income"`
	RemainingBudget  float64          `json:"remaining_budget"`
}
