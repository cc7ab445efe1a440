package payment

import (
	"fmt"
	"time"

	paymentBillDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/paymentbill"
)

// Bill is a payment receipt issued against a project.
type Bill struct {
	ID              int64     `json:"id"`
	BillNumber      string    `json:"bill_number"`
	UserID          int64     `json:"user_id"`
	ProjectID       int64     `json:"project_id"`
	AmountReceived  float64   `json:"amount_received"`
	RemainingAmount float64   `json:"remaining_amount"`
	Notes           string    `json:"notes,omitempty"`
	Date            time.Time `json:"date"`
	CreatedAt       time.Time `json:"created_at"`
}

// BillNumber formats the receipt number from the issue time.
func BillNumber(at time.Time) string {
	return fmt.Sprintf("BILL-%d", at.UnixMilli())
}

func ToDataModel(b *Bill) *paymentBillDatamodel.PaymentBill {
	return &paymentBillDatamodel.PaymentBill{
		ID:              b.ID,
		BillNumber:      b.BillNumber,
		UserID:          b.UserID,
		ProjectID:       b.ProjectID,
		AmountReceived:  b.AmountReceived,
		RemainingAmount: b.RemainingAmount,
		Notes:           b.Notes,
		Date:            b.Date,
		CreatedAt:       b.CreatedAt,
	}
}

func FromDataModel(row *paymentBillDatamodel.PaymentBill) *Bill {
	if row == nil {
		return nil
	}
	return &Bill{
		ID:              row.ID,
		BillNumber:      row.BillNumber,
		UserID:          row.UserID,
		ProjectID:       row.ProjectID,
		AmountReceived:  row.AmountReceived,
		RemainingAmount: row.RemainingAmount,
		Notes:           row.Notes,
		Date:            row.Date,
		CreatedAt:       row.CreatedAt,
	}
}
