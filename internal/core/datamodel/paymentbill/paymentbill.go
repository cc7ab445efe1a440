package paymentbill

import "time"

type PaymentBill struct {
	ID              int64     `gorm:"primaryKey"`
	BillNumber      string    `gorm:"column:bill_number;uniqueIndex;not null"`
	UserID          int64     `gorm:"column:user_id;not null;index"`
	ProjectID       int64     `gorm:"column:project_id;not null;index"`
	AmountReceived  float64   `gorm:"column:amount_received;not null"`
	RemainingAmount float64   `gorm:"column:remaining_amount;not null"`
	Notes           string    `gorm:"column:notes"`
	Date            time.Time `gorm:"column:date;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PaymentBill) TableName() string {
	return "payment_bills"
}
