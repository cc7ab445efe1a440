package estimate

import "time"

const (
	UnitSquareFeet = "Sft"
	UnitLump       = "Lump"
	UnitLumpSum    = "Ls"

	DocumentInvoice   = "Invoice"
	DocumentEstimate  = "Estimate"
	DocumentQuotation = "Quotation"

	DiscountAmount     = "amount"
	DiscountPercentage = "percentage"
)

var (
	Units         = []string{UnitSquareFeet, UnitLump, UnitLumpSum}
	DocumentTypes = []string{DocumentInvoice, DocumentEstimate, DocumentQuotation}
	DiscountTypes = []string{DiscountAmount, DiscountPercentage}
)

// Estimate is a priced bill of work. ProjectID is set once it is connected.
type Estimate struct {
	ID            int64          `gorm:"primaryKey"`
	BillNumber    string         `gorm:"column:bill_number;uniqueIndex;not null"`
	UserID        int64          `gorm:"column:user_id;not null;index"`
	ProjectID     *int64         `gorm:"column:project_id;index"`
	DocumentType  string         `gorm:"column:document_type;not null;default:Invoice"`
	ClientName    string         `gorm:"column:client_name;not null"`
	ClientEmail   string         `gorm:"column:client_email"`
	ClientPhone   string         `gorm:"column:client_phone"`
	ClientAddress string         `gorm:"column:client_address"`
	Date          time.Time      `gorm:"column:date;not null"`
	GrandTotal    float64        `gorm:"column:grand_total;not null"`
	DiscountType  string         `gorm:"column:discount_type;not null;default:amount"`
	DiscountValue float64        `gorm:"column:discount_value;not null;default:0"`
	Discount      float64        `gorm:"column:discount;not null;default:0"`
	FinalAmount   float64        `gorm:"column:final_amount;not null"`
	Items         []EstimateItem `gorm:"foreignKey:EstimateID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Estimate) TableName() string {
	return "estimates"
}

type EstimateItem struct {
	ID           int64   `gorm:"primaryKey"`
	EstimateID   int64   `gorm:"column:estimate_id;not null;index"`
	Position     int     `gorm:"column:position;not null"`
	Particular   string  `gorm:"column:particular;not null"`
	Description  string  `gorm:"column:description"`
	Unit         string  `gorm:"column:unit;not null"`
	Quantity     float64 `gorm:"column:quantity;not null;default:1"`
	Width        float64 `gorm:"column:width"`
	Height       float64 `gorm:"column:height"`
	SquareFeet   float64 `gorm:"column:square_feet"`
	PricePerUnit float64 `gorm:"column:price_per_unit;not null"`
	Total        float64 `gorm:"column:total;not null"`
}

func (EstimateItem) TableName() string {
	return "estimate_items"
}
