package estimate

import (
	"fmt"
	"time"

	estimateDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/estimate"
)

const (
	UnitSquareFeet = estimateDatamodel.UnitSquareFeet
	UnitLump       = estimateDatamodel.UnitLump
	UnitLumpSum    = estimateDatamodel.UnitLumpSum

	DiscountAmount     = estimateDatamodel.DiscountAmount
	DiscountPercentage = estimateDatamodel.DiscountPercentage
)

// Estimate is a client-facing bill of work priced line by line. FinalAmount
// is what a connected project adopts as its budget.
type Estimate struct {
	ID            int64     `json:"id"`
	BillNumber    string    `json:"bill_number"`
	UserID        int64     `json:"user_id"`
	ProjectID     *int64    `json:"project_id,omitempty"`
	DocumentType  string    `json:"document_type"`
	ClientName    string    `json:"client_name"`
	ClientEmail   string    `json:"client_email,omitempty"`
	ClientPhone   string    `json:"client_phone,omitempty"`
	ClientAddress string    `json:"client_address,omitempty"`
	Date          time.Time `json:"date"`
	Items         []*Item   `json:"items"`
	GrandTotal    float64   `json:"grand_total"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue float64   `json:"discount_value"`
	Discount      float64   `json:"discount"`
	FinalAmount   float64   `json:"final_amount"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Item struct {
	ID           int64   `json:"id"`
	Particular   string  `json:"particular"`
	Description  string  `json:"description,omitempty"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity"`
	Width        float64 `json:"width,omitempty"`
	Height       float64 `json:"height,omitempty"`
	SquareFeet   float64 `json:"square_feet,omitempty"`
	PricePerUnit float64 `json:"price_per_unit"`
	Total        float64 `json:"total"`
}

// BillNumber formats the estimate number from the issue time.
func BillNumber(at time.Time) string {
	return fmt.Sprintf("INT-%d", at.UnixMilli())
}

// ComputeItemTotal prices one line. Square-foot lines are width x height x
// price x quantity; every other unit is price x quantity.
func ComputeItemTotal(item *Item) {
	if item.Unit == UnitSquareFeet {
		item.SquareFeet = item.Width * item.Height
		item.Total = item.SquareFeet * item.PricePerUnit * item.Quantity
		return
	}
	item.SquareFeet = 0
	item.Total = item.PricePerUnit * item.Quantity
}

// ComputeTotals prices every item, then applies the discount to the grand
// total. A percentage discount is taken from the grand total.
func ComputeTotals(e *Estimate) {
	var grand float64
	for _, item := range e.Items {
		ComputeItemTotal(item)
		grand += item.Total
	}
	e.GrandTotal = grand

	switch e.DiscountType {
	case DiscountPercentage:
		e.Discount = e.DiscountValue * grand / 100
	default:
		e.Discount = e.DiscountValue
	}
	e.FinalAmount = grand - e.Discount
}

func ToDataModel(e *Estimate) *estimateDatamodel.Estimate {
	items := make([]estimateDatamodel.EstimateItem, 0, len(e.Items))
	for i, item := range e.Items {
		items = append(items, estimateDatamodel.EstimateItem{
			ID:           item.ID,
			EstimateID:   e.ID,
			Position:     i + 1,
			Particular:   item.Particular,
			Description:  item.Description,
			Unit:         item.Unit,
			Quantity:     item.Quantity,
			Width:        item.Width,
			Height:       item.Height,
			SquareFeet:   item.SquareFeet,
			PricePerUnit: item.PricePerUnit,
			Total:        item.Total,
		})
	}
	return &estimateDatamodel.Estimate{
		ID:            e.ID,
		BillNumber:    e.BillNumber,
		UserID:        e.UserID,
		ProjectID:     e.ProjectID,
		DocumentType:  e.DocumentType,
		ClientName:    e.ClientName,
		ClientEmail:   e.ClientEmail,
		ClientPhone:   e.ClientPhone,
		ClientAddress: e.ClientAddress,
		Date:          e.Date,
		GrandTotal:    e.GrandTotal,
		DiscountType:  e.DiscountType,
		DiscountValue: e.DiscountValue,
		Discount:      e.Discount,
		FinalAmount:   e.FinalAmount,
		Items:         items,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func FromDataModel(row *estimateDatamodel.Estimate) *Estimate {
	if row == nil {
		return nil
	}
	items := make([]*Item, 0, len(row.Items))
	for _, it := range row.Items {
		items = append(items, &Item{
			ID:           it.ID,
			Particular:   it.Particular,
			Description:  it.Description,
			Unit:         it.Unit,
			Quantity:     it.Quantity,
			Width:        it.Width,
			Height:       it.Height,
			SquareFeet:   it.SquareFeet,
			PricePerUnit: it.PricePerUnit,
			Total:        it.Total,
		})
	}
	return &Estimate{
		ID:            row.ID,
		BillNumber:    row.BillNumber,
		UserID:        row.UserID,
		ProjectID:     row.ProjectID,
		DocumentType:  row.DocumentType,
		ClientName:    row.ClientName,
		ClientEmail:   row.ClientEmail,
		ClientPhone:   row.ClientPhone,
		ClientAddress: row.ClientAddress,
		Date:          row.Date,
		Items:         items,
		GrandTotal:    row.GrandTotal,
		DiscountType:  row.DiscountType,
		DiscountValue: row.DiscountValue,
		Discount:      row.Discount,
		FinalAmount:   row.FinalAmount,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
