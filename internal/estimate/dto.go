package estimate

import "time"

type CreateEstimateDTO struct {
	ProjectID     *int64     `json:"project_id,omitempty"`
	DocumentType  string     `json:"document_type"`
	ClientName    string     `json:"client_name"`
	ClientEmail   string     `json:"client_email"`
	ClientPhone   string     `json:"client_phone"`
	ClientAddress string     `json:"client_address"`
	Date          *time.Time `json:"date,omitempty"`
	DiscountType  string     `json:"discount_type"`
	DiscountValue float64    `json:"discount_value"`
	Items         []ItemDTO  `json:"items"`
}

// ItemDTO is one priced line. Quantity defaults to 1; width and height are
// only read for square-foot lines.
type ItemDTO struct {
	Particular   string   `json:"particular"`
	Description  string   `json:"description"`
	Unit         string   `json:"unit"`
	Quantity     *float64 `json:"quantity,omitempty"`
	Width        float64  `json:"width"`
	Height       float64  `json:"height"`
	PricePerUnit float64  `json:"price_per_unit"`
}
