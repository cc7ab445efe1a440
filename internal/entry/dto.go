package entry

import "time"

type AddEntryDTO struct {
	ProjectID   int64      `json:"project_id"`
	Type        string     `json:"type"`
	Amount      float64    `json:"amount"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date,omitempty"`
}

// UpdateEntryDTO is a partial patch; nil fields are left alone.
type UpdateEntryDTO struct {
	Type        *string    `json:"type,omitempty"`
	Amount      *float64   `json:"amount,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Description *string    `json:"description,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

func (d UpdateEntryDTO) IsEmpty() bool {
	return d.Type == nil && d.Amount == nil && d.Category == nil && d.Description == nil && d.Date == nil
}
