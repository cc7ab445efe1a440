package category

import (
	"strings"
	"time"

	categoryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/category"
	entryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/entry"
)

type Category struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Type      string    `json:"type"`
	Name      string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// Builtins maps an entry type to the category names every user gets without registering.
type Builtins map[string][]string

// DefaultBuiltins is the single source of built-in category names.
var DefaultBuiltins = Builtins{
	entryDatamodel.TypeExpense: {
		"Materials", "Labour", "Tiles", "Plywood", "Hardware", "Paint", "Electrical",
		"Plumbing", "Furniture", "Transport", "Rent", "Salaries", "Utilities",
		"Miscellaneous", "Project Payment",
	},
	entryDatamodel.TypeIncome: {
		"Client Payment", "Advance", "Consultation Fee", "Design Fee", "Other Income",
	},
}

func (b Builtins) Contains(entryType, name string) bool {
	name = strings.TrimSpace(name)
	for _, n := range b[entryType] {
		if n == name {
			return true
		}
	}
	return false
}

func NewCategory(userID int64, entryType, name string) *Category {
	return &Category{
		UserID:    userID,
		Type:      entryType,
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now(),
	}
}

func ToDataModel(c *Category) *categoryDatamodel.Category {
	return &categoryDatamodel.Category{
		ID:        c.ID,
		UserID:    c.UserID,
		Type:      c.Type,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}

func FromDataModel(c *categoryDatamodel.Category) *Category {
	return &Category{
		ID:        c.ID,
		UserID:    c.UserID,
		Type:      c.Type,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}
