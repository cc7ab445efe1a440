package category

type RegisterCategoryDTO struct {
	Type     string `json:"type"`
	Category string `json:"category"`
}

// CategoriesResponse groups names by entry type.
type CategoriesResponse struct {
	Expense []string `json:"Expense"`
	Income  []string `json:"Income"`
}
