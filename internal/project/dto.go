package project

type CreateProjectDTO struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Budget      *float64 `json:"budget,omitempty"`
	Status      string   `json:"status,omitempty"`
}

type UpdateBudgetDTO struct {
	Budget float64 `json:"budget"`
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

type ConnectEstimateDTO struct {
	EstimateID int64 `json:"estimate_id"`
}

type DeleteProjectResponse struct {
	Message        string `json:"message"`
	DeletedEntries int64  `json:"deleted_entries"`
}
