package project

import (
	"strings"
	"time"

	projectDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/project"
)

const (
	StatusUnderDiscussion = projectDatamodel.StatusUnderDiscussion
	StatusInProgress      = projectDatamodel.StatusInProgress
	StatusCompleted       = projectDatamodel.StatusCompleted
)

type Project struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Budget      float64   `json:"budget"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Project) IsInProgress() bool {
	return p.Status == StatusInProgress
}

// NormalizeProject trims text fields and fills the default status.
func NormalizeProject(p *Project) {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	if p.Status == "" {
		p.Status = StatusUnderDiscussion
	}
}

func ToDataModel(p *Project) *projectDatamodel.Project {
	return &projectDatamodel.Project{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Description: p.Description,
		Budget:      p.Budget,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromDataModel(p *projectDatamodel.Project) *Project {
	return &Project{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Description: p.Description,
		Budget:      p.Budget,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
