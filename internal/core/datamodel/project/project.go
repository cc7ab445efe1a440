package project

import "time"

const (
	StatusUnderDiscussion = "Under Discussion"
	StatusInProgress      = "In Progress"
	StatusCompleted       = "Completed"
)

var Statuses = []string{StatusUnderDiscussion, StatusInProgress, StatusCompleted}

type Project struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"column:user_id;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	Budget      float64   `gorm:"column:budget;not null;default:0"`
	Status      string    `gorm:"column:status;not null;default:Under Discussion"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}
