package category

import "time"

// Category is a user-registered custom category name. Built-in names are never stored.
type Category struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_categories_user_type_name"`
	Type      string    `gorm:"column:type;not null;uniqueIndex:idx_categories_user_type_name"`
	Name      string    `gorm:"column:category;not null;uniqueIndex:idx_categories_user_type_name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Category) TableName() string {
	return "categories"
}
