package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey" db:"id"`
	Username     string    `gorm:"column:username;uniqueIndex;not null" db:"username"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" db:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" db:"password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" db:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
