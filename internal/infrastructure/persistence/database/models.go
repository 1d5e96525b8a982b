package database

import (
	"time"

	"gorm.io/gorm"
)

// UserModel é o model GORM para usuários.
// Username e email são únicos apenas entre registros ativos (índices parciais).
type UserModel struct {
	ID           string         `gorm:"type:uuid;primaryKey"`
	Username     string         `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_username_active,where:deleted_at IS NULL"`
	Email        *string        `gorm:"type:varchar(255);uniqueIndex:uq_users_email_active,where:deleted_at IS NULL"`
	FullName     *string        `gorm:"column:fullname;type:varchar(255)"`
	PasswordHash string         `gorm:"column:password;type:varchar(255);not null"`
	Role         string         `gorm:"type:varchar(20);not null;index"`
	CreatedAt    time.Time      `gorm:"index"`
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"` // Soft delete
}

func (UserModel) TableName() string {
	return "users"
}
