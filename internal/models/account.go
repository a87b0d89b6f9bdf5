// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Account represents a registered user of the platform.
type Account struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"unique;not null" json:"email"`
	Username    string    `gorm:"unique;not null" json:"username"`
	Password    string    `gorm:"not null" json:"-"`
	DisplayName string    `json:"display_name"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Account) TableName() string {
	return "accounts"
}
