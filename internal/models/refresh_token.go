package models

import (
	"time"
)

// RefreshToken is a persisted opaque credential used to mint new access
// tokens without re-authenticating. Multiple rows may be outstanding for the
// same account; revocation deletes a row, expiry is checked lazily.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"not null;index" json:"account_id"`
	Token     string    `gorm:"not null;index" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	Account Account `gorm:"foreignKey:AccountID" json:"-"`
}

// TableName specifies the table name for GORM
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// Expired reports whether the token is no longer valid at the given instant.
// Expiration must be strictly in the future for the token to validate.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
