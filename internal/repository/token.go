package repository

import (
	"context"
	"errors"

	"glimpse/internal/models"

	"gorm.io/gorm"
)

// TokenRepository defines persistence operations for refresh tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	Find(ctx context.Context, accountID uint, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, accountID uint, token string) error
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository returns a new TokenRepository implementation.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tokenRepository) Find(ctx context.Context, accountID uint, token string) (*models.RefreshToken, error) {
	var stored models.RefreshToken
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND token = ?", accountID, token).
		First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &stored, nil
}

// Delete removes the matching token row. Deleting an absent token is not an
// error; logout is idempotent.
func (r *tokenRepository) Delete(ctx context.Context, accountID uint, token string) error {
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND token = ?", accountID, token).
		Delete(&models.RefreshToken{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
