// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"glimpse/internal/models"

	"gorm.io/gorm"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]models.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository returns a new AccountRepository implementation.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Account", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &account, nil
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isUniqueConstraintError(err) {
			// The column name appears in the violation message for both
			// postgres and sqlite.
			msg := strings.ToLower(err.Error())
			if strings.Contains(msg, "username") {
				return models.NewDuplicateUsernameError(account.Username)
			}
			return models.NewDuplicateEmailError(account.Email)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Save(account).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Account{}, id)
	if res.Error != nil {
		if isForeignKeyConstraintError(res.Error) {
			return models.NewValidationError("Account still has follow relationships and cannot be deleted")
		}
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Account", id)
	}
	return nil
}

func (r *accountRepository) List(ctx context.Context, limit, offset int) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Find(&accounts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return accounts, nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; sqlite reports "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// isForeignKeyConstraintError checks if a DB error is a foreign key violation.
func isForeignKeyConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL FK violation SQLSTATE 23503; sqlite reports "FOREIGN KEY constraint failed"
	return strings.Contains(msg, "foreign key") ||
		strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "23503")
}
