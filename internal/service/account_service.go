package service

import (
	"context"

	"glimpse/internal/models"
	"glimpse/internal/repository"
)

// AccountService provides account directory business logic.
type AccountService struct {
	accountRepo repository.AccountRepository
	hasher      PasswordHasher
}

// CreateAccountInput carries the fields needed to register an account.
type CreateAccountInput struct {
	Email       string
	Username    string
	Password    string
	DisplayName string
}

// NewAccountService returns a new AccountService.
func NewAccountService(accountRepo repository.AccountRepository, hasher PasswordHasher) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		hasher:      hasher,
	}
}

// Create registers a new account. The email uniqueness check runs before the
// password is hashed, the username check after; concurrent registrations that
// slip past both checks are caught by the unique columns at insert time.
func (s *AccountService) Create(ctx context.Context, in CreateAccountInput) (*models.Account, error) {
	existing, err := s.accountRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateEmailError(in.Email)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	existing, err = s.accountRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateUsernameError(in.Username)
	}

	account := &models.Account{
		Email:       in.Email,
		Username:    in.Username,
		Password:    hashed,
		DisplayName: in.DisplayName,
		IsActive:    true,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetByID returns the account with the given ID.
func (s *AccountService) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

// List returns accounts with pagination.
func (s *AccountService) List(ctx context.Context, limit, offset int) ([]models.Account, error) {
	return s.accountRepo.List(ctx, limit, offset)
}

// Disable soft-deletes an account: the row and its follow edges stay in
// storage, but the account no longer appears in graph query results.
func (s *AccountService) Disable(ctx context.Context, id uint) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	account.IsActive = false
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Delete hard-deletes an account. Follow edges referencing the account are
// protected by restrict FKs, so deletion fails while edge history exists.
func (s *AccountService) Delete(ctx context.Context, id uint) error {
	return s.accountRepo.Delete(ctx, id)
}
