package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"glimpse/internal/config"
	"glimpse/internal/models"
	"glimpse/internal/observability"
	"glimpse/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionService issues and validates bearer credentials: short-lived signed
// access tokens (stateless, never persisted) and opaque refresh tokens stored
// in the database.
type SessionService struct {
	tokenRepo   repository.TokenRepository
	accountRepo repository.AccountRepository
	hasher      PasswordHasher
	cfg         *config.Config
}

// NewSessionService returns a new SessionService.
func NewSessionService(tokenRepo repository.TokenRepository, accountRepo repository.AccountRepository, hasher PasswordHasher, cfg *config.Config) *SessionService {
	return &SessionService{
		tokenRepo:   tokenRepo,
		accountRepo: accountRepo,
		hasher:      hasher,
		cfg:         cfg,
	}
}

// Login authenticates by email and password. On success it returns the
// account, a freshly minted access token, and a newly persisted refresh token.
func (s *SessionService) Login(ctx context.Context, email, password string) (*models.Account, string, *models.RefreshToken, error) {
	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", nil, err
	}
	if account == nil {
		observability.RecordAuthFailure("unknown_account")
		return nil, "", nil, models.NewNotFoundError("Account", email)
	}
	if !account.IsActive {
		observability.RecordAuthFailure("inactive_account")
		return nil, "", nil, models.NewInactiveError("Account", account.ID)
	}
	if !s.hasher.Verify(account.Password, password) {
		observability.RecordAuthFailure("bad_password")
		return nil, "", nil, models.NewInvalidCredentialsError()
	}

	access, err := s.mintAccessToken(account)
	if err != nil {
		return nil, "", nil, models.NewInternalError(err)
	}
	refresh, err := s.IssueRefreshToken(ctx, account.ID)
	if err != nil {
		return nil, "", nil, err
	}
	return account, access, refresh, nil
}

// IssueRefreshToken mints and persists a new opaque refresh token for the
// account. Prior outstanding tokens are deliberately left valid: each device
// or session holds its own token.
func (s *SessionService) IssueRefreshToken(ctx context.Context, accountID uint) (*models.RefreshToken, error) {
	token := &models.RefreshToken{
		AccountID: accountID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(s.cfg.RefreshTokenTTL()),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}
	observability.RefreshTokensIssued.Inc()
	return token, nil
}

// ValidateRefreshToken reports whether the token belongs to the account and
// has not expired. Expired rows are left in place; expiry is lazy and rows
// only disappear on revoke.
func (s *SessionService) ValidateRefreshToken(ctx context.Context, accountID uint, token string) (bool, error) {
	stored, err := s.tokenRepo.Find(ctx, accountID, token)
	if err != nil {
		return false, err
	}
	return stored != nil && !stored.Expired(time.Now()), nil
}

// Refresh exchanges a valid refresh token for a new access token and a new
// refresh token. The presented token is left in place; callers that want it
// gone revoke it separately.
func (s *SessionService) Refresh(ctx context.Context, accountID uint, token string) (string, *models.RefreshToken, error) {
	ok, err := s.ValidateRefreshToken(ctx, accountID, token)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		observability.RecordAuthFailure("bad_refresh_token")
		return "", nil, models.NewInvalidTokenError()
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return "", nil, err
	}

	access, err := s.mintAccessToken(account)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	refresh, err := s.IssueRefreshToken(ctx, accountID)
	if err != nil {
		return "", nil, err
	}
	return access, refresh, nil
}

// Revoke deletes the matching refresh token. Revoking an absent token is a
// no-op, not an error.
func (s *SessionService) Revoke(ctx context.Context, accountID uint, token string) error {
	return s.tokenRepo.Delete(ctx, accountID, token)
}

// mintAccessToken creates a signed HS256 token for the account.
func (s *SessionService) mintAccessToken(account *models.Account) (string, error) {
	if s.cfg.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(account.ID), 10), // Subject (account ID as string)
		"username": account.Username,                           // Username (cached in token)
		"iss":      "glimpse-api",                              // Issuer
		"aud":      "glimpse-client",                           // Audience
		"exp":      now.Add(s.cfg.AccessTokenTTL()).Unix(),     // Expiration
		"iat":      now.Unix(),                                 // Issued at
		"nbf":      now.Unix(),                                 // Not before
		"jti":      generateJTI(),                              // JWT ID (unique identifier)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
