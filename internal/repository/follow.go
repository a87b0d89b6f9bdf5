package repository

import (
	"context"
	"errors"
	"time"

	"glimpse/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines persistence operations for the follow graph.
//
// The (follower_id, followed_id) pair is covered by a unique index, so a
// concurrent insert race is decided by the database: the loser of the race
// gets the same AlreadyFollowing result it would have gotten had it read the
// winner's row. Reactivate and Deactivate are single guarded UPDATE statements
// conditioned on the current is_following value, so two concurrent transitions
// cannot both report success.
type FollowRepository interface {
	GetEdge(ctx context.Context, followerID, followedID uint) (*models.FollowEdge, error)
	CreateEdge(ctx context.Context, edge *models.FollowEdge) error
	Reactivate(ctx context.Context, followerID, followedID uint, at time.Time) (bool, error)
	Deactivate(ctx context.Context, followerID, followedID uint, at time.Time) (bool, error)
	ListFollowers(ctx context.Context, accountID uint) ([]models.Account, error)
	ListFollowing(ctx context.Context, accountID uint) ([]models.Account, error)
	CountFollowers(ctx context.Context, accountID uint) (int64, error)
	CountFollowing(ctx context.Context, accountID uint) (int64, error)
	ListSuggestions(ctx context.Context, accountID uint) ([]models.Account, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) GetEdge(ctx context.Context, followerID, followedID uint) (*models.FollowEdge, error) {
	var edge models.FollowEdge
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		First(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &edge, nil
}

func (r *followRepository) CreateEdge(ctx context.Context, edge *models.FollowEdge) error {
	if err := r.db.WithContext(ctx).Create(edge).Error; err != nil {
		if isUniqueConstraintError(err) {
			// Lost an insert race; the pair is followed now either way.
			return models.NewAlreadyFollowingError()
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) Reactivate(ctx context.Context, followerID, followedID uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.FollowEdge{}).
		Where("follower_id = ? AND followed_id = ? AND is_following = ?", followerID, followedID, false).
		Updates(map[string]interface{}{
			"is_following":   true,
			"following_date": at,
			"unfollow_date":  nil,
		})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Deactivate(ctx context.Context, followerID, followedID uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.FollowEdge{}).
		Where("follower_id = ? AND followed_id = ? AND is_following = ?", followerID, followedID, true).
		Updates(map[string]interface{}{
			"is_following":  false,
			"unfollow_date": at,
		})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, accountID uint) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.WithContext(ctx).
		Table("accounts").
		Joins("JOIN follow_edges f ON accounts.id = f.follower_id").
		Where("f.followed_id = ? AND f.is_following = ? AND accounts.is_active = ?", accountID, true, true).
		Find(&accounts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return accounts, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, accountID uint) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.WithContext(ctx).
		Table("accounts").
		Joins("JOIN follow_edges f ON accounts.id = f.followed_id").
		Where("f.follower_id = ? AND f.is_following = ? AND accounts.is_active = ?", accountID, true, true).
		Find(&accounts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return accounts, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, accountID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("accounts").
		Joins("JOIN follow_edges f ON accounts.id = f.follower_id").
		Where("f.followed_id = ? AND f.is_following = ? AND accounts.is_active = ?", accountID, true, true).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, accountID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("accounts").
		Joins("JOIN follow_edges f ON accounts.id = f.followed_id").
		Where("f.follower_id = ? AND f.is_following = ? AND accounts.is_active = ?", accountID, true, true).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *followRepository) ListSuggestions(ctx context.Context, accountID uint) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.WithContext(ctx).
		Where("id != ? AND is_active = ?", accountID, true).
		Where("id NOT IN (?)",
			r.db.Model(&models.FollowEdge{}).
				Select("followed_id").
				Where("follower_id = ? AND is_following = ?", accountID, true),
		).
		Find(&accounts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return accounts, nil
}
