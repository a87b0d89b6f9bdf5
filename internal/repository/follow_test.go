package repository

import (
	"context"
	"testing"
	"time"

	"glimpse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_EdgeLifecycle(t *testing.T) {
	repo := NewFollowRepository(testDB)
	ctx := context.Background()

	follower := createTestAccount(t, true)
	followed := createTestAccount(t, true)

	t.Run("GetEdge absent returns nil", func(t *testing.T) {
		edge, err := repo.GetEdge(ctx, follower.ID, followed.ID)
		require.NoError(t, err)
		assert.Nil(t, edge)
	})

	t.Run("CreateEdge", func(t *testing.T) {
		err := repo.CreateEdge(ctx, &models.FollowEdge{
			FollowerID:    follower.ID,
			FollowedID:    followed.ID,
			IsFollowing:   true,
			FollowingDate: time.Now(),
		})
		require.NoError(t, err)

		edge, err := repo.GetEdge(ctx, follower.ID, followed.ID)
		require.NoError(t, err)
		require.NotNil(t, edge)
		assert.True(t, edge.IsFollowing)
		assert.Nil(t, edge.UnfollowDate)
	})

	t.Run("duplicate pair rejected by unique index", func(t *testing.T) {
		err := repo.CreateEdge(ctx, &models.FollowEdge{
			FollowerID:    follower.ID,
			FollowedID:    followed.ID,
			IsFollowing:   true,
			FollowingDate: time.Now(),
		})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeAlreadyFollowing, appErr.Code)
	})

	t.Run("reverse direction is a distinct edge", func(t *testing.T) {
		err := repo.CreateEdge(ctx, &models.FollowEdge{
			FollowerID:    followed.ID,
			FollowedID:    follower.ID,
			IsFollowing:   true,
			FollowingDate: time.Now(),
		})
		require.NoError(t, err)
	})

	t.Run("Deactivate keeps the row with an unfollow date", func(t *testing.T) {
		ok, err := repo.Deactivate(ctx, follower.ID, followed.ID, time.Now())
		require.NoError(t, err)
		assert.True(t, ok)

		edge, err := repo.GetEdge(ctx, follower.ID, followed.ID)
		require.NoError(t, err)
		require.NotNil(t, edge)
		assert.False(t, edge.IsFollowing)
		assert.NotNil(t, edge.UnfollowDate)
	})

	t.Run("Deactivate of inactive edge reports false", func(t *testing.T) {
		ok, err := repo.Deactivate(ctx, follower.ID, followed.ID, time.Now())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Reactivate clears the unfollow date", func(t *testing.T) {
		ok, err := repo.Reactivate(ctx, follower.ID, followed.ID, time.Now())
		require.NoError(t, err)
		assert.True(t, ok)

		edge, err := repo.GetEdge(ctx, follower.ID, followed.ID)
		require.NoError(t, err)
		require.NotNil(t, edge)
		assert.True(t, edge.IsFollowing)
		assert.Nil(t, edge.UnfollowDate)
	})

	t.Run("Reactivate of active edge reports false", func(t *testing.T) {
		ok, err := repo.Reactivate(ctx, follower.ID, followed.ID, time.Now())
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestFollowRepository_GraphQueries(t *testing.T) {
	repo := NewFollowRepository(testDB)
	ctx := context.Background()

	subject := createTestAccount(t, true)
	activeFan := createTestAccount(t, true)
	inactiveFan := createTestAccount(t, false)
	unfollowedFan := createTestAccount(t, true)
	idol := createTestAccount(t, true)

	now := time.Now()
	for _, edge := range []*models.FollowEdge{
		{FollowerID: activeFan.ID, FollowedID: subject.ID, IsFollowing: true, FollowingDate: now},
		{FollowerID: inactiveFan.ID, FollowedID: subject.ID, IsFollowing: true, FollowingDate: now},
		{FollowerID: unfollowedFan.ID, FollowedID: subject.ID, IsFollowing: false, FollowingDate: now, UnfollowDate: &now},
		{FollowerID: subject.ID, FollowedID: idol.ID, IsFollowing: true, FollowingDate: now},
	} {
		require.NoError(t, repo.CreateEdge(ctx, edge))
	}

	t.Run("ListFollowers filters inactive accounts and inactive edges", func(t *testing.T) {
		followers, err := repo.ListFollowers(ctx, subject.ID)
		require.NoError(t, err)
		require.Len(t, followers, 1)
		assert.Equal(t, activeFan.ID, followers[0].ID)
	})

	t.Run("CountFollowers matches ListFollowers", func(t *testing.T) {
		count, err := repo.CountFollowers(ctx, subject.ID)
		require.NoError(t, err)
		followers, err := repo.ListFollowers(ctx, subject.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(len(followers)), count)
	})

	t.Run("ListFollowing", func(t *testing.T) {
		following, err := repo.ListFollowing(ctx, subject.ID)
		require.NoError(t, err)
		require.Len(t, following, 1)
		assert.Equal(t, idol.ID, following[0].ID)
	})

	t.Run("CountFollowing matches ListFollowing", func(t *testing.T) {
		count, err := repo.CountFollowing(ctx, subject.ID)
		require.NoError(t, err)
		following, err := repo.ListFollowing(ctx, subject.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(len(following)), count)
	})

	t.Run("ListSuggestions excludes self and followed accounts", func(t *testing.T) {
		suggestions, err := repo.ListSuggestions(ctx, subject.ID)
		require.NoError(t, err)

		ids := map[uint]bool{}
		for _, s := range suggestions {
			ids[s.ID] = true
		}
		assert.False(t, ids[subject.ID], "suggestions must not include the subject")
		assert.False(t, ids[idol.ID], "suggestions must not include followed accounts")
		assert.False(t, ids[inactiveFan.ID], "suggestions must not include inactive accounts")
		assert.True(t, ids[activeFan.ID])
		assert.True(t, ids[unfollowedFan.ID], "unfollowed accounts become suggestible again")
	})
}
