package service

import (
	"context"
	"time"

	"glimpse/internal/models"
	"glimpse/internal/observability"
	"glimpse/internal/repository"
)

// FollowOutcome distinguishes the two success results of Follow.
type FollowOutcome string

const (
	// OutcomeFollowed indicates a brand-new edge was created.
	OutcomeFollowed FollowOutcome = "followed"
	// OutcomeRefollowed indicates a previously unfollowed edge was reactivated.
	OutcomeRefollowed FollowOutcome = "refollowed"
)

// FollowService provides follow-graph business logic.
type FollowService struct {
	followRepo  repository.FollowRepository
	accountRepo repository.AccountRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, accountRepo repository.AccountRepository) *FollowService {
	return &FollowService{
		followRepo:  followRepo,
		accountRepo: accountRepo,
	}
}

// checkParticipants verifies both endpoints of an edge mutation. Both accounts
// must exist, and at least one of them must still be active: the mutation is
// rejected only when both parties are inactive.
func (s *FollowService) checkParticipants(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return models.NewSelfReferenceError()
	}

	follower, err := s.accountRepo.GetByID(ctx, followerID)
	if err != nil {
		return err
	}
	followed, err := s.accountRepo.GetByID(ctx, followedID)
	if err != nil {
		return err
	}

	if !follower.IsActive && !followed.IsActive {
		return models.NewInactiveParticipantsError()
	}
	return nil
}

// Follow creates or reactivates the directed edge from follower to followed.
// Following an account that is already followed is an error, not a silent
// success; reactivating a previously unfollowed edge is reported as a
// distinct outcome.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID uint) (FollowOutcome, error) {
	if err := s.checkParticipants(ctx, followerID, followedID); err != nil {
		return "", err
	}

	edge, err := s.followRepo.GetEdge(ctx, followerID, followedID)
	if err != nil {
		return "", err
	}

	if edge == nil {
		newEdge := &models.FollowEdge{
			FollowerID:    followerID,
			FollowedID:    followedID,
			IsFollowing:   true,
			FollowingDate: time.Now(),
		}
		if err := s.followRepo.CreateEdge(ctx, newEdge); err != nil {
			return "", err
		}
		observability.RecordFollowTransition(string(OutcomeFollowed))
		return OutcomeFollowed, nil
	}

	if edge.IsFollowing {
		return "", models.NewAlreadyFollowingError()
	}

	reactivated, err := s.followRepo.Reactivate(ctx, followerID, followedID, time.Now())
	if err != nil {
		return "", err
	}
	if !reactivated {
		// A concurrent Follow won the reactivation race.
		return "", models.NewAlreadyFollowingError()
	}
	observability.RecordFollowTransition(string(OutcomeRefollowed))
	return OutcomeRefollowed, nil
}

// Unfollow deactivates the edge from follower to followed, recording the
// unfollow date. The edge row is kept for later reactivation.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	if err := s.checkParticipants(ctx, followerID, followedID); err != nil {
		return err
	}

	deactivated, err := s.followRepo.Deactivate(ctx, followerID, followedID, time.Now())
	if err != nil {
		return err
	}
	if !deactivated {
		return models.NewNotFollowingError()
	}
	observability.RecordFollowTransition("unfollowed")
	return nil
}

// checkSubject verifies the subject of a graph query exists and is active.
func (s *FollowService) checkSubject(ctx context.Context, accountID uint) error {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return models.NewInactiveError("Account", accountID)
	}
	return nil
}

// ListFollowers returns the active accounts actively following the given account.
func (s *FollowService) ListFollowers(ctx context.Context, accountID uint) ([]models.Account, error) {
	if err := s.checkSubject(ctx, accountID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowers(ctx, accountID)
}

// ListFollowing returns the active accounts the given account actively follows.
func (s *FollowService) ListFollowing(ctx context.Context, accountID uint) ([]models.Account, error) {
	if err := s.checkSubject(ctx, accountID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowing(ctx, accountID)
}

// CountFollowers returns the cardinality of ListFollowers.
func (s *FollowService) CountFollowers(ctx context.Context, accountID uint) (int64, error) {
	if err := s.checkSubject(ctx, accountID); err != nil {
		return 0, err
	}
	return s.followRepo.CountFollowers(ctx, accountID)
}

// CountFollowing returns the cardinality of ListFollowing.
func (s *FollowService) CountFollowing(ctx context.Context, accountID uint) (int64, error) {
	if err := s.checkSubject(ctx, accountID); err != nil {
		return 0, err
	}
	return s.followRepo.CountFollowing(ctx, accountID)
}

// Suggest returns active accounts the given account does not follow yet,
// excluding itself. No ranking is applied.
func (s *FollowService) Suggest(ctx context.Context, accountID uint) ([]models.Account, error) {
	if err := s.checkSubject(ctx, accountID); err != nil {
		return nil, err
	}
	return s.followRepo.ListSuggestions(ctx, accountID)
}
