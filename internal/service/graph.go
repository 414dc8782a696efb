package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ripplegram/backend/internal/models"
	"github.com/ripplegram/backend/internal/repositories"
)

// SocialGraphService maintains the denormalized bidirectional follow edges.
type SocialGraphService struct {
	users         repositories.UserRepository
	identity      *IdentityService
	notifications *NotificationService
}

// NewSocialGraphService creates a SocialGraphService.
func NewSocialGraphService(userRepo repositories.UserRepository, identity *IdentityService, notifications *NotificationService) *SocialGraphService {
	return &SocialGraphService{
		users:         userRepo,
		identity:      identity,
		notifications: notifications,
	}
}

// ToggleFollow flips the follower→followee edge. Returns whether the
// follower is following the target after the call.
//
// The edge lives in two documents (follower.following and
// target.followers) and the store has no cross-document transactions, so
// the flip is two independent atomic set updates. A crash between them
// leaves an asymmetric edge; the next toggle converges both sides because
// $addToSet/$pull are idempotent.
func (s *SocialGraphService) ToggleFollow(ctx context.Context, firebaseUID string, targetID primitive.ObjectID) (bool, error) {
	current, err := s.identity.GetCurrent(ctx, firebaseUID)
	if err != nil {
		return false, err
	}

	if current.ID == targetID {
		return false, ErrSelfFollow
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return false, ErrNotFound
		}
		return false, err
	}

	following := contains(current.Following, targetID)

	if following {
		if err := s.users.RemoveFollowing(ctx, current.ID, targetID); err != nil {
			return true, err
		}
		if err := s.users.RemoveFollower(ctx, targetID, current.ID); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := s.users.AddFollowing(ctx, current.ID, targetID); err != nil {
		return false, err
	}
	if err := s.users.AddFollower(ctx, targetID, current.ID); err != nil {
		return false, err
	}

	s.notifications.Emit(ctx, current.ID, target.ID, models.NotificationFollow, nil, nil)
	return true, nil
}

func contains(set []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}
