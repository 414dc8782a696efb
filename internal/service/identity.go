package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ripplegram/backend/internal/models"
	"github.com/ripplegram/backend/internal/repositories"
	"github.com/ripplegram/backend/pkg/log"
)

// IdentityAttributes are the profile attributes fetched from the identity
// provider on first sync.
type IdentityAttributes struct {
	Email     string
	FirstName string
	LastName  string
	PhotoURL  string
}

// IdentityProvider looks up the authenticated subject's attributes at the
// external identity provider.
type IdentityProvider interface {
	Lookup(ctx context.Context, externalID string) (*IdentityAttributes, error)
}

// IdentityService maps external authenticated identities to local user
// records.
type IdentityService struct {
	users    repositories.UserRepository
	provider IdentityProvider
}

// NewIdentityService creates an IdentityService.
func NewIdentityService(userRepo repositories.UserRepository, provider IdentityProvider) *IdentityService {
	return &IdentityService{
		users:    userRepo,
		provider: provider,
	}
}

// ResolveOrCreate returns the local user for an external identity, creating
// it on first sight from provider attributes. Idempotent: a creation race
// is resolved by the store rejecting the duplicate and this call re-reading
// the winner's record. The returned bool reports whether a record was
// created.
func (s *IdentityService) ResolveOrCreate(ctx context.Context, firebaseUID string) (*models.User, bool, error) {
	user, err := s.users.GetByFirebaseUID(ctx, firebaseUID)
	if err == nil {
		return user, false, nil
	}
	if err != repositories.ErrNotFound {
		return nil, false, err
	}

	attrs, err := s.provider.Lookup(ctx, firebaseUID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: identity lookup: %v", ErrUpstream, err)
	}

	user = &models.User{
		FirebaseUID:    firebaseUID,
		Email:          attrs.Email,
		FirstName:      attrs.FirstName,
		LastName:       attrs.LastName,
		Username:       usernameFromEmail(attrs.Email),
		ProfilePicture: attrs.PhotoURL,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if err != repositories.ErrDuplicateKey {
			return nil, false, err
		}
		// Either we lost the creation race on firebase_uid, or another
		// account already owns the derived username.
		existing, readErr := s.users.GetByFirebaseUID(ctx, firebaseUID)
		if readErr == nil {
			return existing, false, nil
		}
		if readErr != repositories.ErrNotFound {
			return nil, false, readErr
		}

		user.Username = fmt.Sprintf("%s-%s", user.Username, shortID(firebaseUID))
		log.L().Info().Str("username", user.Username).Msg("username taken, retrying sync with suffixed username")
		if err := s.users.Create(ctx, user); err != nil {
			return nil, false, err
		}
	}

	return user, true, nil
}

// GetCurrent returns the local user for an external identity.
func (s *IdentityService) GetCurrent(ctx context.Context, firebaseUID string) (*models.User, error) {
	user, err := s.users.GetByFirebaseUID(ctx, firebaseUID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByUsername returns the user with the given username.
func (s *IdentityService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a partial update of mutable profile fields.
func (s *IdentityService) UpdateProfile(ctx context.Context, firebaseUID string, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.UpdateProfile(ctx, firebaseUID, req)
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// usernameFromEmail derives the username from the email local-part.
func usernameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

func shortID(id string) string {
	if len(id) > 6 {
		return id[:6]
	}
	return id
}
