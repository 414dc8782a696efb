// Package memory provides in-memory implementations of the repository
// interfaces. They back the service and handler tests; semantics mirror the
// Mongo implementations, including duplicate-key rejection and atomic
// set-add/set-remove behaviour.
package memory

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ripplegram/backend/internal/models"
	"github.com/ripplegram/backend/internal/repositories"
)

// UserRepository is an in-memory repositories.UserRepository.
type UserRepository struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

// NewUserRepository creates an empty in-memory user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[primitive.ObjectID]*models.User)}
}

// Create inserts a user, enforcing the firebase_uid and username unique
// constraints the way the Mongo indexes do.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.FirebaseUID == user.FirebaseUID || u.Username == user.Username {
			return repositories.ErrDuplicateKey
		}
	}

	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}

	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var users []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, *copyUser(u))
		}
	}
	return users, nil
}

func (r *UserRepository) GetByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.FirebaseUID == firebaseUID {
			return copyUser(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) UpdateProfile(ctx context.Context, firebaseUID string, req *models.UpdateProfileRequest) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.FirebaseUID != firebaseUID {
			continue
		}
		if req.FirstName != nil {
			u.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			u.LastName = *req.LastName
		}
		if req.Bio != nil {
			u.Bio = *req.Bio
		}
		if req.Location != nil {
			u.Location = *req.Location
		}
		if req.ProfilePicture != nil {
			u.ProfilePicture = *req.ProfilePicture
		}
		if req.BannerImage != nil {
			u.BannerImage = *req.BannerImage
		}
		u.UpdatedAt = time.Now()
		return copyUser(u), nil
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) AddFollowing(ctx context.Context, userID, targetID primitive.ObjectID) error {
	return r.mutateSet(userID, func(u *models.User) {
		u.Following = addToSet(u.Following, targetID)
	})
}

func (r *UserRepository) RemoveFollowing(ctx context.Context, userID, targetID primitive.ObjectID) error {
	return r.mutateSet(userID, func(u *models.User) {
		u.Following = pull(u.Following, targetID)
	})
}

func (r *UserRepository) AddFollower(ctx context.Context, userID, followerID primitive.ObjectID) error {
	return r.mutateSet(userID, func(u *models.User) {
		u.Followers = addToSet(u.Followers, followerID)
	})
}

func (r *UserRepository) RemoveFollower(ctx context.Context, userID, followerID primitive.ObjectID) error {
	return r.mutateSet(userID, func(u *models.User) {
		u.Followers = pull(u.Followers, followerID)
	})
}

func (r *UserRepository) mutateSet(id primitive.ObjectID, mutate func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	mutate(u)
	return nil
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.Followers = append([]primitive.ObjectID(nil), u.Followers...)
	c.Following = append([]primitive.ObjectID(nil), u.Following...)
	return &c
}

func addToSet(set []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, v := range set {
		if v == id {
			return set
		}
	}
	return append(set, id)
}

func pull(set []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := set[:0]
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

var _ repositories.UserRepository = (*UserRepository)(nil)
