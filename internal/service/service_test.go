package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ripplegram/backend/internal/models"
	"github.com/ripplegram/backend/internal/repositories/memory"
)

// testEnv bundles the engines over in-memory repositories with fake
// collaborators.
type testEnv struct {
	users         *memory.UserRepository
	posts         *memory.PostRepository
	comments      *memory.CommentRepository
	notifications *memory.NotificationRepository

	provider *fakeProvider
	uploader *fakeUploader

	identity *IdentityService
	graph    *SocialGraphService
	content  *ContentService
	notify   *NotificationService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:         memory.NewUserRepository(),
		posts:         memory.NewPostRepository(),
		comments:      memory.NewCommentRepository(),
		notifications: memory.NewNotificationRepository(),
		provider:      newFakeProvider(),
		uploader:      &fakeUploader{},
	}

	env.notify = NewNotificationService(env.notifications, env.users)
	env.identity = NewIdentityService(env.users, env.provider)
	env.graph = NewSocialGraphService(env.users, env.identity, env.notify)
	env.content = NewContentService(env.users, env.posts, env.comments, env.identity, env.notify, env.uploader)
	return env
}

// mustUser syncs a user into existence from provider attributes.
func (env *testEnv) mustUser(ctx context.Context, uid, email string) *models.User {
	env.provider.set(uid, &IdentityAttributes{
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		PhotoURL:  "https://cdn.test/avatar.png",
	})
	user, _, err := env.identity.ResolveOrCreate(ctx, uid)
	if err != nil {
		panic(err)
	}
	return user
}

func (env *testEnv) notificationsFor(ctx context.Context, recipient primitive.ObjectID) []models.Notification {
	list, err := env.notifications.GetByRecipient(ctx, recipient, 0)
	if err != nil {
		panic(err)
	}
	return list
}

// fakeProvider is an in-memory IdentityProvider.
type fakeProvider struct {
	mu    sync.Mutex
	attrs map[string]*IdentityAttributes
	err   error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{attrs: make(map[string]*IdentityAttributes)}
}

func (p *fakeProvider) set(uid string, attrs *IdentityAttributes) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attrs[uid] = attrs
}

func (p *fakeProvider) Lookup(ctx context.Context, externalID string) (*IdentityAttributes, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	attrs, ok := p.attrs[externalID]
	if !ok {
		return nil, fmt.Errorf("unknown subject %s", externalID)
	}
	return attrs, nil
}

// fakeUploader records uploads and deletions.
type fakeUploader struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
	err      error
}

func (u *fakeUploader) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return "", u.err
	}
	u.uploaded = append(u.uploaded, key)
	return "https://cdn.test/" + key, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.deleted = append(u.deleted, key)
	return nil
}
