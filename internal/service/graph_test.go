package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ripplegram/backend/internal/models"
)

func TestGraph_SelfFollowRejected(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a := env.mustUser(ctx, "uid-a", "a@example.com")

	_, err := env.graph.ToggleFollow(ctx, "uid-a", a.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)
	assert.Empty(t, env.notificationsFor(ctx, a.ID))
}

func TestGraph_FollowUnknownTarget(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.mustUser(ctx, "uid-a", "a@example.com")

	_, err := env.graph.ToggleFollow(ctx, "uid-a", primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGraph_FollowIsSymmetricAndNotifies(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a := env.mustUser(ctx, "uid-a", "a@example.com")
	b := env.mustUser(ctx, "uid-b", "b@example.com")

	following, err := env.graph.ToggleFollow(ctx, "uid-a", b.ID)
	require.NoError(t, err)
	assert.True(t, following)

	aAfter, _ := env.users.GetByID(ctx, a.ID)
	bAfter, _ := env.users.GetByID(ctx, b.ID)
	assert.Equal(t, []primitive.ObjectID{b.ID}, aAfter.Following)
	assert.Equal(t, []primitive.ObjectID{a.ID}, bAfter.Followers)
	assert.Empty(t, aAfter.Followers)
	assert.Empty(t, bAfter.Following)

	notifications := env.notificationsFor(ctx, b.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationFollow, notifications[0].Type)
	assert.Equal(t, a.ID, notifications[0].From)
	assert.Equal(t, b.ID, notifications[0].To)
}

func TestGraph_ToggleReturnsEdgeToAbsent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a := env.mustUser(ctx, "uid-a", "a@example.com")
	b := env.mustUser(ctx, "uid-b", "b@example.com")

	_, err := env.graph.ToggleFollow(ctx, "uid-a", b.ID)
	require.NoError(t, err)

	following, err := env.graph.ToggleFollow(ctx, "uid-a", b.ID)
	require.NoError(t, err)
	assert.False(t, following)

	aAfter, _ := env.users.GetByID(ctx, a.ID)
	bAfter, _ := env.users.GetByID(ctx, b.ID)
	assert.Empty(t, aAfter.Following)
	assert.Empty(t, bAfter.Followers)

	// Unfollow emits nothing; only the original follow notification exists.
	assert.Len(t, env.notificationsFor(ctx, b.ID), 1)
}

func TestGraph_MutualFollowKeepsSetsDistinct(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a := env.mustUser(ctx, "uid-a", "a@example.com")
	b := env.mustUser(ctx, "uid-b", "b@example.com")

	_, err := env.graph.ToggleFollow(ctx, "uid-a", b.ID)
	require.NoError(t, err)
	_, err = env.graph.ToggleFollow(ctx, "uid-b", a.ID)
	require.NoError(t, err)

	aAfter, _ := env.users.GetByID(ctx, a.ID)
	bAfter, _ := env.users.GetByID(ctx, b.ID)
	assert.Equal(t, []primitive.ObjectID{b.ID}, aAfter.Following)
	assert.Equal(t, []primitive.ObjectID{b.ID}, aAfter.Followers)
	assert.Equal(t, []primitive.ObjectID{a.ID}, bAfter.Following)
	assert.Equal(t, []primitive.ObjectID{a.ID}, bAfter.Followers)
}
