package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ripplegram/backend/internal/models"
	"github.com/ripplegram/backend/internal/repositories"
)

func TestContent_CreatePostRequiresContentOrImage(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.mustUser(ctx, "uid-a", "a@example.com")

	_, err := env.content.CreatePost(ctx, "uid-a", "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyPost)
}

func TestContent_CreatePostWithContent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a := env.mustUser(ctx, "uid-a", "a@example.com")

	post, err := env.content.CreatePost(ctx, "uid-a", "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, a.ID, post.User)
	assert.Equal(t, "hi", post.Content)
	assert.Empty(t, post.Likes)
	assert.Empty(t, post.Comments)
}

func TestContent_CreatePostWithImage(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.mustUser(ctx, "uid-a", "a@example.com")

	post, err := env.content.CreatePost(ctx, "uid-a", "", &ImageUpload{
		Reader:      strings.NewReader("fake-image-bytes"),
		Size:        16,
		ContentType: "image/png",
		Filename:    "pic.png",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(post.Image, "https://cdn.test/posts/"))
	assert.True(t, strings.HasSuffix(post.Image, ".png"))
	require.Len(t, env.uploader.uploaded, 1)
	assert.Equal(t, post.ImageKey, env.uploader.uploaded[0])
}

func TestContent_CreatePostRejectsNonImageUpload(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.mustUser(ctx, "uid-a", "a@example.com")

	_, err := env.content.CreatePost(ctx, "uid-a", "", &ImageUpload{
		Reader:      strings.NewReader("#!/bin/sh"),
		Size:        9,
		ContentType: "application/x-sh",
		Filename:    "script.sh",
	})
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestContent_LikeToggle(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a := env.mustUser(ctx, "uid-a", "a@example.com")
	env.mustUser(ctx, "uid-b", "b@example.com")
	post, err := env.content.CreatePost(ctx, "uid-a", "hi", nil)
	require.NoError(t, err)

	liked, err := env.content.ToggleLike(ctx, "uid-b", post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	after, _ := env.posts.GetByID(ctx, post.ID)
	require.Len(t, after.Likes, 1)

	notifications := env.notificationsFor(ctx, a.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationLike, notifications[0].Type)
	require.NotNil(t, notifications[0].Post)
	assert.Equal(t, post.ID, *notifications[0].Post)

	// Unlike returns the set to empty without a new notification.
	liked, err = env.content.ToggleLike(ctx, "uid-b", post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	after, _ = env.posts.GetByID(ctx, post.ID)
	assert.Empty(t, after.Likes)
	assert.Len(t, env.notificationsFor(ctx, a.ID), 1)
}

func TestContent_LikeNeverDuplicatesActor(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.mustUser(ctx, "uid-a", "a@example.com")
	b := env.mustUser(ctx, "uid-b", "b@example.com")
	post, err := env.content.CreatePost(ctx, "uid-a", "hi", nil)
	require.NoError(t, err)

	// Like, unlike, like again: the set holds the actor exactly once.
	for i := 0; i < 3; i++ {
		_, err = env.content.ToggleLike(ctx, "uid-b", post.ID)
		require.NoError(t, err)
	}

	after, _ := env.posts.GetByID(ctx, post.ID)
	assert.Equal(t, []primitive.ObjectID{b.ID}, after.Likes)
}

func TestContent_SelfLikeDoesNotNotify(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a := env.mustUser(ctx, "uid-a", "a@example.com")
	post, err := env.content.CreatePost(ctx, "uid-a", "hi", nil)
	require.NoError(t, err)

	liked, err := env.content.ToggleLike(ctx, "uid-a", post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Empty(t, env.notificationsFor(ctx, a.ID))
}

func TestContent_LikeUnknownPost(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.mustUser(ctx, "uid-a", "a@example.com")

	_, err := env.content.ToggleLike(ctx, "uid-a", primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContent_DeletePostCascadesToComments(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.mustUser(ctx, "uid-a", "a@example.com")
	env.mustUser(ctx, "uid-b", "b@example.com")

	post, err := env.content.CreatePost(ctx, "uid-a", "hi", nil)
	require.NoError(t, err)
	other, err := env.content.CreatePost(ctx, "uid-b", "mine", nil)
	require.NoError(t, err)

	c1, err := env.content.CreateComment(ctx, "uid-b", post.ID, "first")
	require.NoError(t, err)
	c2, err := env.content.CreateComment(ctx, "uid-a", post.ID, "second")
	require.NoError(t, err)
	keep, err := env.content.CreateComment(ctx, "uid-a", other.ID, "unrelated")
	require.NoError(t, err)

	require.NoError(t, env.content.DeletePost(ctx, "uid-a", post.ID))

	_, err = env.posts.GetByID(ctx, post.ID)
	assert.Error(t, err)
	_, err = env.content.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, id := range []primitive.ObjectID{c1.ID, c2.ID} {
		_, err = env.comments.GetByID(ctx, id)
		assert.Error(t, err, "cascade must delete every comment of the post")
	}

	// Comments of other posts survive.
	_, err = env.comments.GetByID(ctx, keep.ID)
	assert.NoError(t, err)
}

func TestContent_DeletePostRequiresOwnership(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.mustUser(ctx, "uid-a", "a@example.com")
	env.mustUser(ctx, "uid-b", "b@example.com")
	post, err := env.content.CreatePost(ctx, "uid-a", "hi", nil)
	require.NoError(t, err)

	err = env.content.DeletePost(ctx, "uid-b", post.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.posts.GetByID(ctx, post.ID)
	assert.NoError(t, err, "a forbidden delete must not remove the post")
}

func TestContent_DeletePostRemovesStoredImage(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.mustUser(ctx, "uid-a", "a@example.com")
	post, err := env.content.CreatePost(ctx, "uid-a", "", &ImageUpload{
		Reader:      strings.NewReader("img"),
		Size:        3,
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)

	require.NoError(t, env.content.DeletePost(ctx, "uid-a", post.ID))
	assert.Equal(t, []string{post.ImageKey}, env.uploader.deleted)
}

func TestContent_CommentLifecycle(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a := env.mustUser(ctx, "uid-a", "a@example.com")
	b := env.mustUser(ctx, "uid-b", "b@example.com")
	post, err := env.content.CreatePost(ctx, "uid-b", "b's post", nil)
	require.NoError(t, err)

	comment, err := env.content.CreateComment(ctx, "uid-a", post.ID, "nice!")
	require.NoError(t, err)
	assert.Equal(t, a.ID, comment.User)

	postAfter, _ := env.posts.GetByID(ctx, post.ID)
	assert.Equal(t, []primitive.ObjectID{comment.ID}, postAfter.Comments)

	notifications := env.notificationsFor(ctx, b.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationComment, notifications[0].Type)
	require.NotNil(t, notifications[0].Comment)
	assert.Equal(t, comment.ID, *notifications[0].Comment)

	require.NoError(t, env.content.DeleteComment(ctx, "uid-a", comment.ID))

	postAfter, _ = env.posts.GetByID(ctx, post.ID)
	assert.Empty(t, postAfter.Comments)
	_, err = env.comments.GetByID(ctx, comment.ID)
	assert.Error(t, err)
}

func TestContent_DeleteCommentLeavesSiblingsIntact(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.mustUser(ctx, "uid-a", "a@example.com")
	env.mustUser(ctx, "uid-b", "b@example.com")
	post, err := env.content.CreatePost(ctx, "uid-a", "hi", nil)
	require.NoError(t, err)

	c1, err := env.content.CreateComment(ctx, "uid-b", post.ID, "one")
	require.NoError(t, err)
	c2, err := env.content.CreateComment(ctx, "uid-b", post.ID, "two")
	require.NoError(t, err)

	require.NoError(t, env.content.DeleteComment(ctx, "uid-b", c1.ID))

	postAfter, _ := env.posts.GetByID(ctx, post.ID)
	assert.Equal(t, []primitive.ObjectID{c2.ID}, postAfter.Comments)
}

func TestContent_CommentValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.mustUser(ctx, "uid-a", "a@example.com")
	post, err := env.content.CreatePost(ctx, "uid-a", "hi", nil)
	require.NoError(t, err)

	_, err = env.content.CreateComment(ctx, "uid-a", post.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyComment)

	_, err = env.content.CreateComment(ctx, "uid-a", primitive.NewObjectID(), "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContent_SelfCommentDoesNotNotify(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a := env.mustUser(ctx, "uid-a", "a@example.com")
	post, err := env.content.CreatePost(ctx, "uid-a", "hi", nil)
	require.NoError(t, err)

	_, err = env.content.CreateComment(ctx, "uid-a", post.ID, "my own post")
	require.NoError(t, err)
	assert.Empty(t, env.notificationsFor(ctx, a.ID))
}

func TestContent_DeleteCommentRequiresOwnership(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.mustUser(ctx, "uid-a", "a@example.com")
	env.mustUser(ctx, "uid-b", "b@example.com")
	post, err := env.content.CreatePost(ctx, "uid-a", "hi", nil)
	require.NoError(t, err)
	comment, err := env.content.CreateComment(ctx, "uid-b", post.ID, "mine")
	require.NoError(t, err)

	err = env.content.DeleteComment(ctx, "uid-a", comment.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestContent_ListPostsExpandsOwners(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a := env.mustUser(ctx, "uid-a", "a@example.com")
	b := env.mustUser(ctx, "uid-b", "b@example.com")

	first, err := env.content.CreatePost(ctx, "uid-a", "first", nil)
	require.NoError(t, err)
	second, err := env.content.CreatePost(ctx, "uid-b", "second", nil)
	require.NoError(t, err)
	_, err = env.content.CreateComment(ctx, "uid-b", first.ID, "from b")
	require.NoError(t, err)

	posts, err := env.content.ListPosts(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	// Reverse-chronological.
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)

	assert.Equal(t, b.Username, posts[0].Owner.Username)
	assert.Equal(t, a.Username, posts[1].Owner.Username)
	require.Len(t, posts[1].CommentsDetails, 1)
	assert.Equal(t, b.Username, posts[1].CommentsDetails[0].Owner.Username)
}

func TestContent_ListUserPosts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.mustUser(ctx, "uid-a", "a@example.com")
	env.mustUser(ctx, "uid-b", "b@example.com")

	mine, err := env.content.CreatePost(ctx, "uid-a", "mine", nil)
	require.NoError(t, err)
	_, err = env.content.CreatePost(ctx, "uid-b", "other", nil)
	require.NoError(t, err)

	posts, err := env.content.ListUserPosts(ctx, "a", 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, mine.ID, posts[0].ID)

	_, err = env.content.ListUserPosts(ctx, "ghost", 0, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContent_ListPostsBatchesCommentReads(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.mustUser(ctx, "uid-a", "a@example.com")
	env.mustUser(ctx, "uid-b", "b@example.com")

	counting := &countingCommentRepo{CommentRepository: env.comments}
	content := NewContentService(env.users, env.posts, counting, env.identity, env.notify, env.uploader)

	for i := 0; i < 3; i++ {
		post, err := content.CreatePost(ctx, "uid-a", fmt.Sprintf("post %d", i), nil)
		require.NoError(t, err)
		_, err = content.CreateComment(ctx, "uid-b", post.ID, "hi")
		require.NoError(t, err)
	}
	counting.perPostReads = 0
	counting.batchReads = 0

	posts, err := content.ListPosts(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	for _, p := range posts {
		require.Len(t, p.CommentsDetails, 1, "each post keeps its own comments")
	}

	assert.Equal(t, 1, counting.batchReads, "one $in query serves the whole page")
	assert.Equal(t, 0, counting.perPostReads, "no per-post comment reads on the list path")
}

func TestContent_ListComments(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.mustUser(ctx, "uid-a", "a@example.com")
	b := env.mustUser(ctx, "uid-b", "b@example.com")
	post, err := env.content.CreatePost(ctx, "uid-a", "hi", nil)
	require.NoError(t, err)

	older, err := env.content.CreateComment(ctx, "uid-b", post.ID, "older")
	require.NoError(t, err)
	newer, err := env.content.CreateComment(ctx, "uid-b", post.ID, "newer")
	require.NoError(t, err)

	comments, err := env.content.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, newer.ID, comments[0].ID)
	assert.Equal(t, older.ID, comments[1].ID)
	assert.Equal(t, b.Username, comments[0].Owner.Username)
}

// countingCommentRepo counts read calls to distinguish per-post from
// batched comment fetches.
type countingCommentRepo struct {
	repositories.CommentRepository
	perPostReads int
	batchReads   int
}

func (r *countingCommentRepo) GetByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	r.perPostReads++
	return r.CommentRepository.GetByPost(ctx, postID)
}

func (r *countingCommentRepo) GetByPosts(ctx context.Context, postIDs []primitive.ObjectID) ([]models.Comment, error) {
	r.batchReads++
	return r.CommentRepository.GetByPosts(ctx, postIDs)
}
