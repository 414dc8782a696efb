package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ripplegram/backend/internal/models"
	"github.com/ripplegram/backend/internal/repositories"
	"github.com/ripplegram/backend/internal/storage"
	"github.com/ripplegram/backend/pkg/log"
)

// ImageUpload carries an inbound multipart image to the media store.
type ImageUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Filename    string
}

// ContentService implements post and comment creation, retrieval, like
// toggling and ownership-gated cascade deletion.
type ContentService struct {
	users         repositories.UserRepository
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
	identity      *IdentityService
	notifications *NotificationService
	uploader      storage.Uploader
}

// NewContentService creates a ContentService.
func NewContentService(
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	identity *IdentityService,
	notifications *NotificationService,
	uploader storage.Uploader,
) *ContentService {
	return &ContentService{
		users:         userRepo,
		posts:         postRepo,
		comments:      commentRepo,
		identity:      identity,
		notifications: notifications,
		uploader:      uploader,
	}
}

// CreatePost creates a post owned by the authenticated user. A post needs
// text content or an image; the image, when present, is stored in the
// media store and only its durable URL is persisted.
func (s *ContentService) CreatePost(ctx context.Context, firebaseUID, content string, image *ImageUpload) (*models.Post, error) {
	if strings.TrimSpace(content) == "" && image == nil {
		return nil, ErrEmptyPost
	}

	owner, err := s.identity.GetCurrent(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		User:    owner.ID,
		Content: content,
	}

	if image != nil {
		if !strings.HasPrefix(image.ContentType, "image/") {
			return nil, ErrInvalidImage
		}
		if s.uploader == nil {
			return nil, fmt.Errorf("%w: media storage not configured", ErrUpstream)
		}

		key := "posts/" + uuid.NewString() + imageExt(image)
		url, err := s.uploader.Upload(ctx, key, image.Reader, image.Size, image.ContentType)
		if err != nil {
			return nil, fmt.Errorf("%w: image upload: %v", ErrUpstream, err)
		}
		post.Image = url
		post.ImageKey = key
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost returns one post expanded with owner and comment-owner summaries.
func (s *ContentService) GetPost(ctx context.Context, postID primitive.ObjectID) (*models.ExpandedPost, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	expanded, err := s.expandPosts(ctx, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &expanded[0], nil
}

// ListPosts returns all posts in reverse-chronological order.
func (s *ContentService) ListPosts(ctx context.Context, skip, limit int64) ([]models.ExpandedPost, error) {
	posts, err := s.posts.GetAll(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	return s.expandPosts(ctx, posts)
}

// ListUserPosts returns a user's posts in reverse-chronological order.
func (s *ContentService) ListUserPosts(ctx context.Context, username string, skip, limit int64) ([]models.ExpandedPost, error) {
	user, err := s.identity.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.GetByUser(ctx, user.ID, skip, limit)
	if err != nil {
		return nil, err
	}
	return s.expandPosts(ctx, posts)
}

// ToggleLike flips the actor's membership in the post's like set. Returns
// whether the post is liked by the actor after the call. A notification is
// emitted only on the unliked→liked transition, and Emit suppresses it
// when the actor owns the post.
func (s *ContentService) ToggleLike(ctx context.Context, firebaseUID string, postID primitive.ObjectID) (bool, error) {
	actor, err := s.identity.GetCurrent(ctx, firebaseUID)
	if err != nil {
		return false, err
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return false, ErrNotFound
		}
		return false, err
	}

	if contains(post.Likes, actor.ID) {
		if err := s.posts.RemoveLike(ctx, postID, actor.ID); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := s.posts.AddLike(ctx, postID, actor.ID); err != nil {
		return false, err
	}

	s.notifications.Emit(ctx, actor.ID, post.User, models.NotificationLike, &post.ID, nil)
	return true, nil
}

// DeletePost deletes a post and every comment referencing it. Only the
// owner may delete. Comments are removed before the post so a crash
// mid-cascade leaves orphaned comments, never a post with dangling comment
// references.
func (s *ContentService) DeletePost(ctx context.Context, firebaseUID string, postID primitive.ObjectID) error {
	requester, err := s.identity.GetCurrent(ctx, firebaseUID)
	if err != nil {
		return err
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return ErrNotFound
		}
		return err
	}

	if post.User != requester.ID {
		return ErrForbidden
	}

	if _, err := s.comments.DeleteByPost(ctx, postID); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	if post.ImageKey != "" && s.uploader != nil {
		if err := s.uploader.Delete(ctx, post.ImageKey); err != nil {
			log.L().Warn().Err(err).Str("key", post.ImageKey).Msg("failed to delete post image from media store")
		}
	}
	return nil
}

// CreateComment creates a comment on a post, appends its reference to the
// post's comment list and notifies the post owner unless the commenter is
// the owner.
func (s *ContentService) CreateComment(ctx context.Context, firebaseUID string, postID primitive.ObjectID, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyComment
	}

	commenter, err := s.identity.GetCurrent(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comment := &models.Comment{
		User:    commenter.ID,
		Post:    postID,
		Content: content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.posts.AddComment(ctx, postID, comment.ID); err != nil {
		return nil, err
	}

	s.notifications.Emit(ctx, commenter.ID, post.User, models.NotificationComment, &post.ID, &comment.ID)
	return comment, nil
}

// DeleteComment deletes a comment. Only the owner may delete. The comment
// reference is detached from the parent post before the comment record is
// removed.
func (s *ContentService) DeleteComment(ctx context.Context, firebaseUID string, commentID primitive.ObjectID) error {
	requester, err := s.identity.GetCurrent(ctx, firebaseUID)
	if err != nil {
		return err
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return ErrNotFound
		}
		return err
	}

	if comment.User != requester.ID {
		return ErrForbidden
	}

	if err := s.posts.RemoveComment(ctx, comment.Post, commentID); err != nil && err != repositories.ErrNotFound {
		return err
	}
	return s.comments.Delete(ctx, commentID)
}

// ListComments returns a post's comments, newest first, each expanded with
// the owner summary.
func (s *ContentService) ListComments(ctx context.Context, postID primitive.ObjectID) ([]models.ExpandedComment, error) {
	comments, err := s.comments.GetByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	summaries, err := s.userSummaries(ctx, commentOwnerIDs(comments))
	if err != nil {
		return nil, err
	}

	expanded := make([]models.ExpandedComment, len(comments))
	for i, c := range comments {
		expanded[i] = models.ExpandedComment{Comment: c, Owner: summaries[c.User]}
	}
	return expanded, nil
}

// expandPosts joins owner and comment-owner summaries onto posts
// application-side. Both the comments and the user summaries are fetched
// with one $in query each, whatever the page size.
func (s *ContentService) expandPosts(ctx context.Context, posts []models.Post) ([]models.ExpandedPost, error) {
	postIDs := make([]primitive.ObjectID, len(posts))
	ownerIDs := make([]primitive.ObjectID, 0, len(posts))
	seen := make(map[primitive.ObjectID]bool)

	for i, p := range posts {
		postIDs[i] = p.ID
		if !seen[p.User] {
			seen[p.User] = true
			ownerIDs = append(ownerIDs, p.User)
		}
	}

	comments, err := s.comments.GetByPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	commentsByPost := make(map[primitive.ObjectID][]models.Comment, len(posts))
	for _, c := range comments {
		commentsByPost[c.Post] = append(commentsByPost[c.Post], c)
		if !seen[c.User] {
			seen[c.User] = true
			ownerIDs = append(ownerIDs, c.User)
		}
	}

	summaries, err := s.userSummaries(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	expanded := make([]models.ExpandedPost, len(posts))
	for i, p := range posts {
		comments := commentsByPost[p.ID]
		details := make([]models.ExpandedComment, len(comments))
		for j, c := range comments {
			details[j] = models.ExpandedComment{Comment: c, Owner: summaries[c.User]}
		}
		expanded[i] = models.ExpandedPost{
			Post:            p,
			Owner:           summaries[p.User],
			CommentsDetails: details,
		}
	}
	return expanded, nil
}

func (s *ContentService) userSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	summaries := make(map[primitive.ObjectID]models.UserSummary, len(users))
	for i := range users {
		summaries[users[i].ID] = users[i].Summary()
	}
	return summaries, nil
}

func commentOwnerIDs(comments []models.Comment) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(comments))
	seen := make(map[primitive.ObjectID]bool)
	for _, c := range comments {
		if !seen[c.User] {
			seen[c.User] = true
			ids = append(ids, c.User)
		}
	}
	return ids
}

func imageExt(image *ImageUpload) string {
	if ext := path.Ext(image.Filename); ext != "" {
		return ext
	}
	switch image.ContentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}
