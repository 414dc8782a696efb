package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ripplegram/backend/internal/models"
	"github.com/ripplegram/backend/internal/repositories"
)

// CommentRepository is an in-memory repositories.CommentRepository.
type CommentRepository struct {
	mu       sync.Mutex
	comments map[primitive.ObjectID]*models.Comment
	seq      map[primitive.ObjectID]int64
	next     int64
}

// NewCommentRepository creates an empty in-memory comment repository.
func NewCommentRepository() *CommentRepository {
	return &CommentRepository{
		comments: make(map[primitive.ObjectID]*models.Comment),
		seq:      make(map[primitive.ObjectID]int64),
	}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()

	stored := *comment
	r.comments[comment.ID] = &stored
	r.next++
	r.seq[comment.ID] = r.next
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cc := *c
	return &cc, nil
}

func (r *CommentRepository) GetByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	return r.list(func(c *models.Comment) bool { return c.Post == postID })
}

func (r *CommentRepository) GetByPosts(ctx context.Context, postIDs []primitive.ObjectID) ([]models.Comment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	wanted := make(map[primitive.ObjectID]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = true
	}
	return r.list(func(c *models.Comment) bool { return wanted[c.Post] })
}

func (r *CommentRepository) list(match func(*models.Comment) bool) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var comments []models.Comment
	for _, c := range r.comments {
		if match(c) {
			comments = append(comments, *c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.After(comments[j].CreatedAt)
		}
		return r.seq[comments[i].ID] > r.seq[comments[j].ID]
	})
	return comments, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.comments, id)
	delete(r.seq, id)
	return nil
}

func (r *CommentRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, c := range r.comments {
		if c.Post == postID {
			delete(r.comments, id)
			delete(r.seq, id)
			deleted++
		}
	}
	return deleted, nil
}

var _ repositories.CommentRepository = (*CommentRepository)(nil)
