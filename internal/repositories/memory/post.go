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

// PostRepository is an in-memory repositories.PostRepository.
type PostRepository struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*models.Post
	seq   map[primitive.ObjectID]int64
	next  int64
}

// NewPostRepository creates an empty in-memory post repository.
func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts: make(map[primitive.ObjectID]*models.Post),
		seq:   make(map[primitive.ObjectID]int64),
	}
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []primitive.ObjectID{}
	}

	stored := *post
	r.posts[post.ID] = &stored
	r.next++
	r.seq[post.ID] = r.next
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyPost(p), nil
}

func (r *PostRepository) GetAll(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	return r.list(func(*models.Post) bool { return true }, skip, limit)
}

func (r *PostRepository) GetByUser(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Post, error) {
	return r.list(func(p *models.Post) bool { return p.User == userID }, skip, limit)
}

func (r *PostRepository) AddLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	return r.mutate(postID, func(p *models.Post) {
		p.Likes = addToSet(p.Likes, userID)
	})
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	return r.mutate(postID, func(p *models.Post) {
		p.Likes = pull(p.Likes, userID)
	})
}

func (r *PostRepository) AddComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	return r.mutate(postID, func(p *models.Post) {
		p.Comments = append(p.Comments, commentID)
	})
}

func (r *PostRepository) RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	return r.mutate(postID, func(p *models.Post) {
		p.Comments = pull(p.Comments, commentID)
	})
}

func (r *PostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.posts, id)
	delete(r.seq, id)
	return nil
}

func (r *PostRepository) list(match func(*models.Post) bool, skip, limit int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var posts []models.Post
	for _, p := range r.posts {
		if match(p) {
			posts = append(posts, *copyPost(p))
		}
	}
	// Newest first; insertion order breaks CreatedAt ties.
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return r.seq[posts[i].ID] > r.seq[posts[j].ID]
	})

	if skip > 0 {
		if skip >= int64(len(posts)) {
			return nil, nil
		}
		posts = posts[skip:]
	}
	if limit > 0 && limit < int64(len(posts)) {
		posts = posts[:limit]
	}
	return posts, nil
}

func (r *PostRepository) mutate(id primitive.ObjectID, mutate func(*models.Post)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	mutate(p)
	return nil
}

func copyPost(p *models.Post) *models.Post {
	c := *p
	c.Likes = append([]primitive.ObjectID(nil), p.Likes...)
	c.Comments = append([]primitive.ObjectID(nil), p.Comments...)
	return &c
}

var _ repositories.PostRepository = (*PostRepository)(nil)
