package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/tendant/simple-posts/pkg/simpleposts"
)

// Repository implements simpleposts.Repository using in-memory storage.
//
// Posts live in an insertion-ordered slice; an id index keeps lookups,
// donations, and deletes constant-time while listing and search keep
// creation order. All operations serialize on one RWMutex, so every
// operation observes fully-applied mutations only.
type Repository struct {
	mu    sync.RWMutex
	posts []*simpleposts.Post
	byID  map[string]*simpleposts.Post
}

// New creates a new in-memory repository
func New() simpleposts.Repository {
	return &Repository{
		byID: make(map[string]*simpleposts.Post),
	}
}

func (r *Repository) CreatePost(ctx context.Context, post *simpleposts.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to avoid external modifications
	postCopy := post.Clone()
	r.posts = append(r.posts, postCopy)
	r.byID[postCopy.ID] = postCopy

	return nil
}

func (r *Repository) GetPost(ctx context.Context, id string) (*simpleposts.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, exists := r.byID[id]
	if !exists {
		return nil, simpleposts.ErrPostNotFound
	}
	// Return a copy to prevent external modifications
	return post.Clone(), nil
}

func (r *Repository) ListPosts(ctx context.Context) ([]*simpleposts.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*simpleposts.Post, 0, len(r.posts))
	for _, post := range r.posts {
		result = append(result, post.Clone())
	}

	return result, nil
}

func (r *Repository) SearchPosts(ctx context.Context, query string) ([]*simpleposts.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Empty query matches every post: "" is a substring of everything.
	result := make([]*simpleposts.Post, 0)
	for _, post := range r.posts {
		if strings.Contains(post.Title, query) {
			result = append(result, post.Clone())
		}
	}

	return result, nil
}

func (r *Repository) DeletePost(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		// Unknown id deletes nothing and is not an error.
		return nil
	}

	delete(r.byID, id)
	for i, post := range r.posts {
		if post.ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			break
		}
	}

	return nil
}

func (r *Repository) AddDonation(ctx context.Context, id string, amount simpleposts.Amount) (simpleposts.Amount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, exists := r.byID[id]
	if !exists {
		return simpleposts.Amount{}, simpleposts.ErrPostNotFound
	}

	total, err := post.DonationTotal.Add(amount)
	if err != nil {
		// Total unchanged on overflow.
		return simpleposts.Amount{}, err
	}
	post.DonationTotal = total

	return total, nil
}

func (r *Repository) GetDonations(ctx context.Context, id string) (simpleposts.Amount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, exists := r.byID[id]
	if !exists {
		return simpleposts.Amount{}, simpleposts.ErrPostNotFound
	}

	return post.DonationTotal, nil
}
