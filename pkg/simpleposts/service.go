package simpleposts

import "context"

// Service defines the main interface for the simple-posts library
type Service interface {
	// Registry operations
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
	GetPosts(ctx context.Context) ([]*Post, error)
	SearchPosts(ctx context.Context, query string) ([]*Post, error)
	DeletePost(ctx context.Context, id string) error

	// Donation operations
	DonateToAuthor(ctx context.Context, req DonateRequest) (Amount, error)
	GetDonations(ctx context.Context, id string) (Amount, error)
}
