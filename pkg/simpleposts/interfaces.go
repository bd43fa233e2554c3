package simpleposts

import (
	"context"
	"io"
)

// BlobStore defines the interface for content-addressed blob storage.
//
// Addresses are derived deterministically from content bytes by the backend
// (identical payloads yield identical addresses). The registry never inspects
// address structure.
type BlobStore interface {
	// Add stores the payload and returns its content address.
	Add(ctx context.Context, reader io.Reader) (string, error)

	// Get retrieves a blob by content address.
	Get(ctx context.Context, address string) (io.ReadCloser, error)

	// Has checks whether a blob exists for the address.
	Has(ctx context.Context, address string) (bool, error)
}

// Repository defines the interface for post persistence.
//
// Implementations must be safe for concurrent use and must preserve insertion
// order for ListPosts and SearchPosts. AddDonation performs the checked
// 128-bit accumulation atomically with the lookup.
type Repository interface {
	// CreatePost appends a post to the registry.
	CreatePost(ctx context.Context, post *Post) error

	// GetPost returns the post with the given id, or ErrPostNotFound.
	GetPost(ctx context.Context, id string) (*Post, error)

	// ListPosts returns an independent copy of all posts in insertion order.
	ListPosts(ctx context.Context) ([]*Post, error)

	// SearchPosts returns posts whose title contains query as an exact,
	// case-sensitive substring, in insertion order.
	SearchPosts(ctx context.Context, query string) ([]*Post, error)

	// DeletePost removes the post with the given id. Unknown ids are a no-op.
	DeletePost(ctx context.Context, id string) error

	// AddDonation adds amount to the post's donation total and returns the
	// new total. Returns ErrPostNotFound for unknown ids and
	// ErrAmountOverflow when the sum would not fit, leaving the total
	// unchanged in both cases.
	AddDonation(ctx context.Context, id string, amount Amount) (Amount, error)

	// GetDonations returns the post's current donation total, or
	// ErrPostNotFound. Read-only.
	GetDonations(ctx context.Context, id string) (Amount, error)
}

// FundsTransferrer moves donated funds to a recipient account.
//
// The registry treats a nil error as the transfer being accepted; the ledger
// is only updated after acceptance. Actual settlement is out of band.
type FundsTransferrer interface {
	Transfer(ctx context.Context, recipient string, amount Amount) error
}

// IdentityProvider supplies the identity of the current caller and signer as
// opaque, stable strings.
type IdentityProvider interface {
	// Caller returns the account invoking the current operation.
	Caller(ctx context.Context) (string, error)

	// Signer returns the account funding the current operation.
	Signer(ctx context.Context) (string, error)
}

// EventSink defines the interface for advisory event handling.
// Sink errors never affect the outcome of registry operations.
type EventSink interface {
	// PostCreated is fired when a post is created
	PostCreated(ctx context.Context, post *Post) error

	// PostDeleted is fired when a post is deleted
	PostDeleted(ctx context.Context, postID string) error

	// DonationRecorded is fired when a donation is added to the ledger
	DonationRecorded(ctx context.Context, post *Post, amount Amount) error

	// DonationMissed is fired when a donation targets an unknown post
	DonationMissed(ctx context.Context, postID string, amount Amount) error
}
