package simpleposts

import (
	"bytes"
	"context"
	"fmt"
	"time"
)

// ImageResolver turns a raw image payload into a stable content address.
type ImageResolver interface {
	// Resolve submits the payload to the blob store and returns its content
	// address. Errors wrap ErrResolutionFailed.
	Resolve(ctx context.Context, payload []byte) (string, error)
}

// blobResolver resolves payloads through a content-addressed BlobStore.
type blobResolver struct {
	store   BlobStore
	timeout time.Duration
}

// ResolverOption configures an ImageResolver.
type ResolverOption func(*blobResolver)

// WithResolveTimeout bounds each Resolve call. The default is 10 seconds;
// zero disables the bound.
func WithResolveTimeout(d time.Duration) ResolverOption {
	return func(r *blobResolver) {
		r.timeout = d
	}
}

// NewImageResolver creates a resolver backed by the given blob store.
func NewImageResolver(store BlobStore, opts ...ResolverOption) ImageResolver {
	r := &blobResolver{
		store:   store,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *blobResolver) Resolve(ctx context.Context, payload []byte) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	address, err := r.store.Add(ctx, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}
	return address, nil
}
