package memory

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sync"

	"github.com/tendant/simple-posts/pkg/simpleposts"
)

// Store is an in-memory implementation of the simpleposts.BlobStore interface.
// Addresses are hex-encoded sha-256 digests of the content, so identical
// payloads share one entry and one address.
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// New creates a new in-memory blob store
func New() simpleposts.BlobStore {
	return &Store{
		blobs: make(map[string][]byte),
	}
}

// Add stores the payload and returns its content address
func (s *Store) Add(ctx context.Context, reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", &simpleposts.StorageError{Backend: "memory", Op: "add", Err: err}
	}

	sum := sha256.Sum256(data)
	address := hex.EncodeToString(sum[:])

	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[address] = data
	return address, nil
}

// Get retrieves a blob by content address
func (s *Store) Get(ctx context.Context, address string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.blobs[address]
	if !exists {
		return nil, &simpleposts.StorageError{
			Backend: "memory",
			Address: address,
			Op:      "get",
			Err:     simpleposts.ErrBlobNotFound,
		}
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Has checks whether a blob exists for the address
func (s *Store) Has(ctx context.Context, address string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.blobs[address]
	return exists, nil
}
