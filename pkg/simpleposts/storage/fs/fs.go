package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tendant/simple-posts/pkg/simpleposts"
)

// Store is a filesystem implementation of the simpleposts.BlobStore interface.
// Blobs are stored under baseDir, sharded by the first two characters of
// their hex sha-256 address.
type Store struct {
	baseDir string
}

// Config options for the filesystem store
type Config struct {
	BaseDir string // Base directory for storing blobs
}

// New creates a new filesystem blob store
func New(config Config) (simpleposts.BlobStore, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Store{baseDir: config.BaseDir}, nil
}

func (s *Store) blobPath(address string) string {
	if len(address) < 2 {
		return filepath.Join(s.baseDir, address)
	}
	return filepath.Join(s.baseDir, address[:2], address)
}

// Add stores the payload and returns its content address
func (s *Store) Add(ctx context.Context, reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", &simpleposts.StorageError{Backend: "fs", Op: "add", Err: err}
	}

	sum := sha256.Sum256(data)
	address := hex.EncodeToString(sum[:])

	path := s.blobPath(address)
	if _, err := os.Stat(path); err == nil {
		// Content-addressed: an existing blob with this address is this blob.
		return address, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", &simpleposts.StorageError{Backend: "fs", Address: address, Op: "add", Err: err}
	}

	// Write then rename so readers never see a partial blob.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".blob-*")
	if err != nil {
		return "", &simpleposts.StorageError{Backend: "fs", Address: address, Op: "add", Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", &simpleposts.StorageError{Backend: "fs", Address: address, Op: "add", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", &simpleposts.StorageError{Backend: "fs", Address: address, Op: "add", Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", &simpleposts.StorageError{Backend: "fs", Address: address, Op: "add", Err: err}
	}

	return address, nil
}

// Get retrieves a blob by content address
func (s *Store) Get(ctx context.Context, address string) (io.ReadCloser, error) {
	file, err := os.Open(s.blobPath(address))
	if os.IsNotExist(err) {
		return nil, &simpleposts.StorageError{
			Backend: "fs",
			Address: address,
			Op:      "get",
			Err:     simpleposts.ErrBlobNotFound,
		}
	} else if err != nil {
		return nil, &simpleposts.StorageError{Backend: "fs", Address: address, Op: "get", Err: err}
	}

	return file, nil
}

// Has checks whether a blob exists for the address
func (s *Store) Has(ctx context.Context, address string) (bool, error) {
	_, err := os.Stat(s.blobPath(address))
	if os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, &simpleposts.StorageError{Backend: "fs", Address: address, Op: "has", Err: err}
	}
	return true, nil
}
