package simpleposts

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrPostNotFound indicates a post was not found
	ErrPostNotFound = errors.New("post not found")

	// ErrAmountOverflow indicates a donation would overflow the 128-bit total
	ErrAmountOverflow = errors.New("donation total overflow")

	// ErrInvalidAmount indicates a malformed or out-of-range amount value
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrResolutionFailed indicates the blob store could not resolve an image payload
	ErrResolutionFailed = errors.New("image resolution failed")

	// ErrTransferFailed indicates the funds transfer collaborator rejected a transfer
	ErrTransferFailed = errors.New("transfer failed")

	// ErrBlobNotFound indicates a blob was not found for a content address
	ErrBlobNotFound = errors.New("blob not found")
)

// PostError represents an error related to registry operations
type PostError struct {
	PostID string
	Op     string
	Err    error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("post operation %s failed for post %s: %v", e.Op, e.PostID, e.Err)
}

func (e *PostError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob store operations
type StorageError struct {
	Backend string
	Address string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for address %s on backend %s: %v", e.Op, e.Address, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
