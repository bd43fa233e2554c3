// Package ipfs implements simpleposts.BlobStore against the HTTP API of an
// IPFS-compatible daemon (kubo, ipfs-cluster proxies, Pinata-style gateways).
// The daemon derives the content address; this store never computes hashes
// itself, so addresses follow whatever CID version the daemon is configured
// for.
package ipfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tendant/simple-posts/pkg/simpleposts"
)

// Config options for the IPFS store
type Config struct {
	// APIURL is the daemon API endpoint, e.g. "http://127.0.0.1:5001".
	APIURL string

	// RequestTimeout bounds each API round-trip (default: 30s).
	RequestTimeout time.Duration

	// Pin controls whether added blobs are pinned (default: true).
	Pin bool

	// HTTPClient overrides the default client; mainly for tests.
	HTTPClient *http.Client
}

// Store talks to an IPFS-compatible daemon over its HTTP API.
type Store struct {
	apiURL string
	pin    bool
	client *http.Client
}

// New creates a new IPFS-backed blob store
func New(config Config) (simpleposts.BlobStore, error) {
	if config.APIURL == "" {
		return nil, errors.New("api url is required")
	}
	if _, err := url.Parse(config.APIURL); err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}

	timeout := config.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	return &Store{
		apiURL: strings.TrimRight(config.APIURL, "/"),
		pin:    config.Pin,
		client: client,
	}, nil
}

type addResponse struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size"`
}

// Add submits the payload to /api/v0/add and returns the daemon's CID
func (s *Store) Add(ctx context.Context, reader io.Reader) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", "blob")
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, reader); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	endpoint := fmt.Sprintf("%s/api/v0/add?pin=%t", s.apiURL, s.pin)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return "", &simpleposts.StorageError{Backend: "ipfs", Op: "add", Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &simpleposts.StorageError{Backend: "ipfs", Op: "add", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &simpleposts.StorageError{
			Backend: "ipfs",
			Op:      "add",
			Err:     fmt.Errorf("daemon returned %s: %s", resp.Status, strings.TrimSpace(string(body))),
		}
	}

	var added addResponse
	if err := json.NewDecoder(resp.Body).Decode(&added); err != nil {
		return "", &simpleposts.StorageError{Backend: "ipfs", Op: "add", Err: err}
	}
	if added.Hash == "" {
		return "", &simpleposts.StorageError{
			Backend: "ipfs",
			Op:      "add",
			Err:     errors.New("daemon returned no hash"),
		}
	}

	return added.Hash, nil
}

// Get streams a blob from /api/v0/cat
func (s *Store) Get(ctx context.Context, address string) (io.ReadCloser, error) {
	endpoint := fmt.Sprintf("%s/api/v0/cat?arg=%s", s.apiURL, url.QueryEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, &simpleposts.StorageError{Backend: "ipfs", Address: address, Op: "get", Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &simpleposts.StorageError{Backend: "ipfs", Address: address, Op: "get", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		errValue := error(simpleposts.ErrBlobNotFound)
		if resp.StatusCode != http.StatusNotFound && resp.StatusCode != http.StatusInternalServerError {
			errValue = fmt.Errorf("daemon returned %s", resp.Status)
		}
		return nil, &simpleposts.StorageError{Backend: "ipfs", Address: address, Op: "get", Err: errValue}
	}

	return resp.Body, nil
}

// Has checks /api/v0/block/stat for the address
func (s *Store) Has(ctx context.Context, address string) (bool, error) {
	endpoint := fmt.Sprintf("%s/api/v0/block/stat?arg=%s", s.apiURL, url.QueryEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return false, &simpleposts.StorageError{Backend: "ipfs", Address: address, Op: "has", Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, &simpleposts.StorageError{Backend: "ipfs", Address: address, Op: "has", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK, nil
}
