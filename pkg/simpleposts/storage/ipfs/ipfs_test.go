package ipfs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-posts/pkg/simpleposts"
)

// fakeDaemon is a minimal stand-in for the kubo HTTP API, addressing blobs
// by their sha-256 digest instead of a real CID.
type fakeDaemon struct {
	blobs   map[string][]byte
	lastPin string
}

func newFakeDaemon() *fakeDaemon {
	return &fakeDaemon{blobs: make(map[string][]byte)}
}

func (d *fakeDaemon) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v0/add", func(w http.ResponseWriter, r *http.Request) {
		d.lastPin = r.URL.Query().Get("pin")

		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		sum := sha256.Sum256(data)
		hash := hex.EncodeToString(sum[:])
		d.blobs[hash] = data

		json.NewEncoder(w).Encode(map[string]string{
			"Name": "blob",
			"Hash": hash,
			"Size": fmt.Sprintf("%d", len(data)),
		})
	})

	mux.HandleFunc("/api/v0/cat", func(w http.ResponseWriter, r *http.Request) {
		data, ok := d.blobs[r.URL.Query().Get("arg")]
		if !ok {
			http.Error(w, "merkledag: not found", http.StatusInternalServerError)
			return
		}
		w.Write(data)
	})

	mux.HandleFunc("/api/v0/block/stat", func(w http.ResponseWriter, r *http.Request) {
		hash := r.URL.Query().Get("arg")
		data, ok := d.blobs[hash]
		if !ok {
			http.Error(w, "merkledag: not found", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"Key": hash, "Size": len(data)})
	})

	return mux
}

func newTestStore(t *testing.T) (simpleposts.BlobStore, *fakeDaemon) {
	daemon := newFakeDaemon()
	server := httptest.NewServer(daemon.handler())
	t.Cleanup(server.Close)

	store, err := New(Config{APIURL: server.URL, Pin: true})
	require.NoError(t, err)
	return store, daemon
}

func TestNew(t *testing.T) {
	t.Run("requires an api url", func(t *testing.T) {
		_, err := New(Config{})
		assert.Error(t, err)
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		store, err := New(Config{APIURL: "http://127.0.0.1:5001/"})
		require.NoError(t, err)
		assert.NotNil(t, store)
	})
}

func TestIPFSStore(t *testing.T) {
	ctx := context.Background()
	content := []byte("blob content")

	t.Run("add returns the daemon's hash", func(t *testing.T) {
		store, daemon := newTestStore(t)

		address, err := store.Add(ctx, bytes.NewReader(content))
		require.NoError(t, err)
		assert.NotEmpty(t, address)
		assert.Contains(t, daemon.blobs, address)
		assert.Equal(t, "true", daemon.lastPin)
	})

	t.Run("get round trips the content", func(t *testing.T) {
		store, _ := newTestStore(t)

		address, err := store.Add(ctx, bytes.NewReader(content))
		require.NoError(t, err)

		reader, err := store.Get(ctx, address)
		require.NoError(t, err)
		defer reader.Close()

		got, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("get unknown address", func(t *testing.T) {
		store, _ := newTestStore(t)

		_, err := store.Get(ctx, "QmUnknown")
		assert.ErrorIs(t, err, simpleposts.ErrBlobNotFound)

		var serr *simpleposts.StorageError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, "ipfs", serr.Backend)
	})

	t.Run("has", func(t *testing.T) {
		store, _ := newTestStore(t)

		address, err := store.Add(ctx, bytes.NewReader(content))
		require.NoError(t, err)

		exists, err := store.Has(ctx, address)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = store.Has(ctx, "QmUnknown")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("daemon failure on add", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "daemon exploding", http.StatusInternalServerError)
		}))
		t.Cleanup(server.Close)

		store, err := New(Config{APIURL: server.URL})
		require.NoError(t, err)

		_, err = store.Add(ctx, bytes.NewReader(content))
		require.Error(t, err)

		var serr *simpleposts.StorageError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, "add", serr.Op)
	})
}
