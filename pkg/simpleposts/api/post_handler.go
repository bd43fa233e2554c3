package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-posts/pkg/simpleposts"
)

// CallerHeader carries the opaque account identity of the caller.
const CallerHeader = "X-Account-ID"

// SignerHeader carries the opaque account identity funding a donation.
// When absent the caller is the signer.
const SignerHeader = "X-Signer-ID"

// CallerIdentity is middleware that attaches caller and signer identities
// from request headers to the request context. Identities are opaque strings;
// verifying them is the deployment's concern, not this core's.
func CallerIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if caller := r.Header.Get(CallerHeader); caller != "" {
			ctx = simpleposts.WithCaller(ctx, caller)
		}
		if signer := r.Header.Get(SignerHeader); signer != "" {
			ctx = simpleposts.WithSigner(ctx, signer)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PostHandler handles HTTP requests for posts using pkg/simpleposts
type PostHandler struct {
	service simpleposts.Service
}

// NewPostHandler creates a new post handler
func NewPostHandler(service simpleposts.Service) *PostHandler {
	return &PostHandler{service: service}
}

// Routes returns the routes for posts
func (h *PostHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(CallerIdentity)

	r.Post("/", h.CreatePost)
	r.Get("/", h.ListPosts)
	r.Get("/search", h.SearchPosts)
	r.Delete("/{postID}", h.DeletePost)

	r.Post("/{postID}/donations", h.Donate)
	r.Get("/{postID}/donations", h.GetDonations)

	return r
}

// CreatePostRequest is the request body for creating a post.
// Image is the raw image payload, base64-encoded in JSON.
type CreatePostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Image []byte `json:"image,omitempty"`
}

// PostResponse is the response body for a post
type PostResponse struct {
	ID            string    `json:"id"`
	Author        string    `json:"author"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	Image         string    `json:"image,omitempty"`
	DonationTotal string    `json:"donation_total"`
	CreatedAt     time.Time `json:"created_at"`
}

// DonateRequest is the request body for a donation
type DonateRequest struct {
	Amount simpleposts.Amount `json:"amount"`
}

// DonationResponse reports a post's donation total
type DonationResponse struct {
	PostID        string `json:"post_id"`
	DonationTotal string `json:"donation_total"`
}

func toPostResponse(post *simpleposts.Post) PostResponse {
	return PostResponse{
		ID:            post.ID,
		Author:        post.Author,
		Title:         post.Title,
		Body:          post.Body,
		Image:         post.Image,
		DonationTotal: post.DonationTotal.String(),
		CreatedAt:     post.CreatedAt,
	}
}

func toPostResponses(posts []*simpleposts.Post) []PostResponse {
	resp := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		resp = append(resp, toPostResponse(post))
	}
	return resp
}

// CreatePost creates a new post authored by the calling account
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.service.CreatePost(r.Context(), simpleposts.CreatePostRequest{
		Title:        req.Title,
		Body:         req.Body,
		ImagePayload: req.Image,
	})
	if err != nil {
		if errors.Is(err, simpleposts.ErrNoIdentity) {
			http.Error(w, "missing "+CallerHeader+" header", http.StatusUnauthorized)
			return
		}
		slog.Error("Failed to create post", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("Post created", "post_id", post.ID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toPostResponse(post))
}

// ListPosts returns every post in insertion order
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.GetPosts(r.Context())
	if err != nil {
		slog.Error("Failed to list posts", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, toPostResponses(posts))
}

// SearchPosts returns posts whose title contains the q parameter
func (h *PostHandler) SearchPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	posts, err := h.service.SearchPosts(r.Context(), query)
	if err != nil {
		slog.Error("Failed to search posts", "query", query, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, toPostResponses(posts))
}

// DeletePost removes a post by id; unknown ids succeed as a no-op
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "postID")

	if err := h.service.DeletePost(r.Context(), id); err != nil {
		slog.Error("Failed to delete post", "post_id", id, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("Post deleted", "post_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Donate adds a donation to the post's ledger and requests the transfer
func (h *PostHandler) Donate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "postID")

	var req DonateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	total, err := h.service.DonateToAuthor(r.Context(), simpleposts.DonateRequest{
		PostID: id,
		Amount: req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, simpleposts.ErrPostNotFound):
			http.Error(w, "post not found", http.StatusNotFound)
		case errors.Is(err, simpleposts.ErrAmountOverflow):
			http.Error(w, "donation total overflow", http.StatusUnprocessableEntity)
		case errors.Is(err, simpleposts.ErrTransferFailed):
			slog.Error("Transfer rejected", "post_id", id, "error", err)
			http.Error(w, "transfer failed", http.StatusBadGateway)
		default:
			slog.Error("Failed to donate", "post_id", id, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, r, DonationResponse{
		PostID:        id,
		DonationTotal: total.String(),
	})
}

// GetDonations returns the post's current donation total
func (h *PostHandler) GetDonations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "postID")

	total, err := h.service.GetDonations(r.Context(), id)
	if err != nil {
		if errors.Is(err, simpleposts.ErrPostNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to get donations", "post_id", id, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, DonationResponse{
		PostID:        id,
		DonationTotal: total.String(),
	})
}
