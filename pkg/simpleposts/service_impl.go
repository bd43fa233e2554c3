package simpleposts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository  Repository
	resolver    ImageResolver
	transferrer FundsTransferrer
	identity    IdentityProvider
	eventSink   EventSink
	logger      *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the post repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithImageResolver sets the image resolver for the service
func WithImageResolver(resolver ImageResolver) Option {
	return func(s *service) {
		s.resolver = resolver
	}
}

// WithTransferrer sets the funds transfer collaborator for the service
func WithTransferrer(transferrer FundsTransferrer) Option {
	return func(s *service) {
		s.transferrer = transferrer
	}
}

// WithIdentityProvider sets the caller identity collaborator for the service
func WithIdentityProvider(identity IdentityProvider) Option {
	return func(s *service) {
		s.identity = identity
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithLogger sets the structured logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.transferrer == nil {
		s.transferrer = NewNoopTransferrer()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// Registry operations

func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	author := req.Author
	if author == "" && s.identity != nil {
		resolved, err := s.identity.Caller(ctx)
		if err != nil {
			return nil, &PostError{Op: "create", Err: err}
		}
		author = resolved
	}

	post := &Post{
		ID:        uuid.NewString(),
		Author:    author,
		Title:     req.Title,
		Body:      req.Body,
		CreatedAt: time.Now().UTC(),
	}

	// Resolution failure is never fatal: the post is created without an image.
	if len(req.ImagePayload) > 0 {
		if s.resolver == nil {
			s.logger.Warn("no image resolver configured, creating post without image",
				"post_id", post.ID)
		} else if address, err := s.resolver.Resolve(ctx, req.ImagePayload); err != nil {
			s.logger.Warn("image resolution failed, creating post without image",
				"post_id", post.ID, "error", err)
		} else {
			post.Image = address
		}
	}

	if err := s.repository.CreatePost(ctx, post); err != nil {
		return nil, &PostError{
			PostID: post.ID,
			Op:     "create",
			Err:    err,
		}
	}

	s.logger.Info("post created", "post_id", post.ID, "author", post.Author)

	// Fire event
	if s.eventSink != nil {
		if err := s.eventSink.PostCreated(ctx, post); err != nil {
			s.logger.Error("post created event failed", "post_id", post.ID, "error", err)
		}
	}

	return post, nil
}

func (s *service) GetPosts(ctx context.Context) ([]*Post, error) {
	return s.repository.ListPosts(ctx)
}

func (s *service) SearchPosts(ctx context.Context, query string) ([]*Post, error) {
	return s.repository.SearchPosts(ctx, query)
}

func (s *service) DeletePost(ctx context.Context, id string) error {
	if err := s.repository.DeletePost(ctx, id); err != nil {
		return &PostError{
			PostID: id,
			Op:     "delete",
			Err:    err,
		}
	}

	// Fire event
	if s.eventSink != nil {
		if err := s.eventSink.PostDeleted(ctx, id); err != nil {
			s.logger.Error("post deleted event failed", "post_id", id, "error", err)
		}
	}

	return nil
}

// Donation operations

// DonateToAuthor records a donation against the post's ledger after the
// transfer collaborator accepts it. The ledger reflects accepted transfers:
// a rejected transfer leaves the total unchanged. The transfer and the ledger
// write are still two steps; a crash between them understates the ledger
// rather than overstating it.
func (s *service) DonateToAuthor(ctx context.Context, req DonateRequest) (Amount, error) {
	post, err := s.repository.GetPost(ctx, req.PostID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			s.logger.Info("donation to unknown post",
				"post_id", req.PostID, "amount", req.Amount.String())
			if s.eventSink != nil {
				if serr := s.eventSink.DonationMissed(ctx, req.PostID, req.Amount); serr != nil {
					s.logger.Error("donation missed event failed", "post_id", req.PostID, "error", serr)
				}
			}
		}
		return Amount{}, &PostError{
			PostID: req.PostID,
			Op:     "donate",
			Err:    err,
		}
	}

	// A zero donation is a legal no-op; skip the degenerate transfer call.
	if req.Amount.IsZero() {
		return post.DonationTotal, nil
	}

	// Reject overflow before moving any funds.
	if _, err := post.DonationTotal.Add(req.Amount); err != nil {
		return Amount{}, &PostError{
			PostID: req.PostID,
			Op:     "donate",
			Err:    err,
		}
	}

	signer := req.Signer
	if signer == "" && s.identity != nil {
		if resolved, err := s.identity.Signer(ctx); err == nil {
			signer = resolved
		}
	}

	if err := s.transferrer.Transfer(ctx, post.Author, req.Amount); err != nil {
		return Amount{}, &PostError{
			PostID: req.PostID,
			Op:     "donate",
			Err:    fmt.Errorf("%w: %v", ErrTransferFailed, err),
		}
	}

	total, err := s.repository.AddDonation(ctx, req.PostID, req.Amount)
	if err != nil {
		// Transfer already accepted; the ledger now understates it.
		s.logger.Error("accepted donation not recorded",
			"post_id", req.PostID, "amount", req.Amount.String(), "error", err)
		return Amount{}, &PostError{
			PostID: req.PostID,
			Op:     "donate",
			Err:    err,
		}
	}

	s.logger.Info("donation recorded",
		"post_id", req.PostID, "recipient", post.Author, "signer", signer,
		"amount", req.Amount.String(), "total", total.String())

	if s.eventSink != nil {
		recorded := post.Clone()
		recorded.DonationTotal = total
		if err := s.eventSink.DonationRecorded(ctx, recorded, req.Amount); err != nil {
			s.logger.Error("donation recorded event failed", "post_id", req.PostID, "error", err)
		}
	}

	return total, nil
}

func (s *service) GetDonations(ctx context.Context, id string) (Amount, error) {
	total, err := s.repository.GetDonations(ctx, id)
	if err != nil {
		return Amount{}, &PostError{
			PostID: id,
			Op:     "get_donations",
			Err:    err,
		}
	}
	return total, nil
}
