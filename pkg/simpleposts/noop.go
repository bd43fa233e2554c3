package simpleposts

import (
	"context"
	"log/slog"
)

// NoopEventSink is a no-operation implementation of EventSink
// Useful for production when you don't need event handling or for testing
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// PostCreated does nothing and returns nil
func (n *NoopEventSink) PostCreated(ctx context.Context, post *Post) error {
	return nil
}

// PostDeleted does nothing and returns nil
func (n *NoopEventSink) PostDeleted(ctx context.Context, postID string) error {
	return nil
}

// DonationRecorded does nothing and returns nil
func (n *NoopEventSink) DonationRecorded(ctx context.Context, post *Post, amount Amount) error {
	return nil
}

// DonationMissed does nothing and returns nil
func (n *NoopEventSink) DonationMissed(ctx context.Context, postID string, amount Amount) error {
	return nil
}

// SlogEventSink is an event sink that logs events but takes no other action
// Useful for development and debugging
type SlogEventSink struct {
	logger *slog.Logger
}

// NewSlogEventSink creates a new logging event sink
func NewSlogEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogEventSink{logger: logger}
}

// PostCreated logs the post creation event
func (l *SlogEventSink) PostCreated(ctx context.Context, post *Post) error {
	l.logger.Info("event: post created",
		"post_id", post.ID, "author", post.Author, "has_image", post.HasImage())
	return nil
}

// PostDeleted logs the post deletion event
func (l *SlogEventSink) PostDeleted(ctx context.Context, postID string) error {
	l.logger.Info("event: post deleted", "post_id", postID)
	return nil
}

// DonationRecorded logs the donation event
func (l *SlogEventSink) DonationRecorded(ctx context.Context, post *Post, amount Amount) error {
	l.logger.Info("event: donation recorded",
		"post_id", post.ID, "recipient", post.Author,
		"amount", amount.String(), "total", post.DonationTotal.String())
	return nil
}

// DonationMissed logs the advisory donation-miss event
func (l *SlogEventSink) DonationMissed(ctx context.Context, postID string, amount Amount) error {
	l.logger.Info("event: donation to unknown post",
		"post_id", postID, "amount", amount.String())
	return nil
}

// NoopTransferrer accepts every transfer without moving funds.
// Useful for testing and for deployments where settlement happens elsewhere.
type NoopTransferrer struct{}

// NewNoopTransferrer creates a new no-operation funds transferrer
func NewNoopTransferrer() FundsTransferrer {
	return &NoopTransferrer{}
}

// Transfer does nothing and returns nil
func (n *NoopTransferrer) Transfer(ctx context.Context, recipient string, amount Amount) error {
	return nil
}

// SlogTransferrer logs each transfer request and accepts it.
type SlogTransferrer struct {
	logger *slog.Logger
}

// NewSlogTransferrer creates a logging funds transferrer
func NewSlogTransferrer(logger *slog.Logger) FundsTransferrer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogTransferrer{logger: logger}
}

// Transfer logs the transfer request and accepts it
func (l *SlogTransferrer) Transfer(ctx context.Context, recipient string, amount Amount) error {
	l.logger.Info("transfer requested", "recipient", recipient, "amount", amount.String())
	return nil
}
