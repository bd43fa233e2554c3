package simpleposts

import (
	"context"
	"errors"
)

// ErrNoIdentity indicates no caller identity is attached to the context.
var ErrNoIdentity = errors.New("no caller identity in context")

type identityKey int

const (
	callerKey identityKey = iota
	signerKey
)

// WithCaller returns a context carrying the calling account.
func WithCaller(ctx context.Context, account string) context.Context {
	return context.WithValue(ctx, callerKey, account)
}

// WithSigner returns a context carrying the signing account.
func WithSigner(ctx context.Context, account string) context.Context {
	return context.WithValue(ctx, signerKey, account)
}

// ContextIdentity resolves caller and signer identities from context values
// placed there by transport middleware (see api.CallerIdentity).
type ContextIdentity struct{}

// NewContextIdentity creates a context-backed identity provider.
func NewContextIdentity() IdentityProvider {
	return ContextIdentity{}
}

// Caller returns the calling account attached to the context.
func (ContextIdentity) Caller(ctx context.Context) (string, error) {
	account, ok := ctx.Value(callerKey).(string)
	if !ok || account == "" {
		return "", ErrNoIdentity
	}
	return account, nil
}

// Signer returns the signing account attached to the context. When no
// distinct signer is set, the caller is the signer.
func (ContextIdentity) Signer(ctx context.Context) (string, error) {
	if account, ok := ctx.Value(signerKey).(string); ok && account != "" {
		return account, nil
	}
	return ContextIdentity{}.Caller(ctx)
}
