package simpleposts

// Request DTOs

// CreatePostRequest contains parameters for creating a new post.
//
// Author is the opaque account identity of the caller; handlers populate it
// from the IdentityProvider. ImagePayload is the raw image bytes to
// content-address, or nil for no image. Title and Body are stored verbatim;
// validation, if any, is the caller's responsibility.
type CreatePostRequest struct {
	Author       string
	Title        string
	Body         string
	ImagePayload []byte
}

// DonateRequest contains parameters for donating to a post's author.
type DonateRequest struct {
	PostID string
	Signer string
	Amount Amount
}
