package simpleposts

import "time"

// Post represents a user-authored record in the registry.
//
// Identity and text fields are immutable after creation; DonationTotal is the
// only field mutated during a post's lifetime and only grows. Image holds the
// content address of an attached image, or "" when no image was supplied or
// resolution failed at creation time.
type Post struct {
	ID            string    `json:"id"`
	Author        string    `json:"author"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	Image         string    `json:"image,omitempty"`
	DonationTotal Amount    `json:"donation_total"`
	CreatedAt     time.Time `json:"created_at"`
}

// Clone returns an independent copy of the post.
func (p *Post) Clone() *Post {
	c := *p
	return &c
}

// HasImage reports whether the post carries an image content address.
func (p *Post) HasImage() bool {
	return p.Image != ""
}
