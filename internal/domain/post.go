package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog entry recorded by a user.
type Post struct {
	// ID is the unique identifier. Repositories assign one when it is zero.
	ID uuid.UUID `json:"id"`

	// Title is required and non-empty.
	Title string `json:"title"`

	// URL is required and non-empty.
	URL string `json:"url"`

	// Author is free text; it is not the creator.
	Author string `json:"author"`

	// Likes is never negative.
	Likes int `json:"likes"`

	// CreatorID references the user who created the post.
	// Set once at creation and never reassigned.
	CreatorID uuid.UUID `json:"-"`

	// Creator is the projection of the creating user, populated on reads.
	Creator *UserRef `json:"creator,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPost creates a Post owned by creator.
func NewPost(title, url, author string, likes int, creator *User) *Post {
	now := time.Now().UTC()
	return &Post{
		ID:        uuid.New(),
		Title:     title,
		URL:       url,
		Author:    author,
		Likes:     likes,
		CreatorID: creator.ID,
		Creator:   creator.Ref(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// PostUpdate carries the editable fields of a post.
// A nil Likes leaves the stored count untouched.
type PostUpdate struct {
	Title  string
	URL    string
	Author string
	Likes  *int
}

// OwnerID returns the creator of the post.
func (p *Post) OwnerID() uuid.UUID {
	return p.CreatorID
}

// ParseID parses a client-supplied identifier.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrMalformedID
	}
	return id, nil
}

// PostSummary is a post rendered inside its creator's profile.
type PostSummary struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	URL    string    `json:"url"`
	Author string    `json:"author"`
	Likes  int       `json:"likes"`
}

// Summary returns the post without its creator projection.
func (p *Post) Summary() PostSummary {
	return PostSummary{ID: p.ID, Title: p.Title, URL: p.URL, Author: p.Author, Likes: p.Likes}
}
