// Package listing holds the marketplace item records whose mutation is
// gated by the ownership check in the auth package.
package listing

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("listing: not found")

const titleMaxLen = 140

// Listing is an owned marketplace item. OwnerID is set from the
// authenticated subject at creation and never from request input.
type Listing struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"priceCents"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate checks the user-supplied fields.
func (l *Listing) Validate() error {
	title := strings.TrimSpace(l.Title)
	if title == "" {
		return errors.New("title is required")
	}
	if len(title) > titleMaxLen {
		return errors.New("title is too long")
	}
	if l.PriceCents < 0 {
		return errors.New("price must not be negative")
	}
	l.Title = title
	return nil
}

// Store describes listing persistence.
type Store interface {
	Create(ctx context.Context, l *Listing) error
	Find(ctx context.Context, id string) (*Listing, error)
	Update(ctx context.Context, l *Listing) error
	Delete(ctx context.Context, id string) error
}
