package model

import (
	"fmt"
	"time"
)

// Kind tells lost reports from found reports. Both kinds share one schema.
type Kind string

// Item kinds.
const (
	KindLost  Kind = "lost"
	KindFound Kind = "found"
)

// ParseKind converts a route or form value into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindLost, KindFound:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown item kind %q", s)
	}
}

// Table returns the table holding items of this kind.
func (k Kind) Table() string {
	if k == KindFound {
		return "found_items"
	}
	return "lost_items"
}

// Item is a lost or found report.
type Item struct {
	ID            int64     `json:"id"`
	Kind          Kind      `json:"kind"`
	ItemName      string    `json:"item_name"`
	Description   string    `json:"description"`
	Category      string    `json:"category,omitempty"`
	ImageFilename string    `json:"image_filename,omitempty"`
	Contact       string    `json:"contact"`
	CreatedAt     time.Time `json:"created_at"`
	OwnerID       *int64    `json:"owner_id,omitempty"`

	// OwnerName is the reporter's first name, filled in by listing queries.
	OwnerName string `json:"owner_name,omitempty"`
}

// HasImage reports whether the item references a stored upload.
func (i *Item) HasImage() bool {
	return i.ImageFilename != ""
}
