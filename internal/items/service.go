// Package items implements reporting lost and found items and the combined
// listings feed.
package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/erazemk/campuscare/internal/auth"
	"github.com/erazemk/campuscare/internal/model"
	"github.com/erazemk/campuscare/internal/store"
	"github.com/erazemk/campuscare/internal/upload"
)

// Service creates reports and reads the listings.
type Service struct {
	DB      *sql.DB
	Uploads *upload.Handler

	// RequireLogin rejects reports made without a session.
	RequireLogin bool
}

// Report is the submitted report form.
type Report struct {
	ItemName    string
	Description string
	Category    string
	Contact     string
}

// Image is an optional photo attached to a report.
type Image struct {
	Reader   io.Reader
	Filename string
	Size     int64
}

// Result is a created report.
type Result struct {
	Item *model.Item

	// ImageDropped is set when a photo was sent but not accepted.
	ImageDropped bool
}

// Listings holds both feeds, each newest first.
type Listings struct {
	Lost  []model.Item `json:"lost"`
	Found []model.Item `json:"found"`
}

// Trim returns r with surrounding whitespace removed from every field.
func (r Report) Trim() Report {
	return Report{
		ItemName:    strings.TrimSpace(r.ItemName),
		Description: strings.TrimSpace(r.Description),
		Category:    strings.TrimSpace(r.Category),
		Contact:     strings.TrimSpace(r.Contact),
	}
}

// Validate requires item name, description and contact. Category is optional.
func (r Report) Validate() error {
	var verr model.ValidationError
	if r.ItemName == "" {
		verr.Add("item-name", "Item name is required.")
	}
	if r.Description == "" {
		verr.Add("description", "Description is required.")
	}
	if r.Contact == "" {
		verr.Add("contact", "Contact information is required.")
	}
	return verr.Err()
}

// Report validates and stores a lost or found report. The owner is taken from
// session; a nil session files an anonymous report unless RequireLogin is set.
// The photo is stored before the row is inserted.
func (s *Service) Report(ctx context.Context, session *auth.Claims, kind model.Kind, in Report, img *Image) (*Result, error) {
	if _, err := model.ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if s.RequireLogin && session == nil {
		return nil, model.ErrLoginRequired
	}

	in = in.Trim()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	res := &Result{}
	item := model.Item{
		ItemName:    in.ItemName,
		Description: in.Description,
		Category:    in.Category,
		Contact:     in.Contact,
	}
	if session != nil {
		owner := session.UserID
		item.OwnerID = &owner
	}

	if img != nil && img.Filename != "" {
		name, err := s.Uploads.Save(ctx, img.Reader, img.Filename, img.Size)
		switch {
		case errors.Is(err, upload.ErrUnsupportedType):
			slog.Warn("image dropped", "kind", kind, "filename", img.Filename)
			res.ImageDropped = true
		case err != nil:
			return nil, fmt.Errorf("saving image: %w", err)
		default:
			item.ImageFilename = name
		}
	}

	created, err := store.CreateItem(ctx, s.DB, kind, item)
	if err != nil {
		if item.ImageFilename != "" {
			// Best effort; a failure here leaves an orphaned blob.
			if rerr := s.Uploads.Discard(context.WithoutCancel(ctx), item.ImageFilename); rerr != nil {
				slog.Error("failed to remove orphaned upload", "name", item.ImageFilename, "error", rerr)
			}
		}
		return nil, err
	}

	slog.Info("item reported", "kind", kind, "item_id", created.ID, "owner", item.OwnerID != nil, "image", created.HasImage())
	res.Item = created
	return res, nil
}

// Listings returns every lost and found item, newest first.
func (s *Service) Listings(ctx context.Context) (*Listings, error) {
	lost, err := store.ListItems(ctx, s.DB, model.KindLost)
	if err != nil {
		return nil, err
	}
	found, err := store.ListItems(ctx, s.DB, model.KindFound)
	if err != nil {
		return nil, err
	}
	return &Listings{Lost: lost, Found: found}, nil
}
