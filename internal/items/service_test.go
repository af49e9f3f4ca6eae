package items

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/erazemk/campuscare/internal/auth"
	"github.com/erazemk/campuscare/internal/db"
	"github.com/erazemk/campuscare/internal/model"
	"github.com/erazemk/campuscare/internal/store"
	"github.com/erazemk/campuscare/internal/upload"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	disk, err := upload.NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	return &Service{DB: db.NewTestDB(t), Uploads: &upload.Handler{Store: disk}}, dir
}

func backpack() Report {
	return Report{
		ItemName:    "Blue Backpack",
		Description: "Left in library",
		Category:    "Bags",
		Contact:     "555-1234",
	}
}

func uploadCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	return len(entries)
}

func TestReportFoundWithoutImage(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	older, err := s.Report(ctx, nil, model.KindFound, Report{ItemName: "Scarf", Description: "Green", Contact: "x"}, nil)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	res, err := s.Report(ctx, nil, model.KindFound, backpack(), nil)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if res.Item.ImageFilename != "" {
		t.Errorf("expected no image, got %q", res.Item.ImageFilename)
	}
	if res.Item.OwnerID != nil {
		t.Errorf("expected anonymous report, got owner %d", *res.Item.OwnerID)
	}

	listings, err := s.Listings(ctx)
	if err != nil {
		t.Fatalf("Listings: %v", err)
	}
	if len(listings.Found) != 2 || len(listings.Lost) != 0 {
		t.Fatalf("unexpected listing sizes: lost=%d found=%d", len(listings.Lost), len(listings.Found))
	}
	if listings.Found[0].ID != res.Item.ID || listings.Found[1].ID != older.Item.ID {
		t.Errorf("expected newest first, got ids %d, %d", listings.Found[0].ID, listings.Found[1].ID)
	}
	if listings.Found[0].Category != "Bags" {
		t.Errorf("expected category 'Bags', got %q", listings.Found[0].Category)
	}
}

func TestReportTrimsAndValidates(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Report)
		field  string
	}{
		{"empty item name", func(r *Report) { r.ItemName = "" }, "item-name"},
		{"blank description", func(r *Report) { r.Description = "   \t" }, "description"},
		{"empty contact", func(r *Report) { r.Contact = "\n" }, "contact"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, dir := newTestService(t)
			ctx := context.Background()
			in := backpack()
			tt.modify(&in)

			img := &Image{Reader: strings.NewReader("png"), Filename: "photo.png", Size: 3}
			_, err := s.Report(ctx, nil, model.KindLost, in, img)

			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !verr.Has(tt.field) {
				t.Errorf("expected error on %q, got %v", tt.field, verr.Fields)
			}

			listings, _ := s.Listings(ctx)
			if len(listings.Lost) != 0 {
				t.Errorf("expected no record created, got %d", len(listings.Lost))
			}
			if n := uploadCount(t, dir); n != 0 {
				t.Errorf("expected no upload stored, got %d", n)
			}
		})
	}
}

func TestReportCategoryOptional(t *testing.T) {
	s, _ := newTestService(t)

	in := backpack()
	in.Category = ""
	in.ItemName = "  Keys  "
	res, err := s.Report(context.Background(), nil, model.KindLost, in, nil)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if res.Item.ItemName != "Keys" {
		t.Errorf("expected trimmed name, got %q", res.Item.ItemName)
	}
}

func TestReportImage(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	img := &Image{Reader: bytes.NewReader([]byte("jpeg bytes")), Filename: "photo.JPG", Size: 10}
	res, err := s.Report(ctx, nil, model.KindLost, backpack(), img)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if res.ImageDropped {
		t.Error("expected image to be accepted")
	}
	if !upload.ValidName(res.Item.ImageFilename) {
		t.Fatalf("unexpected image reference %q", res.Item.ImageFilename)
	}

	rc, err := s.Uploads.Open(ctx, res.Item.ImageFilename)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "jpeg bytes" {
		t.Errorf("expected uploaded bytes, got %q", data)
	}
}

func TestReportDropsDisallowedImage(t *testing.T) {
	s, dir := newTestService(t)

	img := &Image{Reader: strings.NewReader("MZ"), Filename: "photo.EXE", Size: 2}
	res, err := s.Report(context.Background(), nil, model.KindFound, backpack(), img)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if !res.ImageDropped {
		t.Error("expected ImageDropped")
	}
	if res.Item.ImageFilename != "" {
		t.Errorf("expected no image reference, got %q", res.Item.ImageFilename)
	}
	if n := uploadCount(t, dir); n != 0 {
		t.Errorf("expected nothing stored, got %d files", n)
	}
}

func TestReportOwnerFromSession(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	user, err := store.CreateUser(ctx, s.DB, &model.User{
		Email: "alice@example.com", FirstName: "Alice", LastName: "Smith", PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	res, err := s.Report(ctx, &auth.Claims{UserID: user.ID}, model.KindLost, backpack(), nil)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if res.Item.OwnerID == nil || *res.Item.OwnerID != user.ID {
		t.Errorf("expected owner %d, got %v", user.ID, res.Item.OwnerID)
	}
	if res.Item.OwnerName != "Alice" {
		t.Errorf("expected owner name 'Alice', got %q", res.Item.OwnerName)
	}
}

func TestReportRequireLogin(t *testing.T) {
	s, _ := newTestService(t)
	s.RequireLogin = true

	_, err := s.Report(context.Background(), nil, model.KindLost, backpack(), nil)
	if !errors.Is(err, model.ErrLoginRequired) {
		t.Fatalf("expected ErrLoginRequired, got %v", err)
	}

	listings, _ := s.Listings(context.Background())
	if len(listings.Lost) != 0 {
		t.Error("expected no record created")
	}
}

func TestReportUnknownKind(t *testing.T) {
	s, _ := newTestService(t)

	if _, err := s.Report(context.Background(), nil, model.Kind("stolen"), backpack(), nil); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestReportRemovesUploadWhenInsertFails(t *testing.T) {
	s, dir := newTestService(t)
	s.DB.Close()

	img := &Image{Reader: strings.NewReader("gif"), Filename: "a.gif", Size: 3}
	if _, err := s.Report(context.Background(), nil, model.KindLost, backpack(), img); err == nil {
		t.Fatal("expected error from closed database")
	}
	if n := uploadCount(t, dir); n != 0 {
		t.Errorf("expected orphaned upload to be removed, found %d files", n)
	}
}
