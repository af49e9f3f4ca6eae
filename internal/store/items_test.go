package store

import (
	"context"
	"testing"

	"github.com/erazemk/campuscare/internal/db"
	"github.com/erazemk/campuscare/internal/model"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, model.KindFound, model.Item{
		ItemName:    "Blue Backpack",
		Description: "Left in library",
		Category:    "Bags",
		Contact:     "555-1234",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Kind != model.KindFound {
		t.Errorf("expected kind found, got %q", item.Kind)
	}
	if item.ImageFilename != "" {
		t.Errorf("expected no image, got %q", item.ImageFilename)
	}
	if item.OwnerID != nil {
		t.Errorf("expected no owner, got %d", *item.OwnerID)
	}
	if item.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	got, err := GetItem(ctx, database, model.KindFound, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got == nil || got.ItemName != "Blue Backpack" {
		t.Fatalf("unexpected item %+v", got)
	}

	// Kinds live in separate tables.
	other, err := GetItem(ctx, database, model.KindLost, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if other != nil {
		t.Error("found item should not be visible as lost")
	}
}

func TestCreateItemWithOwnerAndImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, newUser("alice@example.com"))
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	item, err := CreateItem(ctx, database, model.KindLost, model.Item{
		ItemName:      "Keys",
		Description:   "Three keys on a red ring",
		Contact:       "alice@example.com",
		ImageFilename: "0123456789abcdef0123456789abcdef.jpg",
		OwnerID:       &user.ID,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.OwnerID == nil || *item.OwnerID != user.ID {
		t.Errorf("expected owner %d, got %v", user.ID, item.OwnerID)
	}
	if item.OwnerName != "Alice" {
		t.Errorf("expected owner name 'Alice', got %q", item.OwnerName)
	}
	if item.ImageFilename != "0123456789abcdef0123456789abcdef.jpg" {
		t.Errorf("unexpected image %q", item.ImageFilename)
	}
}

func TestListItemsNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	names := []string{"Umbrella", "Calculator", "Water bottle"}
	for _, name := range names {
		if _, err := CreateItem(ctx, database, model.KindLost, model.Item{
			ItemName: name, Description: "d", Contact: "c",
		}); err != nil {
			t.Fatalf("CreateItem %s: %v", name, err)
		}
	}

	items, err := ListItems(ctx, database, model.KindLost)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != len(names) {
		t.Fatalf("expected %d items, got %d", len(names), len(items))
	}

	for i, item := range items {
		want := names[len(names)-1-i]
		if item.ItemName != want {
			t.Errorf("position %d: expected %q, got %q", i, want, item.ItemName)
		}
		if i > 0 && item.CreatedAt.After(items[i-1].CreatedAt) {
			t.Errorf("position %d is newer than position %d", i, i-1)
		}
	}

	found, err := ListItems(ctx, database, model.KindFound)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("expected no found items, got %d", len(found))
	}
}
