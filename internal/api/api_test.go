package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erazemk/campuscare/internal/db"
	"github.com/erazemk/campuscare/internal/items"
	"github.com/erazemk/campuscare/internal/model"
	"github.com/erazemk/campuscare/internal/upload"
)

func setupTestServer(t *testing.T) (*httptest.Server, *items.Service) {
	t.Helper()
	disk, err := upload.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	svc := &items.Service{DB: db.NewTestDB(t), Uploads: &upload.Handler{Store: disk}}
	server := httptest.NewServer(LoggingMiddleware(NewRouter(svc)))
	t.Cleanup(server.Close)
	return server, svc
}

func TestListingsEmpty(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/listings")
	if err != nil {
		t.Fatalf("GET /api/listings: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	var body map[string]json.RawMessage
	json.NewDecoder(resp.Body).Decode(&body)
	if string(body["lost"]) != "[]" || string(body["found"]) != "[]" {
		t.Errorf("expected empty arrays, got lost=%s found=%s", body["lost"], body["found"])
	}
}

func TestListingsNewestFirst(t *testing.T) {
	server, svc := setupTestServer(t)
	ctx := context.Background()

	for _, name := range []string{"Umbrella", "Blue Backpack"} {
		if _, err := svc.Report(ctx, nil, model.KindFound, items.Report{
			ItemName: name, Description: "d", Contact: "555-1234",
		}, nil); err != nil {
			t.Fatalf("Report: %v", err)
		}
	}

	resp, err := http.Get(server.URL + "/api/listings")
	if err != nil {
		t.Fatalf("GET /api/listings: %v", err)
	}
	defer resp.Body.Close()

	var listings items.Listings
	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(listings.Found) != 2 {
		t.Fatalf("expected 2 found items, got %d", len(listings.Found))
	}
	if listings.Found[0].ItemName != "Blue Backpack" {
		t.Errorf("expected newest first, got %q", listings.Found[0].ItemName)
	}
	if listings.Found[0].Kind != model.KindFound {
		t.Errorf("expected kind found, got %q", listings.Found[0].Kind)
	}
}

func TestListingsMethodNotAllowed(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Post(server.URL+"/api/listings", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/listings: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}
