package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/campuscare/internal/model"
)

// CreateItem inserts a report into the table for kind. ID and CreatedAt are
// assigned here; any values set on in are ignored.
func CreateItem(ctx context.Context, db *sql.DB, kind model.Kind, in model.Item) (*model.Item, error) {
	var image sql.NullString
	if in.ImageFilename != "" {
		image = sql.NullString{String: in.ImageFilename, Valid: true}
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO `+kind.Table()+` (item_name, description, category, image_filename, contact, created_at, owner_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ItemName, in.Description, in.Category, image, in.Contact, time.Now().UTC(), in.OwnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s item: %w", kind, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting %s item id: %w", kind, err)
	}

	return GetItem(ctx, db, kind, id)
}

// GetItem returns an item by kind and ID, or nil if there is none.
func GetItem(ctx context.Context, db *sql.DB, kind model.Kind, id int64) (*model.Item, error) {
	rows, err := db.QueryContext(ctx, selectItems(kind)+` WHERE i.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting %s item: %w", kind, err)
	}
	defer rows.Close()

	items, err := scanItems(rows, kind)
	if err != nil {
		return nil, fmt.Errorf("getting %s item: %w", kind, err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// ListItems returns every item of kind, newest first. Items inserted within the
// same clock tick keep their insertion order through the id tiebreaker.
func ListItems(ctx context.Context, db *sql.DB, kind model.Kind) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx, selectItems(kind)+` ORDER BY i.created_at DESC, i.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing %s items: %w", kind, err)
	}
	defer rows.Close()

	items, err := scanItems(rows, kind)
	if err != nil {
		return nil, fmt.Errorf("listing %s items: %w", kind, err)
	}
	return items, nil
}

func selectItems(kind model.Kind) string {
	return `SELECT i.id, i.item_name, i.description, i.category, i.image_filename, i.contact,
	               i.created_at, i.owner_id, u.first_name
	        FROM ` + kind.Table() + ` i
	        LEFT JOIN users u ON u.id = i.owner_id`
}

func scanItems(rows *sql.Rows, kind model.Kind) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		item := model.Item{Kind: kind}
		var image, ownerName sql.NullString
		if err := rows.Scan(&item.ID, &item.ItemName, &item.Description, &item.Category, &image,
			&item.Contact, &item.CreatedAt, &item.OwnerID, &ownerName); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.ImageFilename = image.String
		item.OwnerName = ownerName.String
		items = append(items, item)
	}
	return items, rows.Err()
}
