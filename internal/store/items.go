package store

import (
	"context"

	"cinelog/internal/model"
)

const itemColumns = `id, title, image, category, type, description, year, date_added`

const createItem = `
INSERT INTO items (title, image, category, type, description, year, date_added)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + itemColumns

// CreateItemParams holds the fields for creating a catalog item.
type CreateItemParams struct {
	Title       string
	Image       string
	Category    string
	Type        string
	Description string
	Year        int64
	DateAdded   string
}

// CreateItem inserts a new catalog item.
func (q *Queries) CreateItem(ctx context.Context, arg CreateItemParams) (model.Item, error) {
	row := q.db.QueryRowContext(ctx, createItem,
		arg.Title, arg.Image, arg.Category, arg.Type, arg.Description, arg.Year, arg.DateAdded)
	return scanItem(row)
}

const getItemByID = `SELECT ` + itemColumns + ` FROM items WHERE id = ?`

// GetItemByID fetches a catalog item by primary key.
func (q *Queries) GetItemByID(ctx context.Context, id int64) (model.Item, error) {
	return scanItem(q.db.QueryRowContext(ctx, getItemByID, id))
}

const listItems = `SELECT ` + itemColumns + ` FROM items ORDER BY id DESC`

// ListItems returns all catalog items, newest first.
func (q *Queries) ListItems(ctx context.Context) ([]model.Item, error) {
	rows, err := q.db.QueryContext(ctx, listItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

const filterItems = `
SELECT ` + itemColumns + ` FROM items
WHERE (?1 = '' OR LOWER(title) LIKE '%' || LOWER(?1) || '%')
  AND (?2 = 'all' OR type = ?2)
ORDER BY id DESC
`

// FilterItemsParams holds the SQL-level catalog filter dimensions.
// Category-set filtering happens in the service layer.
type FilterItemsParams struct {
	Search string
	Type   string
}

// FilterItems returns items matching a case-insensitive title substring
// and, unless Type is "all", an exact type. Empty search matches all.
func (q *Queries) FilterItems(ctx context.Context, arg FilterItemsParams) ([]model.Item, error) {
	rows, err := q.db.QueryContext(ctx, filterItems, arg.Search, arg.Type)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

const listItemsByDateRange = `
SELECT ` + itemColumns + ` FROM items
WHERE date_added BETWEEN ? AND ?
ORDER BY date_added, id
`

// ListItemsByDateRangeParams is an inclusive calendar-date range.
type ListItemsByDateRangeParams struct {
	Start string // YYYY-MM-DD
	End   string // YYYY-MM-DD
}

// ListItemsByDateRange returns items whose date_added falls within the
// inclusive [Start, End] range.
func (q *Queries) ListItemsByDateRange(ctx context.Context, arg ListItemsByDateRangeParams) ([]model.Item, error) {
	rows, err := q.db.QueryContext(ctx, listItemsByDateRange, arg.Start, arg.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

const countItemsByType = `SELECT COUNT(*) FROM items WHERE type = ?`

// CountItemsByType returns the number of items of the given type.
func (q *Queries) CountItemsByType(ctx context.Context, itemType string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countItemsByType, itemType).Scan(&count)
	return count, err
}

const listCategories = `
SELECT DISTINCT category FROM items WHERE category != '' ORDER BY category COLLATE NOCASE
`

// ListCategories returns the distinct item categories for the filter UI.
func (q *Queries) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

const listItemImages = `SELECT DISTINCT image FROM items`

// ListItemImages returns every poster path referenced by the catalog.
// Used by the upload sweeper to detect orphaned files.
func (q *Queries) ListItemImages(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listItemImages)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []string
	for rows.Next() {
		var img string
		if err := rows.Scan(&img); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (model.Item, error) {
	var it model.Item
	err := row.Scan(&it.ID, &it.Title, &it.Image, &it.Category, &it.Type,
		&it.Description, &it.Year, &it.DateAdded)
	return it, err
}

func collectItems(rows interface {
	rowScanner
	Next() bool
	Err() error
}) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
