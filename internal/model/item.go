package model

// Item types
const (
	TypeMovie  = "movie"
	TypeSeries = "series"
)

// PlaceholderImage is the poster path used when no image was uploaded.
const PlaceholderImage = "/static/images/placeholder.svg"

// ItemDateFormat is the calendar-date layout used for Item.DateAdded.
// Dates in this layout compare correctly as strings, which keeps the
// inclusive date-range report query a plain BETWEEN.
const ItemDateFormat = "2006-01-02"

// Item represents a catalog entry (movie or series) shown to end users.
// Items are immutable after creation.
type Item struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Year        int64  `json:"year"`
	DateAdded   string `json:"date_added"` // YYYY-MM-DD
}
