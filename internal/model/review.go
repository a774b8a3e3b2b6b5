package model

import "time"

// Review is a user comment attached to an item. Reviews are append-only
// and displayed newest-first; there is no edit or delete path.
type Review struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
