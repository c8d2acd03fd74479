package entity

import "time"

// Item is a catalog entry rendered in the browsing grid. PriceLabel and
// PostedLabel are display strings; PostedAt is the real timestamp the
// chronological sorts compare on.
type Item struct {
	ID          string
	Title       string
	PriceLabel  string
	Location    string
	PostedLabel string
	PostedAt    time.Time
	CategoryID  string
	ImageURL    string
	Condition   string
}
