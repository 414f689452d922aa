package domain

import "time"

type Genre struct {
	ID        string
	Name      string // unique
	Icon      string
	CreatedAt time.Time
}

type Book struct {
	ID           string
	Title        string
	Author       string
	Genre        string // genre name, not a reference
	Description  string
	Cover        string // media URL
	PDF          string // media URL
	Rating       float64
	RatingCount  int
	ShelvedCount int
	CreatedAt    time.Time
}

// UpdateResult reports how many records an update matched and changed.
type UpdateResult struct {
	Matched  int64
	Modified int64
}
