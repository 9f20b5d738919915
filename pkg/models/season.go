package models

import "time"

// Season references its show by id only; the reference is checked by the
// application, not the store.
type Season struct {
	ID             string    `json:"id" db:"id"`
	ShowID         string    `json:"show_id" db:"show_id" validate:"required"`
	Title          string    `json:"title" db:"title" validate:"required"`
	Description    string    `json:"description,omitempty" db:"description"`
	SequenceNumber int       `json:"sequence_number" db:"sequence_number"`
	ReleaseDate    time.Time `json:"release_date" db:"release_date"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// CreateSeasonRequest is the request body for the standalone season create.
type CreateSeasonRequest struct {
	ShowID         string    `json:"show_id" validate:"required,uuid4"`
	Title          string    `json:"title" validate:"required"`
	Description    string    `json:"description,omitempty"`
	SequenceNumber int       `json:"sequence_number" validate:"gte=1"`
	ReleaseDate    time.Time `json:"release_date"`
}

// SeasonListResponse is the API response for listing seasons of a show
type SeasonListResponse struct {
	Items      []Season `json:"items"`
	TotalCount int      `json:"total_count"`
}

// SeasonDeleteResult reports counts for a season delete and its episodes.
type SeasonDeleteResult struct {
	SeasonsDeleted  int `json:"seasons_deleted"`
	EpisodesDeleted int `json:"episodes_deleted"`
}
