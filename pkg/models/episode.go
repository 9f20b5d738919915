package models

import "time"

// Episode references its season by id only.
type Episode struct {
	ID              string    `json:"id" db:"id"`
	SeasonID        string    `json:"season_id" db:"season_id" validate:"required"`
	Title           string    `json:"title" db:"title" validate:"required"`
	Description     string    `json:"description,omitempty" db:"description"`
	SequenceNumber  int       `json:"sequence_number" db:"sequence_number"`
	ReleaseDate     time.Time `json:"release_date" db:"release_date"`
	DurationMinutes int       `json:"duration_minutes,omitempty" db:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// CreateEpisodeRequest is the request body for the standalone episode create.
type CreateEpisodeRequest struct {
	SeasonID        string    `json:"season_id" validate:"required,uuid4"`
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description,omitempty"`
	SequenceNumber  int       `json:"sequence_number" validate:"gte=1"`
	ReleaseDate     time.Time `json:"release_date"`
	DurationMinutes int       `json:"duration_minutes,omitempty" validate:"gte=0"`
}

// EpisodeListResponse is the API response for listing episodes of a season
type EpisodeListResponse struct {
	Items      []Episode `json:"items"`
	TotalCount int       `json:"total_count"`
}
