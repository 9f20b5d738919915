package models

import "time"

// Movie is a flat catalog entity with no children. Titles are unique; the
// bulk insert path for movies is best-effort rather than batch-atomic.
type Movie struct {
	ID              string    `json:"id" db:"id"`
	Title           string    `json:"title" db:"title" validate:"required"`
	Description     string    `json:"description,omitempty" db:"description"`
	Genres          []string  `json:"genres,omitempty" db:"genres"`
	Rating          float64   `json:"rating,omitempty" db:"rating"`
	ReleaseDate     time.Time `json:"release_date" db:"release_date"`
	DurationMinutes int       `json:"duration_minutes,omitempty" db:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// CreateMovieRequest is the request body for creating a movie
type CreateMovieRequest struct {
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description,omitempty"`
	Genres          []string  `json:"genres,omitempty"`
	Rating          float64   `json:"rating,omitempty" validate:"gte=0,lte=10"`
	ReleaseDate     time.Time `json:"release_date"`
	DurationMinutes int       `json:"duration_minutes,omitempty" validate:"gte=0"`
}

// CreateMoviesRequest is the request body for the best-effort bulk insert.
type CreateMoviesRequest struct {
	Items []CreateMovieRequest `json:"items" validate:"required,min=1,dive"`
}

// BulkMovieResult reports the outcome of a best-effort bulk movie insert.
// NotAdded is recovered from per-item insert errors and may carry less detail
// than the original payloads.
type BulkMovieResult struct {
	Added    []Movie          `json:"added"`
	NotAdded []NotAddedMovie  `json:"not_added"`
}

// NotAddedMovie identifies a rejected bulk item and the reason it was skipped.
type NotAddedMovie struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// MovieListResponse is the API response for listing movies
type MovieListResponse struct {
	Items      []Movie `json:"items"`
	TotalCount int     `json:"total_count"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
}
