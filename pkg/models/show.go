package models

import "time"

// Show is the root of the catalog hierarchy. Seasons and episodes live in
// their own tables and reference it by id; the store enforces nothing across
// the three tables. TotalSeasonCount and TotalEpisodeCount are caller-supplied
// denormalized counters and are never recomputed.
type Show struct {
	ID                string    `json:"id" db:"id"`
	Title             string    `json:"title" db:"title" validate:"required"`
	Description       string    `json:"description,omitempty" db:"description"`
	Genres            []string  `json:"genres,omitempty" db:"genres"`
	Rating            float64   `json:"rating,omitempty" db:"rating"`
	ReleaseDate       time.Time `json:"release_date" db:"release_date"`
	PosterURL         string    `json:"poster_url,omitempty" db:"poster_url"`
	TotalSeasonCount  int       `json:"total_season_count" db:"total_season_count"`
	TotalEpisodeCount int       `json:"total_episode_count" db:"total_episode_count"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// CreateShowRequest is the request body for creating a show, optionally with
// nested seasons and episodes created in the same unit of work.
type CreateShowRequest struct {
	Title             string                      `json:"title" validate:"required"`
	Description       string                      `json:"description,omitempty"`
	Genres            []string                    `json:"genres,omitempty"`
	Rating            float64                     `json:"rating,omitempty" validate:"gte=0,lte=10"`
	ReleaseDate       time.Time                   `json:"release_date"`
	PosterURL         string                      `json:"poster_url,omitempty" validate:"omitempty,url"`
	TotalSeasonCount  int                         `json:"total_season_count" validate:"gte=0"`
	TotalEpisodeCount int                         `json:"total_episode_count" validate:"gte=0"`
	Seasons           []CreateNestedSeasonRequest `json:"seasons,omitempty" validate:"dive"`
}

// CreateNestedSeasonRequest is a season payload nested under a show create.
// ShowID is stamped by the service, never supplied by the caller.
type CreateNestedSeasonRequest struct {
	Title          string                       `json:"title" validate:"required"`
	Description    string                       `json:"description,omitempty"`
	SequenceNumber int                          `json:"sequence_number" validate:"gte=1"`
	ReleaseDate    time.Time                    `json:"release_date"`
	Episodes       []CreateNestedEpisodeRequest `json:"episodes,omitempty" validate:"dive"`
}

// CreateNestedEpisodeRequest is an episode payload nested under a season.
type CreateNestedEpisodeRequest struct {
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description,omitempty"`
	SequenceNumber  int       `json:"sequence_number" validate:"gte=1"`
	ReleaseDate     time.Time `json:"release_date"`
	DurationMinutes int       `json:"duration_minutes,omitempty" validate:"gte=0"`
}

// CreateShowsRequest is the request body for the batch-atomic bulk create.
type CreateShowsRequest struct {
	Items []CreateShowRequest `json:"items" validate:"required,min=1,dive"`
}

// ShowAggregate is the nested view returned by aggregate create and get. It is
// synthesized in memory; the data is persisted flat.
type ShowAggregate struct {
	Show
	Seasons []SeasonAggregate `json:"seasons"`
}

type SeasonAggregate struct {
	Season
	Episodes []Episode `json:"episodes"`
}

// ShowListResponse is the API response for listing shows
type ShowListResponse struct {
	Items      []Show `json:"items"`
	TotalCount int    `json:"total_count"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

// BulkShowResponse is the API response for the batch-atomic bulk create.
type BulkShowResponse struct {
	Items      []ShowAggregate `json:"items"`
	TotalCount int             `json:"total_count"`
}

// CascadeDeleteResult reports per-level row counts for a cascade delete.
type CascadeDeleteResult struct {
	ShowsDeleted    int `json:"shows_deleted"`
	SeasonsDeleted  int `json:"seasons_deleted"`
	EpisodesDeleted int `json:"episodes_deleted"`
}

// DeleteShowsRequest is the request body for the batch cascade delete.
type DeleteShowsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid4"`
}
