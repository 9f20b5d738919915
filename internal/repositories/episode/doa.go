package episode

import (
	"database/sql"
	"time"

	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/models"
)

func FromEpisode(episode models.Episode) *EpisodeRow {
	return &EpisodeRow{
		ID:              sql.NullString{String: episode.ID, Valid: episode.ID != ""},
		SeasonID:        sql.NullString{String: episode.SeasonID, Valid: episode.SeasonID != ""},
		Title:           sql.NullString{String: episode.Title, Valid: episode.Title != ""},
		Description:     sql.NullString{String: episode.Description, Valid: episode.Description != ""},
		SequenceNumber:  sql.NullInt64{Int64: int64(episode.SequenceNumber), Valid: true},
		ReleaseDate:     sql.NullTime{Time: episode.ReleaseDate, Valid: episode.ReleaseDate != time.Time{}},
		DurationMinutes: sql.NullInt64{Int64: int64(episode.DurationMinutes), Valid: true},
		CreatedAt:       sql.NullTime{Time: episode.CreatedAt, Valid: episode.CreatedAt != time.Time{}},
		UpdatedAt:       sql.NullTime{Time: episode.UpdatedAt, Valid: episode.UpdatedAt != time.Time{}},
	}
}

type EpisodeRow struct {
	ID              sql.NullString `db:"id"`
	SeasonID        sql.NullString `db:"season_id"`
	Title           sql.NullString `db:"title"`
	Description     sql.NullString `db:"description"`
	SequenceNumber  sql.NullInt64  `db:"sequence_number"`
	ReleaseDate     sql.NullTime   `db:"release_date"`
	DurationMinutes sql.NullInt64  `db:"duration_minutes"`
	CreatedAt       sql.NullTime   `db:"created_at"`
	UpdatedAt       sql.NullTime   `db:"updated_at"`
}

const (
	episodeTable = "episodes"
)

var episodeStruct = database.NewStruct(new(EpisodeRow))

func ToEpisode(row *EpisodeRow) models.Episode {
	return models.Episode{
		ID:              row.ID.String,
		SeasonID:        row.SeasonID.String,
		Title:           row.Title.String,
		Description:     row.Description.String,
		SequenceNumber:  int(row.SequenceNumber.Int64),
		ReleaseDate:     row.ReleaseDate.Time,
		DurationMinutes: int(row.DurationMinutes.Int64),
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}
