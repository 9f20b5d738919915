package show

import (
	"database/sql"
	"time"

	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/lib/pq"
)

func FromShow(show models.Show) *ShowRow {
	return &ShowRow{
		ID:                sql.NullString{String: show.ID, Valid: show.ID != ""},
		Title:             sql.NullString{String: show.Title, Valid: show.Title != ""},
		Description:       sql.NullString{String: show.Description, Valid: show.Description != ""},
		Genres:            pq.StringArray(show.Genres),
		Rating:            sql.NullFloat64{Float64: show.Rating, Valid: true},
		ReleaseDate:       sql.NullTime{Time: show.ReleaseDate, Valid: show.ReleaseDate != time.Time{}},
		PosterURL:         sql.NullString{String: show.PosterURL, Valid: show.PosterURL != ""},
		TotalSeasonCount:  sql.NullInt64{Int64: int64(show.TotalSeasonCount), Valid: true},
		TotalEpisodeCount: sql.NullInt64{Int64: int64(show.TotalEpisodeCount), Valid: true},
		CreatedAt:         sql.NullTime{Time: show.CreatedAt, Valid: show.CreatedAt != time.Time{}},
		UpdatedAt:         sql.NullTime{Time: show.UpdatedAt, Valid: show.UpdatedAt != time.Time{}},
	}
}

type ShowRow struct {
	ID                sql.NullString  `db:"id"`
	Title             sql.NullString  `db:"title"`
	Description       sql.NullString  `db:"description"`
	Genres            pq.StringArray  `db:"genres"`
	Rating            sql.NullFloat64 `db:"rating"`
	ReleaseDate       sql.NullTime    `db:"release_date"`
	PosterURL         sql.NullString  `db:"poster_url"`
	TotalSeasonCount  sql.NullInt64   `db:"total_season_count"`
	TotalEpisodeCount sql.NullInt64   `db:"total_episode_count"`
	CreatedAt         sql.NullTime    `db:"created_at"`
	UpdatedAt         sql.NullTime    `db:"updated_at"`
}

const (
	showTable = "shows"
)

var showStruct = database.NewStruct(new(ShowRow))

func ToShow(row *ShowRow) models.Show {
	return models.Show{
		ID:                row.ID.String,
		Title:             row.Title.String,
		Description:       row.Description.String,
		Genres:            []string(row.Genres),
		Rating:            row.Rating.Float64,
		ReleaseDate:       row.ReleaseDate.Time,
		PosterURL:         row.PosterURL.String,
		TotalSeasonCount:  int(row.TotalSeasonCount.Int64),
		TotalEpisodeCount: int(row.TotalEpisodeCount.Int64),
		CreatedAt:         row.CreatedAt.Time,
		UpdatedAt:         row.UpdatedAt.Time,
	}
}
