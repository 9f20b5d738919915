package movie

import (
	"database/sql"
	"time"

	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/lib/pq"
)

func FromMovie(movie models.Movie) *MovieRow {
	return &MovieRow{
		ID:              sql.NullString{String: movie.ID, Valid: movie.ID != ""},
		Title:           sql.NullString{String: movie.Title, Valid: movie.Title != ""},
		Description:     sql.NullString{String: movie.Description, Valid: movie.Description != ""},
		Genres:          pq.StringArray(movie.Genres),
		Rating:          sql.NullFloat64{Float64: movie.Rating, Valid: true},
		ReleaseDate:     sql.NullTime{Time: movie.ReleaseDate, Valid: movie.ReleaseDate != time.Time{}},
		DurationMinutes: sql.NullInt64{Int64: int64(movie.DurationMinutes), Valid: true},
		CreatedAt:       sql.NullTime{Time: movie.CreatedAt, Valid: movie.CreatedAt != time.Time{}},
		UpdatedAt:       sql.NullTime{Time: movie.UpdatedAt, Valid: movie.UpdatedAt != time.Time{}},
	}
}

type MovieRow struct {
	ID              sql.NullString  `db:"id"`
	Title           sql.NullString  `db:"title"`
	Description     sql.NullString  `db:"description"`
	Genres          pq.StringArray  `db:"genres"`
	Rating          sql.NullFloat64 `db:"rating"`
	ReleaseDate     sql.NullTime    `db:"release_date"`
	DurationMinutes sql.NullInt64   `db:"duration_minutes"`
	CreatedAt       sql.NullTime    `db:"created_at"`
	UpdatedAt       sql.NullTime    `db:"updated_at"`
}

const (
	movieTable = "movies"
)

var movieStruct = database.NewStruct(new(MovieRow))

func ToMovie(row *MovieRow) models.Movie {
	return models.Movie{
		ID:              row.ID.String,
		Title:           row.Title.String,
		Description:     row.Description.String,
		Genres:          []string(row.Genres),
		Rating:          row.Rating.Float64,
		ReleaseDate:     row.ReleaseDate.Time,
		DurationMinutes: int(row.DurationMinutes.Int64),
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}
