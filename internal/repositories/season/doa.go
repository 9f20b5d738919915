package season

import (
	"database/sql"
	"time"

	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/models"
)

func FromSeason(season models.Season) *SeasonRow {
	return &SeasonRow{
		ID:             sql.NullString{String: season.ID, Valid: season.ID != ""},
		ShowID:         sql.NullString{String: season.ShowID, Valid: season.ShowID != ""},
		Title:          sql.NullString{String: season.Title, Valid: season.Title != ""},
		Description:    sql.NullString{String: season.Description, Valid: season.Description != ""},
		SequenceNumber: sql.NullInt64{Int64: int64(season.SequenceNumber), Valid: true},
		ReleaseDate:    sql.NullTime{Time: season.ReleaseDate, Valid: season.ReleaseDate != time.Time{}},
		CreatedAt:      sql.NullTime{Time: season.CreatedAt, Valid: season.CreatedAt != time.Time{}},
		UpdatedAt:      sql.NullTime{Time: season.UpdatedAt, Valid: season.UpdatedAt != time.Time{}},
	}
}

type SeasonRow struct {
	ID             sql.NullString `db:"id"`
	ShowID         sql.NullString `db:"show_id"`
	Title          sql.NullString `db:"title"`
	Description    sql.NullString `db:"description"`
	SequenceNumber sql.NullInt64  `db:"sequence_number"`
	ReleaseDate    sql.NullTime   `db:"release_date"`
	CreatedAt      sql.NullTime   `db:"created_at"`
	UpdatedAt      sql.NullTime   `db:"updated_at"`
}

const (
	seasonTable = "seasons"
)

var seasonStruct = database.NewStruct(new(SeasonRow))

func ToSeason(row *SeasonRow) models.Season {
	return models.Season{
		ID:             row.ID.String,
		ShowID:         row.ShowID.String,
		Title:          row.Title.String,
		Description:    row.Description.String,
		SequenceNumber: int(row.SequenceNumber.Int64),
		ReleaseDate:    row.ReleaseDate.Time,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
