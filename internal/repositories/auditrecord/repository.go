package auditrecord

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
)

type AuditRecordRepository interface {
	Insert(ctx context.Context, record models.AuditRecord) error
	ListAuditRecords(ctx context.Context, limit, offset int) ([]models.AuditRecord, int, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new audit record repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) Insert(ctx context.Context, record models.AuditRecord) error {
	ctx, span := tracing.StartSpan(ctx, "AuditRecordRepository.Insert")
	defer span.End()

	row := FromAuditRecord(record)
	ib := auditRecordStruct.InsertInto(auditRecordTable, row)
	sql, args := ib.Build()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"id":          record.ID,
			"action":      record.Action,
			"entity_kind": record.EntityKind,
		}).Error("error inserting audit record")
		return httperror.WrapError(http.StatusInternalServerError, err)
	}

	return tx.Commit(ctx)
}

func (r *Repository) ListAuditRecords(ctx context.Context, limit, offset int) ([]models.AuditRecord, int, error) {
	ctx, span := tracing.StartSpan(ctx, "AuditRecordRepository.ListAuditRecords")
	defer span.End()

	sb := auditRecordStruct.SelectFrom(auditRecordTable)
	sb.OrderBy("created_at").Desc()
	sb.Limit(limit)
	sb.Offset(offset)

	sql, args := sb.Build()

	var rows []AuditRecordRow
	err := r.db.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("error listing audit records")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "error listing audit records")
	}

	var total int
	countSb := database.NewSelectBuilder()
	countSb.Select("COUNT(*)").From(auditRecordTable)
	countSql, countArgs := countSb.Build()
	err = r.db.GetContext(ctx, &total, countSql, countArgs...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("error counting audit records")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "error counting audit records")
	}

	records := make([]models.AuditRecord, 0, len(rows))
	for i := range rows {
		records = append(records, ToAuditRecord(&rows[i]))
	}

	return records, total, nil
}

// DeleteExpired removes records whose retention window has passed.
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "AuditRecordRepository.DeleteExpired")
	defer span.End()

	db := auditRecordStruct.DeleteFrom(auditRecordTable)
	db.Where(db.LessThan("expires_at", now))
	sql, args := db.Build()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	result, err := tx.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("error deleting expired audit records")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "error deleting expired audit records")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, httperror.WrapError(http.StatusInternalServerError, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}

	return int(affected), nil
}
