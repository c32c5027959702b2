package academicyear

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alexa091904/semi-project/internal/archive"
	"github.com/alexa091904/semi-project/internal/metrics"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, year *AcademicYear) (*AcademicYear, error)
	ListLive(ctx context.Context) ([]AcademicYear, error)
	GetByID(ctx context.Context, id uuid.UUID) (*AcademicYear, error)
	Update(ctx context.Context, year *AcademicYear) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	MostRecentLive(ctx context.Context) (*AcademicYear, error)
	archive.Source
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{
		db:      db,
		metrics: m,
	}
}

func (r *repository) Create(ctx context.Context, year *AcademicYear) (*AcademicYear, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(year).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "academic_years", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return year, nil
}

func (r *repository) ListLive(ctx context.Context) ([]AcademicYear, error) {
	start := time.Now()
	years := make([]AcademicYear, 0)
	err := r.db.NewSelect().
		Model(&years).
		Where("ay.archived_at IS NULL").
		OrderExpr("ay.start_year DESC, ay.created_at DESC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "academic_years", time.Since(start), err)

	return years, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*AcademicYear, error) {
	start := time.Now()
	year := new(AcademicYear)
	err := r.db.NewSelect().Model(year).Where("ay.id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "academic_years", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAcademicYearNotFound
		}
		return nil, err
	}
	return year, nil
}

func (r *repository) Update(ctx context.Context, year *AcademicYear) error {
	start := time.Now()
	year.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(year).
		Column("start_year", "end_year", "updated_at").
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "academic_years", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrAcademicYearNotFound
	}
	return nil
}

func (r *repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	start := time.Now()
	exists, err := r.db.NewSelect().Model((*AcademicYear)(nil)).Where("ay.id = ?", id).Exists(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "academic_years", time.Since(start), err)

	return exists, err
}

// MostRecentLive returns the live academic year with the latest start year.
// Years sharing a start year are ordered by creation time.
func (r *repository) MostRecentLive(ctx context.Context) (*AcademicYear, error) {
	start := time.Now()
	year := new(AcademicYear)
	err := r.db.NewSelect().
		Model(year).
		Where("ay.archived_at IS NULL").
		OrderExpr("ay.start_year DESC, ay.created_at DESC").
		Limit(1).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "academic_years", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAcademicYearNotFound
		}
		return nil, err
	}
	return year, nil
}

func (r *repository) Kind() archive.Kind {
	return archive.KindAcademicYear
}

func (r *repository) ListArchived(ctx context.Context, filter archive.Filter) ([]archive.Item, error) {
	start := time.Now()
	var years []AcademicYear
	q := r.db.NewSelect().
		Model(&years).
		Where("ay.archived_at IS NOT NULL")
	if filter.Search != "" {
		pattern := archive.ContainsPattern(filter.Search)
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("ay.start_year ILIKE ?", pattern).
				WhereOr("ay.end_year ILIKE ?", pattern)
		})
	}
	err := q.OrderExpr("ay.archived_at DESC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "academic_years", time.Since(start), err)

	if err != nil {
		return nil, err
	}

	items := make([]archive.Item, 0, len(years))
	for _, y := range years {
		items = append(items, archive.Item{
			SourceType: archive.KindAcademicYear,
			ID:         y.ID,
			Label:      y.Label(),
			ArchivedAt: *y.ArchivedAt,
		})
	}
	return items, nil
}

func (r *repository) SetArchived(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	start := time.Now()
	changed, err := archive.SetArchivedAt(ctx, r.db, (*AcademicYear)(nil), id, at)

	r.metrics.Database.RecordQuery(ctx, "update", "academic_years", time.Since(start), err)

	return changed, err
}

func (r *repository) ClearArchived(ctx context.Context, id uuid.UUID) (bool, error) {
	start := time.Now()
	changed, err := archive.ClearArchivedAt(ctx, r.db, (*AcademicYear)(nil), id)

	r.metrics.Database.RecordQuery(ctx, "update", "academic_years", time.Since(start), err)

	return changed, err
}
