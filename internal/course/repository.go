package course

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
	Create(ctx context.Context, course *Course) (*Course, error)
	ListLive(ctx context.Context) ([]Course, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Course, error)
	GetByName(ctx context.Context, name string) (*Course, error)
	Update(ctx context.Context, course *Course) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
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

func (r *repository) Create(ctx context.Context, course *Course) (*Course, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(course).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "courses", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return course, nil
}

func (r *repository) ListLive(ctx context.Context) ([]Course, error) {
	start := time.Now()
	courses := make([]Course, 0)
	err := r.db.NewSelect().
		Model(&courses).
		Relation("Department").
		Where("c.archived_at IS NULL").
		OrderExpr("c.course_name ASC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "courses", time.Since(start), err)

	return courses, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Course, error) {
	start := time.Now()
	course := new(Course)
	err := r.db.NewSelect().
		Model(course).
		Relation("Department").
		Where("c.id = ?", id).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "courses", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// GetByName looks the name up across live and archived courses.
func (r *repository) GetByName(ctx context.Context, name string) (*Course, error) {
	start := time.Now()
	course := new(Course)
	err := r.db.NewSelect().Model(course).Where("c.course_name = ?", name).Limit(1).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "courses", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (r *repository) Update(ctx context.Context, course *Course) error {
	start := time.Now()
	course.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(course).
		Column("course_name", "department_id", "updated_at").
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "courses", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	start := time.Now()
	exists, err := r.db.NewSelect().Model((*Course)(nil)).Where("c.id = ?", id).Exists(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "courses", time.Since(start), err)

	return exists, err
}

func (r *repository) Kind() archive.Kind {
	return archive.KindCourse
}

func (r *repository) ListArchived(ctx context.Context, filter archive.Filter) ([]archive.Item, error) {
	start := time.Now()
	var courses []Course
	q := r.db.NewSelect().
		Model(&courses).
		Relation("Department").
		Where("c.archived_at IS NOT NULL")
	if filter.Search != "" {
		q = q.Where("c.course_name ILIKE ?", archive.ContainsPattern(filter.Search))
	}
	if filter.DepartmentID != nil {
		q = q.Where("c.department_id = ?", *filter.DepartmentID)
	}
	err := q.OrderExpr("c.archived_at DESC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "courses", time.Since(start), err)

	if err != nil {
		return nil, err
	}

	items := make([]archive.Item, 0, len(courses))
	for _, c := range courses {
		var head *string
		if c.Department != nil {
			head = &c.Department.DepartmentHead
		}
		items = append(items, archive.Item{
			SourceType:      archive.KindCourse,
			ID:              c.ID,
			Label:           c.CourseName,
			DepartmentLabel: archive.ResolvedLabel(head),
			ArchivedAt:      *c.ArchivedAt,
		})
	}
	return items, nil
}

func (r *repository) SetArchived(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	start := time.Now()
	changed, err := archive.SetArchivedAt(ctx, r.db, (*Course)(nil), id, at)

	r.metrics.Database.RecordQuery(ctx, "update", "courses", time.Since(start), err)

	return changed, err
}

func (r *repository) ClearArchived(ctx context.Context, id uuid.UUID) (bool, error) {
	start := time.Now()
	changed, err := archive.ClearArchivedAt(ctx, r.db, (*Course)(nil), id)

	r.metrics.Database.RecordQuery(ctx, "update", "courses", time.Since(start), err)

	return changed, err
}
