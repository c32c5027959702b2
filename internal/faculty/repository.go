package faculty

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
	Create(ctx context.Context, member *Faculty) (*Faculty, error)
	List(ctx context.Context, filter ListFilter) ([]Faculty, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Faculty, error)
	GetByEmail(ctx context.Context, email string) (*Faculty, error)
	Update(ctx context.Context, member *Faculty) error
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

func (r *repository) Create(ctx context.Context, member *Faculty) (*Faculty, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(member).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "faculty", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return member, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Faculty, error) {
	start := time.Now()
	members := make([]Faculty, 0)
	q := r.db.NewSelect().
		Model(&members).
		Relation("Department").
		Where("f.archived_at IS NULL")
	if filter.Search != "" {
		pattern := archive.ContainsPattern(filter.Search)
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("f.full_name ILIKE ?", pattern).
				WhereOr("f.email_address ILIKE ?", pattern)
		})
	}
	if filter.DepartmentID != nil {
		q = q.Where("f.department_id = ?", *filter.DepartmentID)
	}
	if filter.Status != "" {
		q = q.Where("f.status = ?", filter.Status)
	}
	err := q.OrderExpr("f.full_name ASC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "faculty", time.Since(start), err)

	return members, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Faculty, error) {
	start := time.Now()
	member := new(Faculty)
	err := r.db.NewSelect().
		Model(member).
		Relation("Department").
		Where("f.id = ?", id).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "faculty", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFacultyNotFound
		}
		return nil, err
	}
	return member, nil
}

// GetByEmail looks the address up across live and archived faculty.
func (r *repository) GetByEmail(ctx context.Context, email string) (*Faculty, error) {
	start := time.Now()
	member := new(Faculty)
	err := r.db.NewSelect().
		Model(member).
		Where("f.email_address = ?", email).
		Limit(1).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "faculty", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFacultyNotFound
		}
		return nil, err
	}
	return member, nil
}

func (r *repository) Update(ctx context.Context, member *Faculty) error {
	start := time.Now()
	member.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(member).
		Column(
			"full_name", "email_address", "phone_number", "sex", "date_of_birth",
			"address", "department_id", "position", "status", "hired_date", "updated_at",
		).
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "faculty", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrFacultyNotFound
	}
	return nil
}

func (r *repository) Kind() archive.Kind {
	return archive.KindFaculty
}

func (r *repository) ListArchived(ctx context.Context, filter archive.Filter) ([]archive.Item, error) {
	start := time.Now()
	var members []Faculty
	q := r.db.NewSelect().
		Model(&members).
		Relation("Department").
		Where("f.archived_at IS NOT NULL")
	if filter.Search != "" {
		q = q.Where("f.full_name ILIKE ?", archive.ContainsPattern(filter.Search))
	}
	if filter.DepartmentID != nil {
		q = q.Where("f.department_id = ?", *filter.DepartmentID)
	}
	err := q.OrderExpr("f.archived_at DESC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "faculty", time.Since(start), err)

	if err != nil {
		return nil, err
	}

	items := make([]archive.Item, 0, len(members))
	for _, m := range members {
		var head *string
		if m.Department != nil {
			head = &m.Department.DepartmentHead
		}
		items = append(items, archive.Item{
			SourceType:      archive.KindFaculty,
			ID:              m.ID,
			Label:           m.FullName,
			DepartmentLabel: archive.ResolvedLabel(head),
			ArchivedAt:      *m.ArchivedAt,
		})
	}
	return items, nil
}

func (r *repository) SetArchived(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	start := time.Now()
	changed, err := archive.SetArchivedAt(ctx, r.db, (*Faculty)(nil), id, at)

	r.metrics.Database.RecordQuery(ctx, "update", "faculty", time.Since(start), err)

	return changed, err
}

func (r *repository) ClearArchived(ctx context.Context, id uuid.UUID) (bool, error) {
	start := time.Now()
	changed, err := archive.ClearArchivedAt(ctx, r.db, (*Faculty)(nil), id)

	r.metrics.Database.RecordQuery(ctx, "update", "faculty", time.Since(start), err)

	return changed, err
}
