package department

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
	Create(ctx context.Context, department *Department) (*Department, error)
	ListLive(ctx context.Context) ([]Department, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Department, error)
	Update(ctx context.Context, department *Department) error
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

func (r *repository) Create(ctx context.Context, department *Department) (*Department, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(department).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "departments", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return department, nil
}

func (r *repository) ListLive(ctx context.Context) ([]Department, error) {
	start := time.Now()
	departments := make([]Department, 0)
	err := r.db.NewSelect().
		Model(&departments).
		Where("d.archived_at IS NULL").
		OrderExpr("d.department_head ASC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "departments", time.Since(start), err)

	return departments, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Department, error) {
	start := time.Now()
	department := new(Department)
	err := r.db.NewSelect().Model(department).Where("d.id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "departments", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	return department, nil
}

func (r *repository) Update(ctx context.Context, department *Department) error {
	start := time.Now()
	department.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(department).
		Column("department_name", "department_head", "updated_at").
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "departments", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}

// Exists reports whether a department with id exists in any archive state.
func (r *repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	start := time.Now()
	exists, err := r.db.NewSelect().Model((*Department)(nil)).Where("d.id = ?", id).Exists(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "departments", time.Since(start), err)

	return exists, err
}

func (r *repository) Kind() archive.Kind {
	return archive.KindDepartment
}

func (r *repository) ListArchived(ctx context.Context, filter archive.Filter) ([]archive.Item, error) {
	start := time.Now()
	var departments []Department
	q := r.db.NewSelect().
		Model(&departments).
		Where("d.archived_at IS NOT NULL")
	if filter.Search != "" {
		q = q.Where("d.department_head ILIKE ?", archive.ContainsPattern(filter.Search))
	}
	err := q.OrderExpr("d.archived_at DESC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "departments", time.Since(start), err)

	if err != nil {
		return nil, err
	}

	items := make([]archive.Item, 0, len(departments))
	for _, d := range departments {
		items = append(items, archive.Item{
			SourceType: archive.KindDepartment,
			ID:         d.ID,
			Label:      d.DepartmentHead,
			ArchivedAt: *d.ArchivedAt,
		})
	}
	return items, nil
}

func (r *repository) SetArchived(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	start := time.Now()
	changed, err := archive.SetArchivedAt(ctx, r.db, (*Department)(nil), id, at)

	r.metrics.Database.RecordQuery(ctx, "update", "departments", time.Since(start), err)

	return changed, err
}

func (r *repository) ClearArchived(ctx context.Context, id uuid.UUID) (bool, error) {
	start := time.Now()
	changed, err := archive.ClearArchivedAt(ctx, r.db, (*Department)(nil), id)

	r.metrics.Database.RecordQuery(ctx, "update", "departments", time.Since(start), err)

	return changed, err
}
