package dashboard

import (
	"context"
	"time"

	"github.com/alexa091904/semi-project/internal/metrics"

	"github.com/uptrace/bun"
)

// Count is one aggregate bucket.
type Count struct {
	Label string `bun:"label" json:"label"`
	Count int    `bun:"count" json:"count"`
}

type Repository interface {
	CountLiveStudents(ctx context.Context) (int, error)
	CountLiveFaculty(ctx context.Context) (int, error)
	StudentsPerCourse(ctx context.Context) ([]Count, error)
	FacultyPerDepartment(ctx context.Context) ([]Count, error)
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

func (r *repository) CountLiveStudents(ctx context.Context) (int, error) {
	return r.countLive(ctx, "students")
}

func (r *repository) CountLiveFaculty(ctx context.Context) (int, error) {
	return r.countLive(ctx, "faculty")
}

func (r *repository) countLive(ctx context.Context, table string) (int, error) {
	start := time.Now()
	n, err := r.db.NewSelect().
		TableExpr("? AS t", bun.Ident(table)).
		Where("t.archived_at IS NULL").
		Count(ctx)

	r.metrics.Database.RecordQuery(ctx, "count", table, time.Since(start), err)

	return n, err
}

// StudentsPerCourse groups live students by course. Students whose course
// cannot be resolved are counted under UnknownLabel.
func (r *repository) StudentsPerCourse(ctx context.Context) ([]Count, error) {
	start := time.Now()
	counts := make([]Count, 0)
	err := r.db.NewSelect().
		TableExpr("students AS s").
		ColumnExpr("COALESCE(c.course_name, ?) AS label", UnknownLabel).
		ColumnExpr("COUNT(*) AS count").
		Join("LEFT JOIN courses AS c ON c.id = s.course_id").
		Where("s.archived_at IS NULL").
		GroupExpr("s.course_id, c.course_name").
		OrderExpr("count DESC, label ASC").
		Scan(ctx, &counts)

	r.metrics.Database.RecordQuery(ctx, "select", "students", time.Since(start), err)

	return counts, err
}

// FacultyPerDepartment groups live faculty by department, labelled with the
// department head.
func (r *repository) FacultyPerDepartment(ctx context.Context) ([]Count, error) {
	start := time.Now()
	counts := make([]Count, 0)
	err := r.db.NewSelect().
		TableExpr("faculty AS f").
		ColumnExpr("COALESCE(d.department_head, ?) AS label", UnknownLabel).
		ColumnExpr("COUNT(*) AS count").
		Join("LEFT JOIN departments AS d ON d.id = f.department_id").
		Where("f.archived_at IS NULL").
		GroupExpr("f.department_id, d.department_head").
		OrderExpr("count DESC, label ASC").
		Scan(ctx, &counts)

	r.metrics.Database.RecordQuery(ctx, "select", "faculty", time.Since(start), err)

	return counts, err
}
