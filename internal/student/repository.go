package student

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
	Create(ctx context.Context, student *Student) (*Student, error)
	List(ctx context.Context, filter ListFilter) ([]Student, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Student, error)
	GetByEmail(ctx context.Context, email string) (*Student, error)
	Update(ctx context.Context, student *Student) error
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

func (r *repository) Create(ctx context.Context, student *Student) (*Student, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(student).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "students", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return student, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Student, error) {
	start := time.Now()
	students := make([]Student, 0)
	q := r.db.NewSelect().
		Model(&students).
		Relation("Department").
		Relation("Course").
		Relation("AcademicYear").
		Where("s.archived_at IS NULL")
	if filter.Search != "" {
		pattern := archive.ContainsPattern(filter.Search)
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("s.full_name ILIKE ?", pattern).
				WhereOr("s.email_address ILIKE ?", pattern)
		})
	}
	if filter.DepartmentID != nil {
		q = q.Where("s.department_id = ?", *filter.DepartmentID)
	}
	if filter.CourseID != nil {
		q = q.Where("s.course_id = ?", *filter.CourseID)
	}
	if filter.AcademicYearID != nil {
		q = q.Where("s.academic_year_id = ?", *filter.AcademicYearID)
	}
	if filter.Status != "" {
		q = q.Where("s.status = ?", filter.Status)
	}
	err := q.OrderExpr("s.full_name ASC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "students", time.Since(start), err)

	return students, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Student, error) {
	start := time.Now()
	student := new(Student)
	err := r.db.NewSelect().
		Model(student).
		Relation("Department").
		Relation("Course").
		Relation("AcademicYear").
		Where("s.id = ?", id).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "students", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// GetByEmail looks the address up across live and archived students.
func (r *repository) GetByEmail(ctx context.Context, email string) (*Student, error) {
	start := time.Now()
	student := new(Student)
	err := r.db.NewSelect().
		Model(student).
		Where("s.email_address = ?", email).
		Limit(1).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "students", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

func (r *repository) Update(ctx context.Context, student *Student) error {
	start := time.Now()
	student.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(student).
		Column(
			"full_name", "email_address", "phone_number", "sex", "date_of_birth", "address",
			"status", "department_id", "course_id", "academic_year_id", "updated_at",
		).
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "students", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrStudentNotFound
	}
	return nil
}

func (r *repository) Kind() archive.Kind {
	return archive.KindStudent
}

func (r *repository) ListArchived(ctx context.Context, filter archive.Filter) ([]archive.Item, error) {
	start := time.Now()
	var students []Student
	q := r.db.NewSelect().
		Model(&students).
		Relation("Department").
		Relation("Course").
		Where("s.archived_at IS NOT NULL")
	if filter.Search != "" {
		q = q.Where("s.full_name ILIKE ?", archive.ContainsPattern(filter.Search))
	}
	if filter.DepartmentID != nil {
		q = q.Where("s.department_id = ?", *filter.DepartmentID)
	}
	if filter.CourseID != nil {
		q = q.Where("s.course_id = ?", *filter.CourseID)
	}
	if filter.AcademicYearID != nil {
		q = q.Where("s.academic_year_id = ?", *filter.AcademicYearID)
	}
	err := q.OrderExpr("s.archived_at DESC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "students", time.Since(start), err)

	if err != nil {
		return nil, err
	}

	items := make([]archive.Item, 0, len(students))
	for _, s := range students {
		var head, courseName *string
		if s.Department != nil {
			head = &s.Department.DepartmentHead
		}
		if s.Course != nil {
			courseName = &s.Course.CourseName
		}
		items = append(items, archive.Item{
			SourceType:      archive.KindStudent,
			ID:              s.ID,
			Label:           s.FullName,
			DepartmentLabel: archive.ResolvedLabel(head),
			CourseLabel:     archive.ResolvedLabel(courseName),
			ArchivedAt:      *s.ArchivedAt,
		})
	}
	return items, nil
}

func (r *repository) SetArchived(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	start := time.Now()
	changed, err := archive.SetArchivedAt(ctx, r.db, (*Student)(nil), id, at)

	r.metrics.Database.RecordQuery(ctx, "update", "students", time.Since(start), err)

	return changed, err
}

func (r *repository) ClearArchived(ctx context.Context, id uuid.UUID) (bool, error) {
	start := time.Now()
	changed, err := archive.ClearArchivedAt(ctx, r.db, (*Student)(nil), id)

	r.metrics.Database.RecordQuery(ctx, "update", "students", time.Since(start), err)

	return changed, err
}
