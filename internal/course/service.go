package course

import (
	"context"
	"errors"

	"github.com/alexa091904/semi-project/internal/db"
	"github.com/alexa091904/semi-project/internal/validation"

	"github.com/google/uuid"
)

var ErrCourseNotFound = errors.New("course not found")

// DepartmentChecker resolves department references in any archive state.
type DepartmentChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service interface {
	CreateCourse(ctx context.Context, course *Course) (*Course, error)
	ListCourses(ctx context.Context) ([]Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*Course, error)
	UpdateCourse(ctx context.Context, course *Course) (*Course, error)
}

type service struct {
	repo        Repository
	departments DepartmentChecker
	validate    *validation.Validator
}

func NewService(repo Repository, departments DepartmentChecker) Service {
	return &service{
		repo:        repo,
		departments: departments,
		validate:    validation.New(),
	}
}

func (s *service) CreateCourse(ctx context.Context, course *Course) (*Course, error) {
	course.ID = uuid.New()
	if err := s.check(ctx, course); err != nil {
		return nil, err
	}
	course.ArchivedAt = nil

	created, err := s.repo.Create(ctx, course)
	if db.IsUniqueViolation(err) {
		return nil, nameTaken()
	}
	if db.IsForeignKeyViolation(err) {
		return nil, validation.FieldError("department_id", "does not exist")
	}
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, created.ID)
}

func (s *service) ListCourses(ctx context.Context) ([]Course, error) {
	return s.repo.ListLive(ctx)
}

func (s *service) GetCourse(ctx context.Context, id uuid.UUID) (*Course, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateCourse(ctx context.Context, course *Course) (*Course, error) {
	if _, err := s.repo.GetByID(ctx, course.ID); err != nil {
		return nil, err
	}
	if err := s.check(ctx, course); err != nil {
		return nil, err
	}

	err := s.repo.Update(ctx, course)
	if db.IsUniqueViolation(err) {
		return nil, nameTaken()
	}
	if db.IsForeignKeyViolation(err) {
		return nil, validation.FieldError("department_id", "does not exist")
	}
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, course.ID)
}

func nameTaken() error {
	return validation.FieldError("course_name", "has already been taken")
}

func (s *service) check(ctx context.Context, course *Course) error {
	if err := s.validate.Struct(course); err != nil {
		return err
	}

	existing, err := s.repo.GetByName(ctx, course.CourseName)
	switch {
	case err == nil && existing.ID != course.ID:
		return nameTaken()
	case err != nil && !errors.Is(err, ErrCourseNotFound):
		return err
	}

	ok, err := s.departments.Exists(ctx, course.DepartmentID)
	if err != nil {
		return err
	}
	if !ok {
		return validation.FieldError("department_id", "does not exist")
	}
	return nil
}
