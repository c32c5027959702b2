package student

import (
	"context"
	"errors"

	"github.com/alexa091904/semi-project/internal/academicyear"
	"github.com/alexa091904/semi-project/internal/db"
	"github.com/alexa091904/semi-project/internal/validation"

	"github.com/google/uuid"
)

var ErrStudentNotFound = errors.New("student not found")

// ReferenceChecker resolves a foreign key in any archive state.
type ReferenceChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// AcademicYearResolver also picks the year assigned when none is given.
type AcademicYearResolver interface {
	ReferenceChecker
	MostRecentLive(ctx context.Context) (*academicyear.AcademicYear, error)
}

type Service interface {
	CreateStudent(ctx context.Context, student *Student) (*Student, error)
	ListStudents(ctx context.Context, filter ListFilter) ([]Student, error)
	GetStudent(ctx context.Context, id uuid.UUID) (*Student, error)
	UpdateStudent(ctx context.Context, student *Student) (*Student, error)
}

type service struct {
	repo          Repository
	departments   ReferenceChecker
	courses       ReferenceChecker
	academicYears AcademicYearResolver
	validate      *validation.Validator
}

func NewService(repo Repository, departments, courses ReferenceChecker, academicYears AcademicYearResolver) Service {
	return &service{
		repo:          repo,
		departments:   departments,
		courses:       courses,
		academicYears: academicYears,
		validate:      validation.New(),
	}
}

func (s *service) CreateStudent(ctx context.Context, student *Student) (*Student, error) {
	student.ID = uuid.New()
	if err := s.check(ctx, student); err != nil {
		return nil, err
	}
	student.ArchivedAt = nil

	created, err := s.repo.Create(ctx, student)
	if db.IsUniqueViolation(err) {
		return nil, emailTaken()
	}
	if db.IsForeignKeyViolation(err) {
		return nil, missingReference(err)
	}
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, created.ID)
}

func (s *service) ListStudents(ctx context.Context, filter ListFilter) ([]Student, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) GetStudent(ctx context.Context, id uuid.UUID) (*Student, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateStudent(ctx context.Context, student *Student) (*Student, error) {
	current, err := s.repo.GetByID(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	// An omitted academic year keeps the stored one.
	if student.AcademicYearID == uuid.Nil {
		student.AcademicYearID = current.AcademicYearID
	}
	if err := s.check(ctx, student); err != nil {
		return nil, err
	}

	err = s.repo.Update(ctx, student)
	if db.IsUniqueViolation(err) {
		return nil, emailTaken()
	}
	if db.IsForeignKeyViolation(err) {
		return nil, missingReference(err)
	}
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, student.ID)
}

func emailTaken() error {
	return validation.FieldError("email_address", "has already been taken")
}

// check validates the record, its unique email and its references. A missing
// academic year is filled with the most recent live one; only creation can
// reach that branch.
func (s *service) check(ctx context.Context, student *Student) error {
	if err := s.validate.Struct(student); err != nil {
		return err
	}

	existing, err := s.repo.GetByEmail(ctx, student.EmailAddress)
	switch {
	case err == nil && existing.ID != student.ID:
		return emailTaken()
	case err != nil && !errors.Is(err, ErrStudentNotFound):
		return err
	}

	if err := checkReference(ctx, s.departments, student.DepartmentID, "department_id"); err != nil {
		return err
	}
	if err := checkReference(ctx, s.courses, student.CourseID, "course_id"); err != nil {
		return err
	}

	if student.AcademicYearID == uuid.Nil {
		year, err := s.academicYears.MostRecentLive(ctx)
		if errors.Is(err, academicyear.ErrAcademicYearNotFound) {
			return validation.FieldError("academic_year_id", "no active academic year is available")
		}
		if err != nil {
			return err
		}
		student.AcademicYearID = year.ID
		return nil
	}
	return checkReference(ctx, s.academicYears, student.AcademicYearID, "academic_year_id")
}

// missingReference maps a foreign key violation to the offending field.
// Constraint names follow PostgreSQL's "<table>_<column>_fkey" default.
func missingReference(err error) error {
	field := "department_id"
	switch db.ConstraintName(err) {
	case "students_course_id_fkey":
		field = "course_id"
	case "students_academic_year_id_fkey":
		field = "academic_year_id"
	}
	return validation.FieldError(field, "does not exist")
}

func checkReference(ctx context.Context, checker ReferenceChecker, id uuid.UUID, field string) error {
	ok, err := checker.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return validation.FieldError(field, "does not exist")
	}
	return nil
}
