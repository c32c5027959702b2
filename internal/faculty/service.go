package faculty

import (
	"context"
	"errors"

	"github.com/alexa091904/semi-project/internal/civil"
	"github.com/alexa091904/semi-project/internal/db"
	"github.com/alexa091904/semi-project/internal/validation"

	"github.com/google/uuid"
)

var ErrFacultyNotFound = errors.New("faculty not found")

// DepartmentChecker resolves department references in any archive state.
type DepartmentChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service interface {
	CreateFaculty(ctx context.Context, member *Faculty) (*Faculty, error)
	ListFaculty(ctx context.Context, filter ListFilter) ([]Faculty, error)
	GetFaculty(ctx context.Context, id uuid.UUID) (*Faculty, error)
	UpdateFaculty(ctx context.Context, member *Faculty) (*Faculty, error)
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

func (s *service) CreateFaculty(ctx context.Context, member *Faculty) (*Faculty, error) {
	member.ID = uuid.New()
	if member.HiredDate == nil {
		today := civil.Today()
		member.HiredDate = &today
	}
	if err := s.check(ctx, member); err != nil {
		return nil, err
	}
	member.ArchivedAt = nil

	created, err := s.repo.Create(ctx, member)
	if db.IsUniqueViolation(err) {
		return nil, emailTaken()
	}
	if db.IsForeignKeyViolation(err) {
		return nil, validation.FieldError("department_id", "does not exist")
	}
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, created.ID)
}

func (s *service) ListFaculty(ctx context.Context, filter ListFilter) ([]Faculty, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) GetFaculty(ctx context.Context, id uuid.UUID) (*Faculty, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateFaculty(ctx context.Context, member *Faculty) (*Faculty, error) {
	current, err := s.repo.GetByID(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	if member.HiredDate == nil {
		member.HiredDate = current.HiredDate
	}
	if err := s.check(ctx, member); err != nil {
		return nil, err
	}

	err = s.repo.Update(ctx, member)
	if db.IsUniqueViolation(err) {
		return nil, emailTaken()
	}
	if db.IsForeignKeyViolation(err) {
		return nil, validation.FieldError("department_id", "does not exist")
	}
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, member.ID)
}

func emailTaken() error {
	return validation.FieldError("email_address", "has already been taken")
}

func (s *service) check(ctx context.Context, member *Faculty) error {
	if err := s.validate.Struct(member); err != nil {
		return err
	}

	existing, err := s.repo.GetByEmail(ctx, member.EmailAddress)
	switch {
	case err == nil && existing.ID != member.ID:
		return emailTaken()
	case err != nil && !errors.Is(err, ErrFacultyNotFound):
		return err
	}

	ok, err := s.departments.Exists(ctx, member.DepartmentID)
	if err != nil {
		return err
	}
	if !ok {
		return validation.FieldError("department_id", "does not exist")
	}
	return nil
}
