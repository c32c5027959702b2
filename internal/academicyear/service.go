package academicyear

import (
	"context"
	"errors"

	"github.com/alexa091904/semi-project/internal/validation"

	"github.com/google/uuid"
)

var ErrAcademicYearNotFound = errors.New("academic year not found")

type Service interface {
	CreateAcademicYear(ctx context.Context, year *AcademicYear) (*AcademicYear, error)
	ListAcademicYears(ctx context.Context) ([]AcademicYear, error)
	GetAcademicYear(ctx context.Context, id uuid.UUID) (*AcademicYear, error)
	UpdateAcademicYear(ctx context.Context, year *AcademicYear) (*AcademicYear, error)
}

type service struct {
	repo     Repository
	validate *validation.Validator
}

func NewService(repo Repository) Service {
	return &service{
		repo:     repo,
		validate: validation.New(),
	}
}

func (s *service) CreateAcademicYear(ctx context.Context, year *AcademicYear) (*AcademicYear, error) {
	if err := s.check(year); err != nil {
		return nil, err
	}
	year.ID = uuid.New()
	year.ArchivedAt = nil
	return s.repo.Create(ctx, year)
}

func (s *service) ListAcademicYears(ctx context.Context) ([]AcademicYear, error) {
	return s.repo.ListLive(ctx)
}

func (s *service) GetAcademicYear(ctx context.Context, id uuid.UUID) (*AcademicYear, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateAcademicYear(ctx context.Context, year *AcademicYear) (*AcademicYear, error) {
	if err := s.check(year); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, year); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, year.ID)
}

func (s *service) check(year *AcademicYear) error {
	if err := s.validate.Struct(year); err != nil {
		return err
	}
	// Both values are 4-digit strings, so lexical order is numeric order.
	if year.EndYear < year.StartYear {
		return validation.FieldError("end_year", "must not be before start_year")
	}
	return nil
}
