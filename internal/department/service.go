package department

import (
	"context"
	"errors"

	"github.com/alexa091904/semi-project/internal/validation"

	"github.com/google/uuid"
)

var ErrDepartmentNotFound = errors.New("department not found")

type Service interface {
	CreateDepartment(ctx context.Context, department *Department) (*Department, error)
	ListDepartments(ctx context.Context) ([]Department, error)
	GetDepartment(ctx context.Context, id uuid.UUID) (*Department, error)
	UpdateDepartment(ctx context.Context, department *Department) (*Department, error)
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

func (s *service) CreateDepartment(ctx context.Context, department *Department) (*Department, error) {
	if err := s.validate.Struct(department); err != nil {
		return nil, err
	}
	department.ID = uuid.New()
	department.ArchivedAt = nil
	return s.repo.Create(ctx, department)
}

func (s *service) ListDepartments(ctx context.Context) ([]Department, error) {
	return s.repo.ListLive(ctx)
}

func (s *service) GetDepartment(ctx context.Context, id uuid.UUID) (*Department, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateDepartment(ctx context.Context, department *Department) (*Department, error) {
	if err := s.validate.Struct(department); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, department); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, department.ID)
}
