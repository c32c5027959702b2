// Package dashboard computes the aggregate counts shown on the admin home page.
package dashboard

import (
	"context"
	"fmt"
)

const UnknownLabel = "Unknown"

// Palette colors the faculty-per-department chart, reused cyclically.
var Palette = []string{
	"#4A90E2", "#7B68A6", "#C44E9C", "#50C8E8",
	"#F39C12", "#E74C3C", "#9B59B6", "#1ABC9C",
}

type DepartmentCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

type Stats struct {
	TotalStudents        int               `json:"total_students"`
	TotalFaculty         int               `json:"total_faculty"`
	StudentsPerCourse    []Count           `json:"students_per_course"`
	FacultyPerDepartment []DepartmentCount `json:"faculty_per_department"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	totalStudents, err := s.repo.CountLiveStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	totalFaculty, err := s.repo.CountLiveFaculty(ctx)
	if err != nil {
		return nil, fmt.Errorf("count faculty: %w", err)
	}
	perCourse, err := s.repo.StudentsPerCourse(ctx)
	if err != nil {
		return nil, fmt.Errorf("students per course: %w", err)
	}
	perDepartment, err := s.repo.FacultyPerDepartment(ctx)
	if err != nil {
		return nil, fmt.Errorf("faculty per department: %w", err)
	}

	return &Stats{
		TotalStudents:        totalStudents,
		TotalFaculty:         totalFaculty,
		StudentsPerCourse:    perCourse,
		FacultyPerDepartment: colorize(perDepartment),
	}, nil
}

func colorize(counts []Count) []DepartmentCount {
	out := make([]DepartmentCount, len(counts))
	for i, c := range counts {
		out[i] = DepartmentCount{
			Label: c.Label,
			Count: c.Count,
			Color: Palette[i%len(Palette)],
		}
	}
	return out
}
