// Package report builds filtered point-in-time snapshots of students and faculty.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alexa091904/semi-project/internal/archive"
	"github.com/alexa091904/semi-project/internal/course"
	"github.com/alexa091904/semi-project/internal/department"
	"github.com/alexa091904/semi-project/internal/faculty"
	"github.com/alexa091904/semi-project/internal/metrics"
	"github.com/alexa091904/semi-project/internal/student"
	"github.com/alexa091904/semi-project/internal/validation"

	"github.com/google/uuid"
)

type StudentLister interface {
	ListStudents(ctx context.Context, filter student.ListFilter) ([]student.Student, error)
}

type FacultyLister interface {
	ListFaculty(ctx context.Context, filter faculty.ListFilter) ([]faculty.Faculty, error)
}

type CourseLister interface {
	ListCourses(ctx context.Context) ([]course.Course, error)
}

type DepartmentLister interface {
	ListDepartments(ctx context.Context) ([]department.Department, error)
}

type Service struct {
	students    StudentLister
	faculty     FacultyLister
	courses     CourseLister
	departments DepartmentLister
	metrics     *metrics.Metrics
	validate    *validation.Validator
	now         func() time.Time
}

func NewService(students StudentLister, fac FacultyLister, courses CourseLister, departments DepartmentLister, m *metrics.Metrics) *Service {
	if m == nil {
		m = metrics.NewMock()
	}
	return &Service{
		students:    students,
		faculty:     fac,
		courses:     courses,
		departments: departments,
		metrics:     m,
		validate:    validation.New(),
		now:         time.Now,
	}
}

// Options returns the live courses and departments, each sorted by name.
func (s *Service) Options(ctx context.Context) (*Options, error) {
	courses, err := s.courses.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	departments, err := s.departments.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}

	opts := &Options{
		Courses:     make([]Option, 0, len(courses)),
		Departments: make([]Option, 0, len(departments)),
	}
	for _, c := range courses {
		opts.Courses = append(opts.Courses, Option{ID: c.ID, Name: c.CourseName})
	}
	for _, d := range departments {
		opts.Departments = append(opts.Departments, Option{ID: d.ID, Name: d.DepartmentName, Head: d.DepartmentHead})
	}
	sort.SliceStable(opts.Courses, func(i, j int) bool { return opts.Courses[i].Name < opts.Courses[j].Name })
	sort.SliceStable(opts.Departments, func(i, j int) bool { return opts.Departments[i].Name < opts.Departments[j].Name })
	return opts, nil
}

func (s *Service) Students(ctx context.Context, req StudentRequest) (*Snapshot, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	fields := make(map[string]string)
	filter := student.ListFilter{
		CourseID:     parseID(req.CourseID, "course_id", fields),
		DepartmentID: parseID(req.DepartmentID, "department_id", fields),
		Status:       req.Status,
	}
	if len(fields) > 0 {
		return nil, &validation.Error{Fields: fields}
	}

	students, err := s.students.ListStudents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	rows := make([]StudentRow, 0, len(students))
	for _, st := range students {
		row := StudentRow{
			ID:           st.ID,
			FullName:     st.FullName,
			EmailAddress: st.EmailAddress,
			PhoneNumber:  st.PhoneNumber,
			Sex:          st.Sex,
			Status:       st.Status,
			Course:       archive.Placeholder,
			Department:   archive.Placeholder,
			AcademicYear: archive.Placeholder,
		}
		if st.Course != nil && st.Course.CourseName != "" {
			row.Course = st.Course.CourseName
		}
		if st.Department != nil && st.Department.DepartmentName != "" {
			row.Department = st.Department.DepartmentName
		}
		if st.AcademicYear != nil && st.AcademicYear.StartYear != "" {
			row.AcademicYear = st.AcademicYear.Label()
		}
		rows = append(rows, row)
	}

	s.metrics.Records.RecordReportGenerated(ctx, TypeStudents)
	return &Snapshot{
		ReportType:   TypeStudents,
		TotalRecords: len(rows),
		GeneratedAt:  s.now().UTC(),
		Filters:      req,
		Data:         rows,
	}, nil
}

func (s *Service) Faculty(ctx context.Context, req FacultyRequest) (*Snapshot, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	fields := make(map[string]string)
	filter := faculty.ListFilter{
		DepartmentID: parseID(req.DepartmentID, "department_id", fields),
		Status:       req.Status,
	}
	if len(fields) > 0 {
		return nil, &validation.Error{Fields: fields}
	}

	members, err := s.faculty.ListFaculty(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list faculty: %w", err)
	}

	rows := make([]FacultyRow, 0, len(members))
	for _, m := range members {
		row := FacultyRow{
			ID:           m.ID,
			FullName:     m.FullName,
			EmailAddress: m.EmailAddress,
			PhoneNumber:  m.PhoneNumber,
			Sex:          m.Sex,
			Position:     m.Position,
			Status:       m.Status,
			Department:   archive.Placeholder,
			HiredDate:    m.HiredDate,
		}
		if m.Department != nil && m.Department.DepartmentName != "" {
			row.Department = m.Department.DepartmentName
		}
		rows = append(rows, row)
	}

	s.metrics.Records.RecordReportGenerated(ctx, TypeFaculty)
	return &Snapshot{
		ReportType:   TypeFaculty,
		TotalRecords: len(rows),
		GeneratedAt:  s.now().UTC(),
		Filters:      req,
		Data:         rows,
	}, nil
}

func parseID(raw, field string, fields map[string]string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		fields[field] = "must be a valid id"
		return nil
	}
	return &id
}
