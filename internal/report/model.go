package report

import (
	"time"

	"github.com/alexa091904/semi-project/internal/civil"

	"github.com/google/uuid"
)

const (
	TypeStudents = "students"
	TypeFaculty  = "faculty"
)

type StudentRequest struct {
	CourseID     string `json:"course_id"`
	DepartmentID string `json:"department_id"`
	Status       string `json:"status" validate:"omitempty,oneof=Active Inactive Graduated"`
}

type FacultyRequest struct {
	DepartmentID string `json:"department_id"`
	Status       string `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

// Snapshot is a generated report. Filters echoes the applied request.
type Snapshot struct {
	ReportType   string      `json:"report_type"`
	TotalRecords int         `json:"total_records"`
	GeneratedAt  time.Time   `json:"generated_at"`
	Filters      interface{} `json:"filters"`
	Data         interface{} `json:"data"`
}

type StudentRow struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	EmailAddress string    `json:"email_address"`
	PhoneNumber  string    `json:"phone_number"`
	Sex          string    `json:"sex"`
	Status       string    `json:"status"`
	Course       string    `json:"course"`
	Department   string    `json:"department"`
	AcademicYear string    `json:"academic_year"`
}

type FacultyRow struct {
	ID           uuid.UUID   `json:"id"`
	FullName     string      `json:"full_name"`
	EmailAddress string      `json:"email_address"`
	PhoneNumber  string      `json:"phone_number"`
	Sex          string      `json:"sex"`
	Position     string      `json:"position"`
	Status       string      `json:"status"`
	Department   string      `json:"department"`
	HiredDate    *civil.Date `json:"hired_date"`
}

// Option is a filter choice. Head is set for departments only.
type Option struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Head string    `json:"head,omitempty"`
}

// Options lists the values the report filters accept.
type Options struct {
	Courses     []Option `json:"courses"`
	Departments []Option `json:"departments"`
}
