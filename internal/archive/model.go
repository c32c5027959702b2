package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type selects which record kinds an archive listing covers.
type Type string

const (
	TypeAll           Type = "all"
	TypeCourses       Type = "courses"
	TypeDepartments   Type = "departments"
	TypeAcademicYears Type = "academic_years"
	TypeStudents      Type = "students"
	TypeFaculty       Type = "faculty"
)

// Kind identifies the record type an archived item came from.
type Kind string

const (
	KindCourse       Kind = "course"
	KindDepartment   Kind = "department"
	KindAcademicYear Kind = "academic_year"
	KindStudent      Kind = "student"
	KindFaculty      Kind = "faculty"
)

// Placeholder is shown when a referenced record cannot be resolved.
const Placeholder = "-"

// listOrder is the order in which kinds are concatenated for TypeAll.
var listOrder = []Kind{KindCourse, KindDepartment, KindAcademicYear, KindStudent, KindFaculty}

var kindInfo = map[Kind]struct {
	typ        Type
	collection string
	title      string
}{
	KindCourse:       {TypeCourses, "courses", "Course"},
	KindDepartment:   {TypeDepartments, "departments", "Department"},
	KindAcademicYear: {TypeAcademicYears, "academic-years", "Academic year"},
	KindStudent:      {TypeStudents, "students", "Student"},
	KindFaculty:      {TypeFaculty, "faculty", "Faculty"},
}

func ParseType(s string) (Type, error) {
	if s == "" {
		return TypeAll, nil
	}
	t := Type(s)
	if t == TypeAll {
		return t, nil
	}
	for _, info := range kindInfo {
		if info.typ == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown archive type %q", s)
}

// Includes reports whether listings of type t cover kind k.
func (t Type) Includes(k Kind) bool {
	return t == TypeAll || kindInfo[k].typ == t
}

// Collection is the URL path segment of the kind's CRUD routes.
func (k Kind) Collection() string {
	return kindInfo[k].collection
}

// Title is the human readable name used in response messages.
func (k Kind) Title() string {
	return kindInfo[k].title
}

// Filter narrows an archive listing. Nil pointers and an empty Search
// mean "no restriction".
type Filter struct {
	Type           Type
	Search         string
	DepartmentID   *uuid.UUID
	CourseID       *uuid.UUID
	AcademicYearID *uuid.UUID
}

// Item is the uniform projection of an archived record.
type Item struct {
	SourceType      Kind      `json:"source_type"`
	ID              uuid.UUID `json:"id"`
	Label           string    `json:"label"`
	DepartmentLabel *string   `json:"department_label"`
	CourseLabel     *string   `json:"course_label"`
	ArchivedAt      time.Time `json:"archived_at"`
}

// Source is implemented by every repository whose records can be archived.
type Source interface {
	Kind() Kind
	ListArchived(ctx context.Context, filter Filter) ([]Item, error)
	// SetArchived and ClearArchived report whether the row changed state.
	SetArchived(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	ClearArchived(ctx context.Context, id uuid.UUID) (bool, error)
}

// Event is published after every successful archive transition.
type Event struct {
	Action     string    `json:"action"`
	SourceType Kind      `json:"source_type"`
	ID         uuid.UUID `json:"id"`
	At         time.Time `json:"at"`
}

const (
	ActionArchived = "archived"
	ActionRestored = "restored"
)

// ResolvedLabel returns a pointer to label, or to Placeholder when the
// relation could not be resolved.
func ResolvedLabel(label *string) *string {
	if label == nil || *label == "" {
		p := Placeholder
		return &p
	}
	v := *label
	return &v
}
