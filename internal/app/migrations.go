package app

import (
	"github.com/alexa091904/semi-project/internal/academicyear"
	"github.com/alexa091904/semi-project/internal/auth"
	"github.com/alexa091904/semi-project/internal/course"
	"github.com/alexa091904/semi-project/internal/department"
	"github.com/alexa091904/semi-project/internal/faculty"
	"github.com/alexa091904/semi-project/internal/student"
)

// Models lists every table in creation order. Referenced tables come first
// so foreign keys can be created.
func Models() []interface{} {
	return []interface{}{
		(*department.Department)(nil),
		(*academicyear.AcademicYear)(nil),
		(*course.Course)(nil),
		(*faculty.Faculty)(nil),
		(*student.Student)(nil),
		(*auth.Admin)(nil),
		(*auth.Session)(nil),
	}
}
