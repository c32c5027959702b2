package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexa091904/semi-project/internal/academicyear"
	"github.com/alexa091904/semi-project/internal/course"
	"github.com/alexa091904/semi-project/internal/department"
	"github.com/alexa091904/semi-project/internal/faculty"
	"github.com/alexa091904/semi-project/internal/logger"
	"github.com/alexa091904/semi-project/internal/metrics"
	"github.com/alexa091904/semi-project/internal/report"
	"github.com/alexa091904/semi-project/internal/student"
	"github.com/alexa091904/semi-project/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLists struct {
	students      []student.Student
	faculty       []faculty.Faculty
	courses       []course.Course
	departments   []department.Department
	studentFilter student.ListFilter
	facultyFilter faculty.ListFilter
}

func (f *fakeLists) ListStudents(_ context.Context, filter student.ListFilter) ([]student.Student, error) {
	f.studentFilter = filter
	return f.students, nil
}

func (f *fakeLists) ListFaculty(_ context.Context, filter faculty.ListFilter) ([]faculty.Faculty, error) {
	f.facultyFilter = filter
	return f.faculty, nil
}

func (f *fakeLists) ListCourses(context.Context) ([]course.Course, error) {
	return f.courses, nil
}

func (f *fakeLists) ListDepartments(context.Context) ([]department.Department, error) {
	return f.departments, nil
}

func newService(f *fakeLists) *report.Service {
	return report.NewService(f, f, f, f, metrics.NewMock())
}

func TestService_Students(t *testing.T) {
	t.Run("applies filters and flattens relations", func(t *testing.T) {
		courseID := uuid.New()
		f := &fakeLists{students: []student.Student{
			{
				ID:           uuid.New(),
				FullName:     "Ana Cruz",
				Status:       student.StatusActive,
				Course:       &course.Course{CourseName: "BSIT"},
				AcademicYear: &academicyear.AcademicYear{StartYear: "2023", EndYear: "2024"},
			},
		}}

		snapshot, err := newService(f).Students(context.Background(), report.StudentRequest{
			CourseID: courseID.String(),
			Status:   student.StatusActive,
		})
		require.NoError(t, err)

		require.NotNil(t, f.studentFilter.CourseID)
		assert.Equal(t, courseID, *f.studentFilter.CourseID)
		assert.Nil(t, f.studentFilter.DepartmentID)
		assert.Equal(t, student.StatusActive, f.studentFilter.Status)

		assert.Equal(t, report.TypeStudents, snapshot.ReportType)
		assert.Equal(t, 1, snapshot.TotalRecords)
		assert.False(t, snapshot.GeneratedAt.IsZero())

		rows := snapshot.Data.([]report.StudentRow)
		assert.Equal(t, "BSIT", rows[0].Course)
		assert.Equal(t, "-", rows[0].Department)
		assert.Equal(t, "2023 - 2024", rows[0].AcademicYear)
	})

	t.Run("rejects malformed ids", func(t *testing.T) {
		_, err := newService(&fakeLists{}).Students(context.Background(), report.StudentRequest{DepartmentID: "x"})

		vErr, ok := validation.AsError(err)
		require.True(t, ok)
		assert.Contains(t, vErr.Fields, "department_id")
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := newService(&fakeLists{}).Students(context.Background(), report.StudentRequest{Status: "Expelled"})

		vErr, ok := validation.AsError(err)
		require.True(t, ok)
		assert.Contains(t, vErr.Fields, "status")
	})
}

func TestService_Options(t *testing.T) {
	f := &fakeLists{
		courses: []course.Course{{CourseName: "BSIT"}, {CourseName: "BSA"}},
		departments: []department.Department{
			{DepartmentName: "Engineering", DepartmentHead: "Dr. A"},
			{DepartmentName: "Arts", DepartmentHead: "Dr. Z"},
		},
	}

	opts, err := newService(f).Options(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "BSA", opts.Courses[0].Name)
	assert.Equal(t, "Arts", opts.Departments[0].Name)
	assert.Equal(t, "Dr. Z", opts.Departments[0].Head)
	assert.Equal(t, "Dr. A", opts.Departments[1].Head)
	assert.Empty(t, opts.Courses[0].Head)

	body, err := json.Marshal(opts)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"head":"Dr. Z"`)
	assert.NotContains(t, string(body), `"head":""`)
}

func TestHandler_GenerateFaculty(t *testing.T) {
	f := &fakeLists{faculty: []faculty.Faculty{
		{ID: uuid.New(), FullName: "Prof. Lim", Status: faculty.StatusActive, Department: &department.Department{DepartmentName: "Science"}},
	}}
	router := chi.NewRouter()
	report.NewHandler(newService(f), logger.Discard()).RegisterRoutes(router)

	t.Run("snapshot envelope", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"department_id": "", "status": "Active"})
		req := httptest.NewRequest(http.MethodPost, "/reports/faculty", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "faculty", resp["report_type"])
		assert.Equal(t, float64(1), resp["total_records"])
		assert.Contains(t, resp, "generated_at")
		assert.Equal(t, "Active", resp["filters"].(map[string]interface{})["status"])

		data := resp["data"].([]interface{})
		assert.Equal(t, "Science", data[0].(map[string]interface{})["department"])
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/reports/faculty", bytes.NewReader([]byte("{")))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
