package student_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexa091904/semi-project/internal/academicyear"
	"github.com/alexa091904/semi-project/internal/archive"
	"github.com/alexa091904/semi-project/internal/civil"
	"github.com/alexa091904/semi-project/internal/logger"
	"github.com/alexa091904/semi-project/internal/student"
	"github.com/alexa091904/semi-project/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	rows       map[uuid.UUID]student.Student
	lastFilter student.ListFilter
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[uuid.UUID]student.Student)}
}

func (m *memRepo) Create(_ context.Context, s *student.Student) (*student.Student, error) {
	m.rows[s.ID] = *s
	return s, nil
}

func (m *memRepo) List(_ context.Context, filter student.ListFilter) ([]student.Student, error) {
	m.lastFilter = filter
	out := make([]student.Student, 0)
	for _, s := range m.rows {
		if s.ArchivedAt == nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*student.Student, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, student.ErrStudentNotFound
	}
	return &s, nil
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*student.Student, error) {
	for _, s := range m.rows {
		if s.EmailAddress == email {
			s := s
			return &s, nil
		}
	}
	return nil, student.ErrStudentNotFound
}

func (m *memRepo) Update(_ context.Context, s *student.Student) error {
	current := m.rows[s.ID]
	s.ArchivedAt = current.ArchivedAt
	m.rows[s.ID] = *s
	return nil
}

func (m *memRepo) Kind() archive.Kind { return archive.KindStudent }

func (m *memRepo) ListArchived(context.Context, archive.Filter) ([]archive.Item, error) {
	return nil, nil
}

func (m *memRepo) SetArchived(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	s, ok := m.rows[id]
	if !ok {
		return false, archive.ErrNotFound
	}
	if s.ArchivedAt != nil {
		return false, nil
	}
	s.ArchivedAt = &at
	m.rows[id] = s
	return true, nil
}

func (m *memRepo) ClearArchived(_ context.Context, id uuid.UUID) (bool, error) {
	s, ok := m.rows[id]
	if !ok {
		return false, archive.ErrNotFound
	}
	if s.ArchivedAt == nil {
		return false, nil
	}
	s.ArchivedAt = nil
	m.rows[id] = s
	return true, nil
}

func (m *memRepo) markArchived(t *testing.T, id uuid.UUID) {
	t.Helper()
	changed, err := m.SetArchived(context.Background(), id, time.Now())
	require.NoError(t, err)
	require.True(t, changed)
}

type knownIDs map[uuid.UUID]bool

func (k knownIDs) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return k[id], nil
}

type years struct {
	knownIDs
	latest *academicyear.AcademicYear
}

func (y years) MostRecentLive(context.Context) (*academicyear.AcademicYear, error) {
	if y.latest == nil {
		return nil, academicyear.ErrAcademicYearNotFound
	}
	return y.latest, nil
}

type fixture struct {
	repo    *memRepo
	service student.Service
	deptID  uuid.UUID
	course  uuid.UUID
	yearID  uuid.UUID
	years   knownIDs
}

func newFixture(withYear bool) *fixture {
	f := &fixture{repo: newMemRepo(), deptID: uuid.New(), course: uuid.New(), yearID: uuid.New()}
	f.years = knownIDs{f.yearID: true}
	ys := years{knownIDs: f.years}
	if withYear {
		ys.latest = &academicyear.AcademicYear{ID: f.yearID, StartYear: "2024", EndYear: "2025"}
	}
	f.service = student.NewService(f.repo, knownIDs{f.deptID: true}, knownIDs{f.course: true}, ys)
	return f
}

func (f *fixture) valid(email string) *student.Student {
	dob := civil.NewDate(2004, time.May, 1)
	return &student.Student{
		FullName:     "Ana Reyes",
		EmailAddress: email,
		PhoneNumber:  "09171234567",
		Sex:          "Female",
		DateOfBirth:  &dob,
		Address:      "Quezon City",
		Status:       student.StatusActive,
		DepartmentID: f.deptID,
		CourseID:     f.course,
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	vErr, ok := validation.AsError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	return vErr.Fields
}

func TestService_CreateStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns the most recent live academic year", func(t *testing.T) {
		f := newFixture(true)
		created, err := f.service.CreateStudent(ctx, f.valid("ana@school.edu"))
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, f.yearID, created.AcademicYearID)
		assert.Nil(t, created.ArchivedAt)
	})

	t.Run("no live academic year", func(t *testing.T) {
		f := newFixture(false)
		_, err := f.service.CreateStudent(ctx, f.valid("ana@school.edu"))
		assert.Contains(t, fieldsOf(t, err), "academic_year_id")
	})

	t.Run("explicit academic year must exist", func(t *testing.T) {
		f := newFixture(true)
		s := f.valid("ana@school.edu")
		s.AcademicYearID = uuid.New()
		_, err := f.service.CreateStudent(ctx, s)
		assert.Equal(t, "does not exist", fieldsOf(t, err)["academic_year_id"])
	})

	t.Run("unknown department and course", func(t *testing.T) {
		f := newFixture(true)
		s := f.valid("ana@school.edu")
		s.DepartmentID = uuid.New()
		_, err := f.service.CreateStudent(ctx, s)
		assert.Contains(t, fieldsOf(t, err), "department_id")

		s = f.valid("ana@school.edu")
		s.CourseID = uuid.New()
		_, err = f.service.CreateStudent(ctx, s)
		assert.Contains(t, fieldsOf(t, err), "course_id")
	})

	t.Run("email taken by an archived student", func(t *testing.T) {
		f := newFixture(true)
		first, err := f.service.CreateStudent(ctx, f.valid("ana@school.edu"))
		require.NoError(t, err)
		f.repo.markArchived(t, first.ID)

		_, err = f.service.CreateStudent(ctx, f.valid("ana@school.edu"))
		assert.Equal(t, "has already been taken", fieldsOf(t, err)["email_address"])
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newFixture(true)
		_, err := f.service.CreateStudent(ctx, &student.Student{Status: "Expelled"})
		fields := fieldsOf(t, err)
		assert.Contains(t, fields, "full_name")
		assert.Contains(t, fields, "email_address")
		assert.Contains(t, fields, "status")
	})
}

func TestService_UpdateStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps its own email and archive state", func(t *testing.T) {
		f := newFixture(true)
		created, err := f.service.CreateStudent(ctx, f.valid("ana@school.edu"))
		require.NoError(t, err)
		f.repo.markArchived(t, created.ID)

		update := f.valid("ana@school.edu")
		update.ID = created.ID
		update.FullName = "Ana R. Reyes"
		update.AcademicYearID = f.yearID
		updated, err := f.service.UpdateStudent(ctx, update)
		require.NoError(t, err)
		assert.Equal(t, "Ana R. Reyes", updated.FullName)
		assert.NotNil(t, updated.ArchivedAt)
	})

	t.Run("omitted academic year keeps the stored one", func(t *testing.T) {
		f := newFixture(true)
		earlier := uuid.New()
		f.years[earlier] = true

		s := f.valid("ana@school.edu")
		s.AcademicYearID = earlier
		created, err := f.service.CreateStudent(ctx, s)
		require.NoError(t, err)
		require.Equal(t, earlier, created.AcademicYearID)

		update := f.valid("ana@school.edu")
		update.ID = created.ID
		update.FullName = "Ana R. Reyes"
		updated, err := f.service.UpdateStudent(ctx, update)
		require.NoError(t, err)
		assert.Equal(t, "Ana R. Reyes", updated.FullName)
		assert.Equal(t, earlier, updated.AcademicYearID)
	})

	t.Run("omitted academic year with no live year left", func(t *testing.T) {
		f := newFixture(false)
		s := f.valid("ana@school.edu")
		s.AcademicYearID = f.yearID
		created, err := f.service.CreateStudent(ctx, s)
		require.NoError(t, err)

		update := f.valid("ana@school.edu")
		update.ID = created.ID
		updated, err := f.service.UpdateStudent(ctx, update)
		require.NoError(t, err)
		assert.Equal(t, f.yearID, updated.AcademicYearID)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(true)
		update := f.valid("ana@school.edu")
		update.ID = uuid.New()
		_, err := f.service.UpdateStudent(ctx, update)
		assert.ErrorIs(t, err, student.ErrStudentNotFound)
	})
}

func TestHandler(t *testing.T) {
	f := newFixture(true)
	router := chi.NewRouter()
	student.NewHandler(f.service, logger.Discard()).RegisterRoutes(router)

	serve := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, path, &buf))
		return w
	}

	t.Run("create", func(t *testing.T) {
		w := serve(http.MethodPost, "/students", f.valid("ana@school.edu"))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created student.Student
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, "2004-05-01", created.DateOfBirth.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/students", bytes.NewBufferString("{")))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "body")
	})

	t.Run("list filters", func(t *testing.T) {
		w := serve(http.MethodGet, "/students?search=ana&status=Graduated&course_id="+f.course.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ana", f.repo.lastFilter.Search)
		assert.Equal(t, student.StatusGraduated, f.repo.lastFilter.Status)
		require.NotNil(t, f.repo.lastFilter.CourseID)
		assert.Equal(t, f.course, *f.repo.lastFilter.CourseID)
	})

	t.Run("bad list filter", func(t *testing.T) {
		w := serve(http.MethodGet, "/students?department_id=nope&status=Expelled", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "department_id")
		assert.Contains(t, w.Body.String(), "status")
	})

	t.Run("malformed id", func(t *testing.T) {
		w := serve(http.MethodGet, "/students/42", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Student not found"}`, w.Body.String())
	})
}
