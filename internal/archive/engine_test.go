package archive_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexa091904/semi-project/internal/archive"
	"github.com/alexa091904/semi-project/internal/logger"
	"github.com/alexa091904/semi-project/internal/metrics"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	kind    archive.Kind
	items   []archive.Item
	err     error
	filters []archive.Filter

	mu       sync.Mutex
	archived map[uuid.UUID]time.Time
	live     map[uuid.UUID]bool
}

func newFakeSource(kind archive.Kind, items ...archive.Item) *fakeSource {
	return &fakeSource{
		kind:     kind,
		items:    items,
		archived: make(map[uuid.UUID]time.Time),
		live:     make(map[uuid.UUID]bool),
	}
}

func (f *fakeSource) Kind() archive.Kind { return f.kind }

func (f *fakeSource) ListArchived(_ context.Context, filter archive.Filter) ([]archive.Item, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	return append([]archive.Item(nil), f.items...), nil
}

func (f *fakeSource) SetArchived(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.archived[id]; ok {
		return false, nil
	}
	if !f.live[id] {
		return false, archive.ErrNotFound
	}
	delete(f.live, id)
	f.archived[id] = at
	return true, nil
}

func (f *fakeSource) ClearArchived(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.live[id] {
		return false, nil
	}
	if _, ok := f.archived[id]; !ok {
		return false, archive.ErrNotFound
	}
	delete(f.archived, id)
	f.live[id] = true
	return true, nil
}

type recordingPublisher struct {
	keys   []string
	values []interface{}
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, value interface{}) error {
	p.keys = append(p.keys, key)
	p.values = append(p.values, value)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func item(kind archive.Kind, label string, at time.Time) archive.Item {
	return archive.Item{SourceType: kind, ID: uuid.New(), Label: label, ArchivedAt: at}
}

func TestEngine_List(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("all kinds sorted by archive instant descending", func(t *testing.T) {
		courses := newFakeSource(archive.KindCourse, item(archive.KindCourse, "BSIT", base.Add(1*time.Hour)))
		departments := newFakeSource(archive.KindDepartment, item(archive.KindDepartment, "Dr. Reyes", base.Add(3*time.Hour)))
		years := newFakeSource(archive.KindAcademicYear, item(archive.KindAcademicYear, "2022 - 2023", base))
		students := newFakeSource(archive.KindStudent, item(archive.KindStudent, "Ana Cruz", base.Add(2*time.Hour)))
		faculty := newFakeSource(archive.KindFaculty)

		engine := archive.NewEngine(nil, metrics.NewMock(), logger.Discard(), courses, departments, years, students, faculty)

		items, err := engine.List(context.Background(), archive.Filter{Type: archive.TypeAll})
		require.NoError(t, err)
		require.Len(t, items, 4)

		labels := make([]string, len(items))
		for i, it := range items {
			labels[i] = it.Label
		}
		assert.Equal(t, []string{"Dr. Reyes", "Ana Cruz", "BSIT", "2022 - 2023"}, labels)
	})

	t.Run("ties keep kind order", func(t *testing.T) {
		courses := newFakeSource(archive.KindCourse, item(archive.KindCourse, "course", base))
		faculty := newFakeSource(archive.KindFaculty, item(archive.KindFaculty, "faculty", base))
		students := newFakeSource(archive.KindStudent, item(archive.KindStudent, "student", base))

		engine := archive.NewEngine(nil, metrics.NewMock(), logger.Discard(), faculty, students, courses)

		items, err := engine.List(context.Background(), archive.Filter{})
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "course", items[0].Label)
		assert.Equal(t, "student", items[1].Label)
		assert.Equal(t, "faculty", items[2].Label)
	})

	t.Run("single type queries only its source", func(t *testing.T) {
		courses := newFakeSource(archive.KindCourse, item(archive.KindCourse, "BSIT", base))
		students := newFakeSource(archive.KindStudent, item(archive.KindStudent, "Ana Cruz", base))

		engine := archive.NewEngine(nil, metrics.NewMock(), logger.Discard(), courses, students)

		items, err := engine.List(context.Background(), archive.Filter{Type: archive.TypeStudents, Search: "ana"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, archive.KindStudent, items[0].SourceType)
		assert.Empty(t, courses.filters)
		require.Len(t, students.filters, 1)
		assert.Equal(t, "ana", students.filters[0].Search)
	})

	t.Run("failing source aborts the listing", func(t *testing.T) {
		courses := newFakeSource(archive.KindCourse, item(archive.KindCourse, "BSIT", base))
		students := newFakeSource(archive.KindStudent)
		students.err = errors.New("connection reset")

		engine := archive.NewEngine(nil, metrics.NewMock(), logger.Discard(), courses, students)

		items, err := engine.List(context.Background(), archive.Filter{Type: archive.TypeAll})
		require.Error(t, err)
		assert.Nil(t, items)
		assert.Contains(t, err.Error(), "student")
		assert.ErrorIs(t, err, students.err)
	})

	t.Run("empty archive yields empty list", func(t *testing.T) {
		engine := archive.NewEngine(nil, metrics.NewMock(), logger.Discard(), newFakeSource(archive.KindCourse))

		items, err := engine.List(context.Background(), archive.Filter{})
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}

func TestEngine_Transitions(t *testing.T) {
	t.Run("archive then restore", func(t *testing.T) {
		src := newFakeSource(archive.KindCourse)
		id := uuid.New()
		src.live[id] = true
		pub := &recordingPublisher{}

		engine := archive.NewEngine(pub, metrics.NewMock(), logger.Discard(), src)

		require.NoError(t, engine.Archive(context.Background(), archive.KindCourse, id))
		assert.False(t, src.live[id])
		assert.Contains(t, src.archived, id)

		require.NoError(t, engine.Restore(context.Background(), archive.KindCourse, id))
		assert.True(t, src.live[id])
		assert.NotContains(t, src.archived, id)

		assert.Equal(t, []string{"course.archived", "course.restored"}, pub.keys)
		event, ok := pub.values[0].(archive.Event)
		require.True(t, ok)
		assert.Equal(t, id, event.ID)
		assert.Equal(t, archive.ActionArchived, event.Action)
	})

	t.Run("archive twice keeps the first instant", func(t *testing.T) {
		src := newFakeSource(archive.KindStudent)
		id := uuid.New()
		src.live[id] = true

		pub := &recordingPublisher{}
		engine := archive.NewEngine(pub, metrics.NewMock(), logger.Discard(), src)

		require.NoError(t, engine.Archive(context.Background(), archive.KindStudent, id))
		first := src.archived[id]
		require.NoError(t, engine.Archive(context.Background(), archive.KindStudent, id))
		assert.Equal(t, first, src.archived[id])
		assert.Equal(t, []string{"student.archived"}, pub.keys)
	})

	t.Run("restoring a live record publishes nothing", func(t *testing.T) {
		src := newFakeSource(archive.KindCourse)
		id := uuid.New()
		src.live[id] = true
		pub := &recordingPublisher{}
		engine := archive.NewEngine(pub, metrics.NewMock(), logger.Discard(), src)

		require.NoError(t, engine.Restore(context.Background(), archive.KindCourse, id))
		assert.True(t, src.live[id])
		assert.Empty(t, pub.keys)
	})

	t.Run("unknown id", func(t *testing.T) {
		src := newFakeSource(archive.KindFaculty)
		engine := archive.NewEngine(nil, metrics.NewMock(), logger.Discard(), src)

		err := engine.Archive(context.Background(), archive.KindFaculty, uuid.New())
		assert.ErrorIs(t, err, archive.ErrNotFound)

		err = engine.Restore(context.Background(), archive.KindFaculty, uuid.New())
		assert.ErrorIs(t, err, archive.ErrNotFound)
	})

	t.Run("unregistered kind", func(t *testing.T) {
		engine := archive.NewEngine(nil, metrics.NewMock(), logger.Discard())

		err := engine.Archive(context.Background(), archive.KindDepartment, uuid.New())
		assert.ErrorIs(t, err, archive.ErrUnknownKind)
	})

	t.Run("publish failure does not fail the transition", func(t *testing.T) {
		src := newFakeSource(archive.KindDepartment)
		id := uuid.New()
		src.live[id] = true
		pub := &recordingPublisher{err: errors.New("broker down")}

		engine := archive.NewEngine(pub, metrics.NewMock(), logger.Discard(), src)

		require.NoError(t, engine.Archive(context.Background(), archive.KindDepartment, id))
		assert.Len(t, pub.keys, 1)
	})
}

func TestParseType(t *testing.T) {
	typ, err := archive.ParseType("")
	require.NoError(t, err)
	assert.Equal(t, archive.TypeAll, typ)

	typ, err = archive.ParseType("academic_years")
	require.NoError(t, err)
	assert.True(t, typ.Includes(archive.KindAcademicYear))
	assert.False(t, typ.Includes(archive.KindCourse))

	_, err = archive.ParseType("projects")
	assert.Error(t, err)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%2023%", archive.ContainsPattern("2023"))
	assert.Equal(t, `%50\%\_off\\%`, archive.ContainsPattern(`50%_off\`))
}
