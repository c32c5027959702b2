package academicyear_test

import (
	"context"
	"testing"
	"time"

	"github.com/alexa091904/semi-project/internal/academicyear"
	"github.com/alexa091904/semi-project/internal/archive"
	"github.com/alexa091904/semi-project/internal/metrics"
	"github.com/alexa091904/semi-project/internal/testutil/testdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryIntegration(t *testing.T) {
	pg := testdb.SetupSharedPostgres(t)
	defer pg.Cleanup(t)

	pg.RunMigrations(t, (*academicyear.AcademicYear)(nil))

	ctx := context.Background()
	repo := academicyear.NewRepository(pg.DB, metrics.NewMock())
	service := academicyear.NewService(repo)

	create := func(t *testing.T, start, end string) *academicyear.AcademicYear {
		t.Helper()
		y, err := service.CreateAcademicYear(ctx, &academicyear.AcademicYear{StartYear: start, EndYear: end})
		require.NoError(t, err)
		return y
	}

	t.Run("most recent live year", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "academic_years")
		create(t, "2022", "2023")
		latest := create(t, "2024", "2025")
		archived := create(t, "2026", "2027")
		archiveRow(t, repo, archived.ID, time.Now())

		got, err := repo.MostRecentLive(ctx)
		require.NoError(t, err)
		assert.Equal(t, latest.ID, got.ID)
	})

	t.Run("no live year", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "academic_years")
		y := create(t, "2024", "2025")
		archiveRow(t, repo, y.ID, time.Now())

		_, err := repo.MostRecentLive(ctx)
		assert.ErrorIs(t, err, academicyear.ErrAcademicYearNotFound)
	})

	t.Run("archived search matches start or end year", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "academic_years")
		recent := create(t, "2022", "2023")
		old := create(t, "2019", "2020")
		archiveRow(t, repo, recent.ID, time.Now())
		archiveRow(t, repo, old.ID, time.Now())

		items, err := repo.ListArchived(ctx, archive.Filter{Search: "2023"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, recent.ID, items[0].ID)
		assert.Equal(t, "2022 - 2023", items[0].Label)

		items, err = repo.ListArchived(ctx, archive.Filter{Search: "20"})
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("end year before start year", func(t *testing.T) {
		_, err := service.CreateAcademicYear(ctx, &academicyear.AcademicYear{StartYear: "2025", EndYear: "2024"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "end_year")

		_, err = service.CreateAcademicYear(ctx, &academicyear.AcademicYear{StartYear: "24", EndYear: "2025"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "start_year")
	})

	t.Run("update leaves the archive state alone", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "academic_years")
		y := create(t, "2024", "2025")
		archiveRow(t, repo, y.ID, time.Now())

		updated, err := service.UpdateAcademicYear(ctx, &academicyear.AcademicYear{ID: y.ID, StartYear: "2024", EndYear: "2026"})
		require.NoError(t, err)
		assert.Equal(t, "2026", updated.EndYear)
		assert.NotNil(t, updated.ArchivedAt)
	})
}

func archiveRow(t *testing.T, src archive.Source, id uuid.UUID, at time.Time) {
	t.Helper()
	_, err := src.SetArchived(context.Background(), id, at)
	require.NoError(t, err)
}
