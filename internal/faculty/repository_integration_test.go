package faculty_test

import (
	"context"
	"testing"

	"github.com/alexa091904/semi-project/internal/department"
	"github.com/alexa091904/semi-project/internal/faculty"
	"github.com/alexa091904/semi-project/internal/metrics"
	"github.com/alexa091904/semi-project/internal/testutil/testdb"
	"github.com/alexa091904/semi-project/internal/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryIntegration(t *testing.T) {
	pg := testdb.SetupSharedPostgres(t)
	defer pg.Cleanup(t)

	pg.RunMigrations(t, (*department.Department)(nil), (*faculty.Faculty)(nil))

	ctx := context.Background()
	departmentRepo := department.NewRepository(pg.DB, metrics.NewMock())
	repo := faculty.NewRepository(pg.DB, metrics.NewMock())

	// A department deleted between the existence check and the write
	// surfaces as a foreign key violation from the database.
	ghost := uuid.New()
	service := faculty.NewService(repo, departments{ghost: true})

	t.Run("create with a vanished department", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "faculty", "departments")

		_, err := service.CreateFaculty(ctx, member("jose@school.edu", ghost))
		vErr, ok := validation.AsError(err)
		require.True(t, ok, "expected validation error, got %v", err)
		assert.Equal(t, "does not exist", vErr.Fields["department_id"])
	})

	t.Run("update to a vanished department", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "faculty", "departments")
		d, err := departmentRepo.Create(ctx, &department.Department{
			ID:             uuid.New(),
			DepartmentName: "Science",
			DepartmentHead: "Dr. Cruz",
		})
		require.NoError(t, err)

		created, err := faculty.NewService(repo, departmentRepo).CreateFaculty(ctx, member("jose@school.edu", d.ID))
		require.NoError(t, err)

		update := member("jose@school.edu", ghost)
		update.ID = created.ID
		_, err = service.UpdateFaculty(ctx, update)
		vErr, ok := validation.AsError(err)
		require.True(t, ok, "expected validation error, got %v", err)
		assert.Equal(t, "does not exist", vErr.Fields["department_id"])
	})
}
