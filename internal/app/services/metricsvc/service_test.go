package metricsvc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wedevhq/wedev/internal/app/services/metricsvc"
	"github.com/wedevhq/wedev/internal/domain/apperr"
	"github.com/wedevhq/wedev/internal/domain/models"
	"github.com/wedevhq/wedev/internal/testutil"
)

func seedProjectWithStatus(t *testing.T, w *testutil.World, owner models.User, status string, quote, rate float64) models.Project {
	t.Helper()
	p := w.SeedProject(t, owner, primitive.NilObjectID)
	updated, err := w.Projects.Update(context.Background(), p.ID, models.ProjectPatch{
		Status:     &status,
		Quote:      &quote,
		HourlyRate: &rate,
	})
	require.NoError(t, err)
	return *updated
}

func TestComputeAggregatesProjects(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := metricsvc.New(w.Projects)
	ctx := context.Background()

	owner := w.SeedUser(t)
	seedProjectWithStatus(t, w, owner, models.StatusDone, 100, 80)
	seedProjectWithStatus(t, w, owner, models.StatusDone, 50, 60)
	seedProjectWithStatus(t, w, owner, models.StatusInProgress, 30, 40)

	m, err := svc.Compute(ctx, w.Owner(t, owner.ID))
	require.NoError(t, err)
	require.Equal(t, 2, m.TotalFinishedProjects)
	require.Equal(t, 1, m.TotalWIPProjects)
	// Revenue is the sum of quotes over finished projects, not of
	// billed prices; the in-progress quote stays out.
	require.InDelta(t, 150.0, m.TotalRevenues, 0.001)
	require.InDelta(t, (80.0+60+40)/3, m.AverageHourlyRate, 0.001)
}

func TestComputeAveragesOverUnratedProjects(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := metricsvc.New(w.Projects)

	owner := w.SeedUser(t)
	seedProjectWithStatus(t, w, owner, models.StatusInProgress, 0, 10)
	seedProjectWithStatus(t, w, owner, models.StatusInProgress, 0, 0)

	m, err := svc.Compute(context.Background(), w.Owner(t, owner.ID))
	require.NoError(t, err)
	require.InDelta(t, 5.0, m.AverageHourlyRate, 0.001)
}

func TestComputeZeroSafe(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := metricsvc.New(w.Projects)

	owner := w.SeedUser(t)
	m, err := svc.Compute(context.Background(), w.Owner(t, owner.ID))
	require.NoError(t, err)
	require.Zero(t, m.TotalFinishedProjects)
	require.Zero(t, m.TotalWIPProjects)
	require.Zero(t, m.TotalRevenues)
	require.Zero(t, m.AverageHourlyRate)
}

func TestComputeExcludesSoftDeletedProjects(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := metricsvc.New(w.Projects)
	ctx := context.Background()

	owner := w.SeedUser(t)
	p := seedProjectWithStatus(t, w, owner, models.StatusDone, 100, 80)
	require.NoError(t, w.Projects.SoftDelete(ctx, p.ID))

	m, err := svc.Compute(ctx, w.Owner(t, owner.ID))
	require.NoError(t, err)
	require.Zero(t, m.TotalFinishedProjects)
	require.Zero(t, m.TotalRevenues)
}

func TestComputeRequiresActor(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := metricsvc.New(w.Projects)

	_, err := svc.Compute(context.Background(), nil)
	require.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}
