package tasksvc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wedevhq/wedev/internal/app/services/tasksvc"
	"github.com/wedevhq/wedev/internal/domain/apperr"
	"github.com/wedevhq/wedev/internal/domain/models"
	"github.com/wedevhq/wedev/internal/testutil"
)

func newService(w *testutil.World) *tasksvc.Service {
	return tasksvc.New(w.Tasks, w.Sprints, w.Refs)
}

func TestCreateIndexesTaskOnProject(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)

	task, err := svc.Create(ctx, w.Owner(t, owner.ID), tasksvc.CreateInput{
		Title:   "Maquette",
		Project: project.ID,
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusNotStarted, task.Status)

	p, err := w.Projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	require.Contains(t, p.Tasks, task.ID)
}

func TestCreatePreScheduled(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)
	sprint := w.SeedSprint(t, project)

	task, err := svc.Create(ctx, w.Owner(t, owner.ID), tasksvc.CreateInput{
		Title:   "Maquette",
		Project: project.ID,
		Sprint:  &sprint.ID,
	})
	require.NoError(t, err)
	require.True(t, task.InSprint(sprint.ID))

	sp, err := w.Sprints.GetByID(ctx, sprint.ID)
	require.NoError(t, err)
	require.Contains(t, sp.Tasks, task.ID)
}

func TestCreateRejectsSprintFromAnotherProject(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)
	foreign := w.SeedProject(t, *w.Owner(t, owner.ID), primitive.NilObjectID)
	foreignSprint := w.SeedSprint(t, foreign)

	_, err := svc.Create(ctx, w.Owner(t, owner.ID), tasksvc.CreateInput{
		Title:   "Maquette",
		Project: project.ID,
		Sprint:  &foreignSprint.ID,
	})
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreateRequiresProjectOwnership(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)
	stranger := w.Users.Seed(models.User{Email: "other@example.com"})

	_, err := svc.Create(ctx, &stranger, tasksvc.CreateInput{Title: "Maquette", Project: project.ID})
	require.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestUpdateMovesTaskBetweenSprints(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)
	first := w.SeedSprint(t, project)
	second := w.SeedSprint(t, project)
	actor := w.Owner(t, owner.ID)

	task, err := svc.Create(ctx, actor, tasksvc.CreateInput{
		Title:   "Maquette",
		Project: project.ID,
		Sprint:  &first.ID,
	})
	require.NoError(t, err)

	move := &second.ID
	updated, err := svc.Update(ctx, actor, tasksvc.UpdateInput{ID: task.ID, Sprint: &move})
	require.NoError(t, err)
	require.True(t, updated.InSprint(second.ID))

	f, err := w.Sprints.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotContains(t, f.Tasks, task.ID)

	s2, err := w.Sprints.GetByID(ctx, second.ID)
	require.NoError(t, err)
	require.Contains(t, s2.Tasks, task.ID)
}

func TestUpdateDetachViaNilSprint(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)
	sprint := w.SeedSprint(t, project)
	actor := w.Owner(t, owner.ID)

	task, err := svc.Create(ctx, actor, tasksvc.CreateInput{
		Title:   "Maquette",
		Project: project.ID,
		Sprint:  &sprint.ID,
	})
	require.NoError(t, err)

	var detach *primitive.ObjectID
	updated, err := svc.Update(ctx, actor, tasksvc.UpdateInput{ID: task.ID, Sprint: &detach})
	require.NoError(t, err)
	require.Nil(t, updated.Sprint)

	sp, err := w.Sprints.GetByID(ctx, sprint.ID)
	require.NoError(t, err)
	require.NotContains(t, sp.Tasks, task.ID)
}

func TestUpdateLeavesSchedulingAloneWhenSprintOmitted(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)
	sprint := w.SeedSprint(t, project)
	actor := w.Owner(t, owner.ID)

	task, err := svc.Create(ctx, actor, tasksvc.CreateInput{
		Title:   "Maquette",
		Project: project.ID,
		Sprint:  &sprint.ID,
	})
	require.NoError(t, err)

	title := "Maquette v2"
	updated, err := svc.Update(ctx, actor, tasksvc.UpdateInput{ID: task.ID, Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Maquette v2", updated.Title)
	require.True(t, updated.InSprint(sprint.ID))
}

func TestStatusTransitionsDriveTiming(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)
	task := w.SeedTask(t, project)
	actor := w.Owner(t, owner.ID)

	started, err := svc.UpdateStatus(ctx, actor, task.ID, models.StatusInProgress)
	require.NoError(t, err)
	require.NotNil(t, started.StartDate)
	require.Nil(t, started.EndDate)

	done, err := svc.UpdateStatus(ctx, actor, task.ID, models.StatusDone)
	require.NoError(t, err)
	require.NotNil(t, done.EndDate)
	require.GreaterOrEqual(t, done.CompletionTime, int64(0))
	require.Equal(t, done.EndDate.Sub(*done.StartDate).Milliseconds(), done.CompletionTime)

	reset, err := svc.UpdateStatus(ctx, actor, task.ID, models.StatusNotStarted)
	require.NoError(t, err)
	require.Nil(t, reset.StartDate)
	require.Nil(t, reset.EndDate)
	require.Zero(t, reset.CompletionTime)
}

func TestReopeningKeepsTheOriginalStart(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)
	task := w.SeedTask(t, project)
	actor := w.Owner(t, owner.ID)

	started, err := svc.UpdateStatus(ctx, actor, task.ID, models.StatusInProgress)
	require.NoError(t, err)
	require.NotNil(t, started.StartDate)
	firstStart := *started.StartDate

	_, err = svc.UpdateStatus(ctx, actor, task.ID, models.StatusDone)
	require.NoError(t, err)

	reopened, err := svc.UpdateStatus(ctx, actor, task.ID, models.StatusInProgress)
	require.NoError(t, err)
	require.NotNil(t, reopened.StartDate)
	require.True(t, reopened.StartDate.Equal(firstStart), "reopening must not move the start date")
	require.Nil(t, reopened.EndDate)
	require.Zero(t, reopened.CompletionTime)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)
	task := w.SeedTask(t, project)

	_, err := svc.UpdateStatus(ctx, w.Owner(t, owner.ID), task.ID, "paused")
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestDeletePrunesBackReferences(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)
	sprint := w.SeedSprint(t, project)
	actor := w.Owner(t, owner.ID)

	task, err := svc.Create(ctx, actor, tasksvc.CreateInput{
		Title:   "Maquette",
		Project: project.ID,
		Sprint:  &sprint.ID,
	})
	require.NoError(t, err)

	ok, err := svc.Delete(ctx, actor, task.ID)
	require.NoError(t, err)
	require.True(t, ok)

	p, err := w.Projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	require.NotContains(t, p.Tasks, task.ID)

	sp, err := w.Sprints.GetByID(ctx, sprint.ID)
	require.NoError(t, err)
	require.NotContains(t, sp.Tasks, task.ID)
}

func TestAddToSprintMovesAndValidates(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)
	foreign := w.SeedProject(t, *w.Owner(t, owner.ID), primitive.NilObjectID)
	first := w.SeedSprint(t, project)
	second := w.SeedSprint(t, project)
	actor := w.Owner(t, owner.ID)

	t1, err := svc.Create(ctx, actor, tasksvc.CreateInput{Title: "a", Project: project.ID, Sprint: &first.ID})
	require.NoError(t, err)
	t2, err := svc.Create(ctx, actor, tasksvc.CreateInput{Title: "b", Project: project.ID})
	require.NoError(t, err)

	sprint, err := svc.AddToSprint(ctx, actor, second.ID, []primitive.ObjectID{t1.ID, t2.ID})
	require.NoError(t, err)
	require.ElementsMatch(t, []primitive.ObjectID{t1.ID, t2.ID}, sprint.Tasks)

	// t1 was pulled out of its previous sprint.
	f, err := w.Sprints.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotContains(t, f.Tasks, t1.ID)

	// A task from another project poisons the whole batch.
	t3 := w.SeedTask(t, foreign)
	_, err = svc.AddToSprint(ctx, actor, second.ID, []primitive.ObjectID{t3.ID})
	require.True(t, apperr.IsKind(err, apperr.KindValidation))

	// As does an unknown task id.
	_, err = svc.AddToSprint(ctx, actor, second.ID, []primitive.ObjectID{primitive.NewObjectID()})
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListFilters(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)
	sprint := w.SeedSprint(t, project)
	actor := w.Owner(t, owner.ID)

	scheduled, err := svc.Create(ctx, actor, tasksvc.CreateInput{Title: "a", Project: project.ID, Sprint: &sprint.ID})
	require.NoError(t, err)
	backlog, err := svc.Create(ctx, actor, tasksvc.CreateInput{Title: "b", Project: project.ID})
	require.NoError(t, err)

	all, err := svc.List(ctx, actor, tasksvc.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	inSprint, err := svc.List(ctx, actor, tasksvc.Filter{Sprint: &sprint.ID})
	require.NoError(t, err)
	require.Len(t, inSprint, 1)
	require.Equal(t, scheduled.ID, inSprint[0].ID)

	unscheduled, err := svc.List(ctx, actor, tasksvc.Filter{Unscheduled: true})
	require.NoError(t, err)
	require.Len(t, unscheduled, 1)
	require.Equal(t, backlog.ID, unscheduled[0].ID)
}

func TestGetRequiresOwnership(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)
	task := w.SeedTask(t, project)
	stranger := w.Users.Seed(models.User{Email: "other@example.com"})

	_, err := svc.Get(ctx, &stranger, task.ID)
	require.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	got, err := svc.Get(ctx, w.Owner(t, owner.ID), task.ID)
	require.NoError(t, err)
	require.Equal(t, task.ID, got.ID)
}
