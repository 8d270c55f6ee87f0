package projectsvc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wedevhq/wedev/internal/app/services/projectsvc"
	"github.com/wedevhq/wedev/internal/domain/apperr"
	"github.com/wedevhq/wedev/internal/domain/models"
	"github.com/wedevhq/wedev/internal/testutil"
)

func validCreate(owner models.User, clientID primitive.ObjectID) projectsvc.CreateInput {
	return projectsvc.CreateInput{
		Title:      "Site vitrine",
		Quote:      4800,
		HourlyRate: 60,
		StartDate:  time.Now(),
		Status:     models.StatusNotStarted,
		Client:     clientID,
		User:       owner.ID,
	}
}

func TestCreateIndexesProjectOnOwnerAndClient(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := projectsvc.New(w.Projects, w.Tasks, w.Refs)
	ctx := context.Background()

	owner := w.SeedUser(t)
	client := w.SeedClient(t, owner)

	project, err := svc.Create(ctx, w.Owner(t, owner.ID), validCreate(owner, client.ID))
	require.NoError(t, err)
	require.NotNil(t, project.Tasks)
	require.NotNil(t, project.Sprints)

	require.True(t, w.Owner(t, owner.ID).OwnsProject(project.ID))

	c, err := w.Clients.GetByID(ctx, client.ID)
	require.NoError(t, err)
	require.Contains(t, c.Projects, project.ID)
}

func TestCreateWithoutClient(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := projectsvc.New(w.Projects, w.Tasks, w.Refs)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project, err := svc.Create(ctx, &owner, validCreate(owner, primitive.NilObjectID))
	require.NoError(t, err)
	require.True(t, project.Client.IsZero())
}

func TestCreateRequiresOwnedClient(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := projectsvc.New(w.Projects, w.Tasks, w.Refs)
	ctx := context.Background()

	owner := w.SeedUser(t)
	other := w.Users.Seed(models.User{Email: "other@example.com"})
	theirClient := w.SeedClient(t, other)

	_, err := svc.Create(ctx, w.Owner(t, owner.ID), validCreate(owner, theirClient.ID))
	require.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestCreateSanitizesDescription(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := projectsvc.New(w.Projects, w.Tasks, w.Refs)
	ctx := context.Background()

	owner := w.SeedUser(t)
	in := validCreate(owner, primitive.NilObjectID)
	in.Description = `<p>refonte</p><script>alert(1)</script>`

	project, err := svc.Create(ctx, &owner, in)
	require.NoError(t, err)
	require.NotContains(t, project.Description, "<script>")
	require.Contains(t, project.Description, "refonte")
}

func TestCreateValidation(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := projectsvc.New(w.Projects, w.Tasks, w.Refs)
	ctx := context.Background()
	owner := w.SeedUser(t)

	in := validCreate(owner, primitive.NilObjectID)
	in.Title = ""
	_, err := svc.Create(ctx, &owner, in)
	require.True(t, apperr.IsKind(err, apperr.KindValidation))

	in = validCreate(owner, primitive.NilObjectID)
	in.Status = "paused"
	_, err = svc.Create(ctx, &owner, in)
	require.True(t, apperr.IsKind(err, apperr.KindValidation))

	in = validCreate(owner, primitive.NilObjectID)
	in.Stacks = []models.Stack{{Category: "blockchain", Name: "web3"}}
	_, err = svc.Create(ctx, &owner, in)
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUpdateRequiresOwnership(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := projectsvc.New(w.Projects, w.Tasks, w.Refs)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)
	stranger := w.Users.Seed(models.User{Email: "other@example.com"})

	title := "Refonte"
	_, err := svc.Update(ctx, &stranger, projectsvc.UpdateInput{ID: project.ID, Title: &title})
	require.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	updated, err := svc.Update(ctx, w.Owner(t, owner.ID), projectsvc.UpdateInput{ID: project.ID, Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Refonte", updated.Title)
	require.Equal(t, project.HourlyRate, updated.HourlyRate)
}

func TestDeleteSoftDeletes(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := projectsvc.New(w.Projects, w.Tasks, w.Refs)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)

	ok, err := svc.Delete(ctx, w.Owner(t, owner.ID), project.ID)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := svc.Get(ctx, w.Owner(t, owner.ID), project.ID)
	require.NoError(t, err)
	require.True(t, got.IsDeleted)

	projects, err := svc.List(ctx, w.Owner(t, owner.ID))
	require.NoError(t, err)
	require.Empty(t, projects)
}

func TestPricingSumsTaskCompletionTimes(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := projectsvc.New(w.Projects, w.Tasks, w.Refs)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)

	// 2h and 1h30 of tracked work.
	t1 := w.SeedTask(t, project)
	t2 := w.SeedTask(t, project)
	two := int64(2 * 3_600_000)
	oneAndHalf := int64(90 * 60_000)
	_, err := w.Tasks.Update(ctx, t1.ID, models.TaskPatch{CompletionTime: &two})
	require.NoError(t, err)
	_, err = w.Tasks.Update(ctx, t2.ID, models.TaskPatch{CompletionTime: &oneAndHalf})
	require.NoError(t, err)

	reloaded, err := w.Projects.GetByID(ctx, project.ID)
	require.NoError(t, err)

	pricing, err := svc.PricingFor(ctx, reloaded)
	require.NoError(t, err)
	require.InDelta(t, 60*3.5, pricing.Price, 0.001)
	require.InDelta(t, project.Quote-60*3.5, pricing.DiffQuotePrice, 0.001)
}

func TestPricingFloorsAtOneHour(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := projectsvc.New(w.Projects, w.Tasks, w.Refs)
	ctx := context.Background()

	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)
	w.SeedTask(t, project) // no completion time tracked yet

	reloaded, err := w.Projects.GetByID(ctx, project.ID)
	require.NoError(t, err)

	pricing, err := svc.PricingFor(ctx, reloaded)
	require.NoError(t, err)
	require.InDelta(t, project.HourlyRate, pricing.Price, 0.001)
}
