package clientsvc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wedevhq/wedev/internal/app/services/clientsvc"
	"github.com/wedevhq/wedev/internal/domain/apperr"
	"github.com/wedevhq/wedev/internal/domain/models"
	"github.com/wedevhq/wedev/internal/testutil"
)

func validCreate(owner models.User) clientsvc.CreateInput {
	return clientsvc.CreateInput{
		CorporateName: "ACME SARL",
		Contact:       models.Contact{LastName: "Martin", FirstName: "Paul", Email: "paul@acme.example"},
		User:          owner.ID,
	}
}

func TestCreateIndexesClientOnOwner(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := clientsvc.New(w.Clients, w.Refs)
	ctx := context.Background()

	owner := w.SeedUser(t)
	client, err := svc.Create(ctx, &owner, validCreate(owner))
	require.NoError(t, err)
	require.NotNil(t, client.Projects)

	require.True(t, w.Owner(t, owner.ID).OwnsClient(client.ID))
}

func TestCreateForAnotherUserIsRejected(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := clientsvc.New(w.Clients, w.Refs)
	ctx := context.Background()

	owner := w.SeedUser(t)
	other := w.Users.Seed(models.User{Email: "other@example.com"})

	in := validCreate(other)
	_, err := svc.Create(ctx, &owner, in)
	require.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	_, err = svc.Create(ctx, nil, validCreate(owner))
	require.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestCreateValidation(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := clientsvc.New(w.Clients, w.Refs)
	ctx := context.Background()
	owner := w.SeedUser(t)

	in := validCreate(owner)
	in.CorporateName = ""
	_, err := svc.Create(ctx, &owner, in)
	require.True(t, apperr.IsKind(err, apperr.KindValidation))

	in = validCreate(owner)
	in.Contact.Phone = ""
	in.Contact.Email = ""
	_, err = svc.Create(ctx, &owner, in)
	require.True(t, apperr.IsKind(err, apperr.KindValidation))

	in = validCreate(owner)
	in.Address = &models.Address{Street: "1 rue de la Paix"}
	_, err = svc.Create(ctx, &owner, in)
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUpdateRequiresOwnership(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := clientsvc.New(w.Clients, w.Refs)
	ctx := context.Background()

	owner := w.SeedUser(t)
	client := w.SeedClient(t, owner)
	stranger := w.Users.Seed(models.User{Email: "other@example.com"})

	name := "ACME SAS"
	_, err := svc.Update(ctx, &stranger, clientsvc.UpdateInput{ID: client.ID, CorporateName: &name})
	require.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	reloaded := w.Owner(t, owner.ID)
	updated, err := svc.Update(ctx, reloaded, clientsvc.UpdateInput{ID: client.ID, CorporateName: &name})
	require.NoError(t, err)
	require.Equal(t, "ACME SAS", updated.CorporateName)
	require.Equal(t, client.Contact, updated.Contact)
}

func TestDeleteSoftDeletesAndCascades(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := clientsvc.New(w.Clients, w.Refs)
	ctx := context.Background()

	owner := w.SeedUser(t)
	client := w.SeedClient(t, owner)
	project := w.SeedProject(t, *w.Owner(t, owner.ID), client.ID)

	ok, err := svc.Delete(ctx, w.Owner(t, owner.ID), client.ID)
	require.NoError(t, err)
	require.True(t, ok)

	// The client document survives and still resolves by id.
	got, err := svc.Get(ctx, w.Owner(t, owner.ID), client.ID)
	require.NoError(t, err)
	require.True(t, got.IsDeleted)

	// Its projects were soft-deleted with it.
	p, err := w.Projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	require.True(t, p.IsDeleted)

	// And neither shows up in listings anymore.
	clients, err := svc.List(ctx, w.Owner(t, owner.ID))
	require.NoError(t, err)
	require.Empty(t, clients)
}

func TestListScopesToOwnerAndExcludesDeleted(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := clientsvc.New(w.Clients, w.Refs)
	ctx := context.Background()

	owner := w.SeedUser(t)
	other := w.Users.Seed(models.User{Email: "other@example.com"})
	mine := w.SeedClient(t, owner)
	w.SeedClient(t, other)

	clients, err := svc.List(ctx, w.Owner(t, owner.ID))
	require.NoError(t, err)
	require.Len(t, clients, 1)
	require.Equal(t, mine.ID, clients[0].ID)
}

func TestGetUnknownClient(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := clientsvc.New(w.Clients, w.Refs)
	ctx := context.Background()

	owner := w.SeedUser(t)
	ghost := primitive.NewObjectID()
	owner.Clients = append(owner.Clients, ghost)

	_, err := svc.Get(ctx, &owner, ghost)
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
