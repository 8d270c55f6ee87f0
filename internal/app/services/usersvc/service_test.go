package usersvc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wedevhq/wedev/internal/app/services/usersvc"
	"github.com/wedevhq/wedev/internal/app/system/auth"
	"github.com/wedevhq/wedev/internal/app/system/github"
	"github.com/wedevhq/wedev/internal/app/system/passwords"
	"github.com/wedevhq/wedev/internal/domain/apperr"
	"github.com/wedevhq/wedev/internal/domain/models"
	"github.com/wedevhq/wedev/internal/testutil"
)

type fakeGithub struct {
	login string
	err   error
}

func (f *fakeGithub) ListRepos(ctx context.Context) ([]models.Repository, error) { return nil, f.err }
func (f *fakeGithub) CreateIssue(ctx context.Context, repoFullName, title, body string) (int, error) {
	return 0, f.err
}
func (f *fakeGithub) UserLogin(ctx context.Context) (string, error) { return f.login, f.err }
func (f *fakeGithub) ConfigFile(ctx context.Context, repoFullName string) (string, error) {
	return "", f.err
}

func newService(t *testing.T, w *testutil.World, gh github.Client) (*usersvc.Service, passwords.AESTransport) {
	t.Helper()
	transport := passwords.NewAESTransport("test-transport-key")
	factory := func(token string) github.Client { return gh }
	svc := usersvc.New(w.Users, auth.NewTokens("test-signing-key"), passwords.NewBcryptHasher(), transport, factory, 8, zap.NewNop())
	return svc, transport
}

func registerInput(t *testing.T, transport passwords.AESTransport, email, password string) usersvc.RegisterInput {
	t.Helper()
	enc, err := transport.Encrypt(password)
	require.NoError(t, err)
	return usersvc.RegisterInput{
		LastName:  "Doe",
		FirstName: "Jane",
		Email:     email,
		Password:  enc,
	}
}

func TestRegisterThenLogin(t *testing.T) {
	w := testutil.NewWorld(t)
	svc, transport := newService(t, w, &fakeGithub{})
	ctx := context.Background()

	out, err := svc.Register(ctx, registerInput(t, transport, "jane@example.com", "s3cret-password"))
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)
	require.Equal(t, "jane@example.com", out.User.Email)
	require.NotEqual(t, "s3cret-password", out.User.Password)
	require.NotNil(t, out.User.Clients)
	require.NotNil(t, out.User.Projects)

	enc, err := transport.Encrypt("s3cret-password")
	require.NoError(t, err)

	logged, err := svc.Login(ctx, "jane@example.com", enc)
	require.NoError(t, err)
	require.Equal(t, out.User.ID, logged.User.ID)
	require.NotEmpty(t, logged.Token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	w := testutil.NewWorld(t)
	svc, transport := newService(t, w, &fakeGithub{})
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput(t, transport, "jane@example.com", "s3cret-password"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerInput(t, transport, "Jane@Example.com", "s3cret-password"))
	require.True(t, apperr.IsKind(err, apperr.KindConflict))

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	require.Equal(t, "user_register_duplicated_email", appErr.Label)
}

func TestRegisterPasswordTooShort(t *testing.T) {
	w := testutil.NewWorld(t)
	svc, transport := newService(t, w, &fakeGithub{})

	_, err := svc.Register(context.Background(), registerInput(t, transport, "jane@example.com", "short"))
	require.True(t, apperr.IsKind(err, apperr.KindValidation))

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	require.Equal(t, "user_register_password_length", appErr.Label)
}

func TestRegisterRejectsRawPassword(t *testing.T) {
	w := testutil.NewWorld(t)
	svc, _ := newService(t, w, &fakeGithub{})

	in := usersvc.RegisterInput{
		LastName:  "Doe",
		FirstName: "Jane",
		Email:     "jane@example.com",
		Password:  "not-an-encrypted-payload",
	}
	_, err := svc.Register(context.Background(), in)
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRegisterValidation(t *testing.T) {
	w := testutil.NewWorld(t)
	svc, transport := newService(t, w, &fakeGithub{})
	ctx := context.Background()

	in := registerInput(t, transport, "not-an-email", "s3cret-password")
	_, err := svc.Register(ctx, in)
	require.True(t, apperr.IsKind(err, apperr.KindValidation))

	in = registerInput(t, transport, "jane@example.com", "s3cret-password")
	in.Siret = "123"
	_, err = svc.Register(ctx, in)
	require.True(t, apperr.IsKind(err, apperr.KindValidation))

	in = registerInput(t, transport, "jane@example.com", "s3cret-password")
	in.CompanyStatus = "plc"
	_, err = svc.Register(ctx, in)
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestLoginWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	w := testutil.NewWorld(t)
	svc, transport := newService(t, w, &fakeGithub{})
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput(t, transport, "jane@example.com", "s3cret-password"))
	require.NoError(t, err)

	wrong, err := transport.Encrypt("wrong-password")
	require.NoError(t, err)

	_, errWrongPwd := svc.Login(ctx, "jane@example.com", wrong)
	_, errUnknown := svc.Login(ctx, "nobody@example.com", wrong)
	require.True(t, apperr.IsKind(errWrongPwd, apperr.KindUnauthorized))
	require.True(t, apperr.IsKind(errUnknown, apperr.KindUnauthorized))
	require.Equal(t, errWrongPwd.Error(), errUnknown.Error())
}

func TestLoginDeactivatedAccount(t *testing.T) {
	w := testutil.NewWorld(t)
	svc, transport := newService(t, w, &fakeGithub{})
	ctx := context.Background()

	out, err := svc.Register(ctx, registerInput(t, transport, "jane@example.com", "s3cret-password"))
	require.NoError(t, err)

	ok, err := svc.Deactivate(ctx, &out.User, out.User.ID)
	require.NoError(t, err)
	require.True(t, ok)

	enc, err := transport.Encrypt("s3cret-password")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "jane@example.com", enc)
	require.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestUpdateIsSelfOnly(t *testing.T) {
	w := testutil.NewWorld(t)
	svc, _ := newService(t, w, &fakeGithub{})
	ctx := context.Background()

	actor := w.SeedUser(t)
	other := w.Users.Seed(models.User{Email: "other@example.com"})

	name := "Smith"
	_, err := svc.Update(ctx, &actor, usersvc.UpdateInput{ID: other.ID, LastName: &name})
	require.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	updated, err := svc.Update(ctx, &actor, usersvc.UpdateInput{ID: actor.ID, LastName: &name})
	require.NoError(t, err)
	require.Equal(t, "Smith", updated.LastName)
	require.Equal(t, actor.FirstName, updated.FirstName)
}

func TestUpdateRefreshesGithubLogin(t *testing.T) {
	w := testutil.NewWorld(t)
	svc, _ := newService(t, w, &fakeGithub{login: "janedev"})
	ctx := context.Background()

	actor := w.SeedUser(t)
	token := "gho_newtoken"
	updated, err := svc.Update(ctx, &actor, usersvc.UpdateInput{ID: actor.ID, GithubToken: &token})
	require.NoError(t, err)
	require.Equal(t, "gho_newtoken", updated.GithubToken)
	require.Equal(t, "janedev", updated.GithubLogin)
}

func TestUpdateKeepsTokenWhenGithubUnreachable(t *testing.T) {
	w := testutil.NewWorld(t)
	svc, _ := newService(t, w, &fakeGithub{err: context.DeadlineExceeded})
	ctx := context.Background()

	actor := w.SeedUser(t)
	actor.GithubLogin = "stale"
	actor = w.Users.Seed(actor)

	token := "gho_newtoken"
	updated, err := svc.Update(ctx, &actor, usersvc.UpdateInput{ID: actor.ID, GithubToken: &token})
	require.NoError(t, err)
	require.Equal(t, "gho_newtoken", updated.GithubToken)
	require.Equal(t, "stale", updated.GithubLogin)
}

func TestGetIsSelfOnly(t *testing.T) {
	w := testutil.NewWorld(t)
	svc, _ := newService(t, w, &fakeGithub{})
	ctx := context.Background()

	actor := w.SeedUser(t)
	got, err := svc.Get(ctx, &actor, actor.ID)
	require.NoError(t, err)
	require.Equal(t, actor.ID, got.ID)

	other := w.Users.Seed(models.User{Email: "other@example.com"})
	_, err = svc.Get(ctx, &actor, other.ID)
	require.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}
