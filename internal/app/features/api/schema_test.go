package api_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/wedevhq/wedev/internal/app/features/api"
	"github.com/wedevhq/wedev/internal/app/services/clientsvc"
	"github.com/wedevhq/wedev/internal/app/services/metricsvc"
	"github.com/wedevhq/wedev/internal/app/services/projectsvc"
	"github.com/wedevhq/wedev/internal/app/services/repossvc"
	"github.com/wedevhq/wedev/internal/app/services/sprintsvc"
	"github.com/wedevhq/wedev/internal/app/services/tasksvc"
	"github.com/wedevhq/wedev/internal/app/services/usersvc"
	"github.com/wedevhq/wedev/internal/app/system/auth"
	"github.com/wedevhq/wedev/internal/app/system/github"
	"github.com/wedevhq/wedev/internal/app/system/passwords"
	"github.com/wedevhq/wedev/internal/domain/models"
	"github.com/wedevhq/wedev/internal/testutil"
)

type fakeGithub struct{}

func (f *fakeGithub) ListRepos(ctx context.Context) ([]models.Repository, error) {
	return []models.Repository{{GithubID: 1, Name: "site", FullName: "octocat/site"}}, nil
}

func (f *fakeGithub) CreateIssue(ctx context.Context, repoFullName, title, body string) (int, error) {
	return 42, nil
}

func (f *fakeGithub) UserLogin(ctx context.Context) (string, error) {
	return "octocat", nil
}

func (f *fakeGithub) ConfigFile(ctx context.Context, repoFullName string) (string, error) {
	return "aG9zdGluZzogb3Zo", nil
}

func newHandler(t *testing.T) (*api.Handler, *testutil.World, passwords.AESTransport) {
	t.Helper()
	w := testutil.NewWorld(t)
	transport := passwords.NewAESTransport("transport-secret")
	ghFactory := github.Factory(func(token string) github.Client { return &fakeGithub{} })

	users := usersvc.New(w.Users, auth.NewTokens("signing-key"), passwords.NewBcryptHasher(), transport, ghFactory, 8, zap.NewNop())
	clients := clientsvc.New(w.Clients, w.Refs)
	projects := projectsvc.New(w.Projects, w.Tasks, w.Refs)
	sprints := sprintsvc.New(w.Sprints, w.Tasks, w.Refs)
	tasks := tasksvc.New(w.Tasks, w.Sprints, w.Refs)
	metrics := metricsvc.New(w.Projects)
	repos := repossvc.New(w.Projects, ghFactory)

	h, err := api.New(&api.Handler{
		Users:    users,
		Clients:  clients,
		Projects: projects,
		Sprints:  sprints,
		Tasks:    tasks,
		Metrics:  metrics,
		Repos:    repos,
		Log:      zap.NewNop(),
	})
	require.NoError(t, err)
	return h, w, transport
}

func exec(t *testing.T, h *api.Handler, ctx context.Context, query string) *graphql.Result {
	t.Helper()
	return graphql.Do(graphql.Params{
		Schema:        h.Schema(),
		RequestString: query,
		Context:       ctx,
	})
}

// execOK fails the test on any GraphQL error and returns the data map.
func execOK(t *testing.T, h *api.Handler, ctx context.Context, query string) map[string]interface{} {
	t.Helper()
	res := exec(t, h, ctx, query)
	require.Empty(t, res.Errors, "unexpected errors: %v", res.Errors)
	data, ok := res.Data.(map[string]interface{})
	require.True(t, ok)
	return data
}

func userCtx(u models.User) context.Context {
	return auth.WithUser(context.Background(), &u)
}

func TestUserRegisterAndLogin(t *testing.T) {
	h, _, transport := newHandler(t)

	encrypted, err := transport.Encrypt("longenough-secret")
	require.NoError(t, err)

	data := execOK(t, h, context.Background(), fmt.Sprintf(`mutation {
		userRegister(lastName: "Doe", firstName: "Jane", email: "jane@example.com", password: %q) {
			token
			user { id email firstName }
		}
	}`, encrypted))

	payload := data["userRegister"].(map[string]interface{})
	require.NotEmpty(t, payload["token"])
	user := payload["user"].(map[string]interface{})
	require.Equal(t, "jane@example.com", user["email"])
	require.NotEmpty(t, user["id"])

	data = execOK(t, h, context.Background(), fmt.Sprintf(`mutation {
		userLogin(email: "jane@example.com", password: %q) {
			token
			user { email }
		}
	}`, encrypted))

	payload = data["userLogin"].(map[string]interface{})
	require.NotEmpty(t, payload["token"])
}

func TestUnauthenticatedQueryIsRejected(t *testing.T) {
	h, _, _ := newHandler(t)

	res := exec(t, h, context.Background(), `{ clients { id } }`)
	require.Len(t, res.Errors, 1)
	require.Equal(t, "UNAUTHORIZED", res.Errors[0].Extensions["code"])
}

func TestClientCreationMutation(t *testing.T) {
	h, w, _ := newHandler(t)
	owner := w.SeedUser(t)

	data := execOK(t, h, userCtx(owner), fmt.Sprintf(`mutation {
		clientCreation(
			corporateName: "ACME SARL",
			contact: { lastName: "Martin", firstName: "Paul", email: "paul@acme.example" },
			userId: %q,
		) {
			id
			corporateName
			user
		}
	}`, owner.ID.Hex()))

	client := data["clientCreation"].(map[string]interface{})
	require.Equal(t, "ACME SARL", client["corporateName"])
	require.Equal(t, owner.ID.Hex(), client["user"])

	reloaded := w.Owner(t, owner.ID)
	require.Len(t, reloaded.Clients, 1)
	require.Equal(t, client["id"], reloaded.Clients[0].Hex())
}

func TestValidationErrorsCarryExtensions(t *testing.T) {
	h, w, _ := newHandler(t)
	owner := w.SeedUser(t)

	res := exec(t, h, userCtx(owner), fmt.Sprintf(`mutation {
		clientCreation(
			corporateName: "",
			contact: { lastName: "Martin", firstName: "Paul", email: "paul@acme.example" },
			userId: %q,
		) { id }
	}`, owner.ID.Hex()))

	require.Len(t, res.Errors, 1)
	require.Equal(t, "VALIDATION", res.Errors[0].Extensions["code"])
	require.Equal(t, "corporateName", res.Errors[0].Extensions["field"])
}

func TestProjectCreationComputesPrice(t *testing.T) {
	h, w, _ := newHandler(t)
	owner := w.SeedUser(t)

	data := execOK(t, h, userCtx(owner), fmt.Sprintf(`mutation {
		projectCreation(
			title: "Site vitrine",
			quote: 500,
			hourlyRate: 80,
			startDate: "2026-01-05T00:00:00Z",
			userId: %q,
		) {
			id
			status
			price
			diffQuotePrice
		}
	}`, owner.ID.Hex()))

	project := data["projectCreation"].(map[string]interface{})
	require.Equal(t, "not_started", project["status"])
	// No tracked time yet, so billing floors at one hour.
	require.InDelta(t, 80.0, project["price"], 0.001)
	require.InDelta(t, 420.0, project["diffQuotePrice"], 0.001)
}

func TestTaskSchedulingMutations(t *testing.T) {
	h, w, _ := newHandler(t)
	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)
	sprint := w.SeedSprint(t, project)
	task := w.SeedTask(t, project)
	ctx := userCtx(*w.Owner(t, owner.ID))

	data := execOK(t, h, ctx, fmt.Sprintf(`mutation {
		tasksSprintAddition(sprintId: %q, taskIds: [%q]) {
			id
			tasks
		}
	}`, sprint.ID.Hex(), task.ID.Hex()))

	got := data["tasksSprintAddition"].(map[string]interface{})
	require.Equal(t, []interface{}{task.ID.Hex()}, got["tasks"])

	data = execOK(t, h, ctx, fmt.Sprintf(`mutation {
		taskSprintDeletion(id: %q) {
			id
			sprint
		}
	}`, task.ID.Hex()))

	detached := data["taskSprintDeletion"].(map[string]interface{})
	require.Nil(t, detached["sprint"])

	reloaded, err := w.Sprints.GetByID(context.Background(), sprint.ID)
	require.NoError(t, err)
	require.Empty(t, reloaded.Tasks)
}

func TestTaskStatusUpdateStampsCompletionTime(t *testing.T) {
	h, w, _ := newHandler(t)
	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)
	task := w.SeedTask(t, project)
	ctx := userCtx(*w.Owner(t, owner.ID))

	execOK(t, h, ctx, fmt.Sprintf(`mutation {
		taskStatusUpdate(id: %q, status: "in_progress") { status }
	}`, task.ID.Hex()))

	data := execOK(t, h, ctx, fmt.Sprintf(`mutation {
		taskStatusUpdate(id: %q, status: "done") {
			status
			completionTime
		}
	}`, task.ID.Hex()))

	done := data["taskStatusUpdate"].(map[string]interface{})
	require.Equal(t, "done", done["status"])
	require.NotNil(t, done["completionTime"])
}

func TestTasksQueryFilters(t *testing.T) {
	h, w, _ := newHandler(t)
	owner := w.SeedUser(t)
	project := w.SeedProject(t, owner, primitive.NilObjectID)
	sprint := w.SeedSprint(t, project)
	scheduled := w.SeedTask(t, project)
	backlog := w.SeedTask(t, project)
	ctx := userCtx(*w.Owner(t, owner.ID))

	execOK(t, h, ctx, fmt.Sprintf(`mutation {
		tasksSprintAddition(sprintId: %q, taskIds: [%q]) { id }
	}`, sprint.ID.Hex(), scheduled.ID.Hex()))

	data := execOK(t, h, ctx, fmt.Sprintf(`{
		tasks(projectId: %q, excludeWithSprint: true) { id }
	}`, project.ID.Hex()))

	rows := data["tasks"].([]interface{})
	require.Len(t, rows, 1)
	require.Equal(t, backlog.ID.Hex(), rows[0].(map[string]interface{})["id"])
}

func TestMetricsQuery(t *testing.T) {
	h, w, _ := newHandler(t)
	owner := w.SeedUser(t)
	w.SeedProject(t, owner, primitive.NilObjectID)

	data := execOK(t, h, userCtx(*w.Owner(t, owner.ID)), `{
		metrics {
			totalFinishedProjects
			totalWIPProjects
			totalRevenues
			averageHourlyRate
		}
	}`)

	metrics := data["metrics"].(map[string]interface{})
	require.Equal(t, 0, metrics["totalFinishedProjects"])
	require.Equal(t, 1, metrics["totalWIPProjects"])
	require.InDelta(t, 0.0, metrics["totalRevenues"], 0.001)
	require.InDelta(t, 60.0, metrics["averageHourlyRate"], 0.001)
}

func TestGithubReposQuery(t *testing.T) {
	h, w, _ := newHandler(t)
	owner := w.Users.Seed(models.User{
		LastName:    "Doe",
		FirstName:   "Jane",
		Email:       "jane@example.com",
		GithubToken: "gh-token",
	})

	data := execOK(t, h, userCtx(owner), `{
		githubRepos { githubId name fullName }
	}`)

	repos := data["githubRepos"].([]interface{})
	require.Len(t, repos, 1)
	require.Equal(t, "octocat/site", repos[0].(map[string]interface{})["fullName"])
}

func TestRepositoryIssueCreationRequiresLinkedRepo(t *testing.T) {
	h, w, _ := newHandler(t)
	owner := w.Users.Seed(models.User{
		LastName:    "Doe",
		FirstName:   "Jane",
		Email:       "jane@example.com",
		GithubToken: "gh-token",
	})
	linked := w.Projects.Seed(models.Project{
		Title:        "Site vitrine",
		User:         owner.ID,
		Repositories: []models.Repository{{GithubID: 1, FullName: "octocat/site"}},
	})
	require.NoError(t, w.Users.AddProject(context.Background(), owner.ID, linked.ID))
	ctx := userCtx(*w.Owner(t, owner.ID))

	data := execOK(t, h, ctx, fmt.Sprintf(`mutation {
		repositoryIssueCreation(projectId: %q, repository: "octocat/site", title: "Bug")
	}`, linked.ID.Hex()))
	require.Equal(t, 42, data["repositoryIssueCreation"])

	res := exec(t, h, ctx, fmt.Sprintf(`mutation {
		repositoryIssueCreation(projectId: %q, repository: "octocat/other", title: "Bug")
	}`, linked.ID.Hex()))
	require.Len(t, res.Errors, 1)
	require.Equal(t, "VALIDATION", res.Errors[0].Extensions["code"])
}
