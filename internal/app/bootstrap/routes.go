// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apifeature "github.com/wedevhq/wedev/internal/app/features/api"
	healthfeature "github.com/wedevhq/wedev/internal/app/features/health"
	"github.com/wedevhq/wedev/internal/app/services/clientsvc"
	"github.com/wedevhq/wedev/internal/app/services/metricsvc"
	"github.com/wedevhq/wedev/internal/app/services/projectsvc"
	"github.com/wedevhq/wedev/internal/app/services/repossvc"
	"github.com/wedevhq/wedev/internal/app/services/sprintsvc"
	"github.com/wedevhq/wedev/internal/app/services/tasksvc"
	"github.com/wedevhq/wedev/internal/app/services/usersvc"
	clientstore "github.com/wedevhq/wedev/internal/app/store/clients"
	projectstore "github.com/wedevhq/wedev/internal/app/store/projects"
	sprintstore "github.com/wedevhq/wedev/internal/app/store/sprints"
	taskstore "github.com/wedevhq/wedev/internal/app/store/tasks"
	userstore "github.com/wedevhq/wedev/internal/app/store/users"
	"github.com/wedevhq/wedev/internal/app/system/auth"
	"github.com/wedevhq/wedev/internal/app/system/backrefs"
	"github.com/wedevhq/wedev/internal/app/system/github"
	"github.com/wedevhq/wedev/internal/app/system/passwords"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. The wiring runs bottom-up:
// stores over the database, the back-reference coordinator over the
// stores, the services over both, and the GraphQL handler over the
// services.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.WeDevMongoDatabase

	users := userstore.New(db)
	clients := clientstore.New(db)
	projects := projectstore.New(db)
	sprints := sprintstore.New(db)
	tasks := taskstore.New(db)

	refs := backrefs.New(users, clients, projects, sprints, tasks, logger)

	tokens := auth.NewTokens(appCfg.JWTKey)
	transport := passwords.NewAESTransport(appCfg.CryptKey)
	ghFactory := github.NewFactory(appCfg.GithubTimeout)

	userSvc := usersvc.New(users, tokens, passwords.NewBcryptHasher(), transport, ghFactory, appCfg.MinPasswordLength, logger)
	clientSvc := clientsvc.New(clients, refs)
	projectSvc := projectsvc.New(projects, tasks, refs)
	sprintSvc := sprintsvc.New(sprints, tasks, refs)
	taskSvc := tasksvc.New(tasks, sprints, refs)
	metricSvc := metricsvc.New(projects)
	repoSvc := repossvc.New(projects, ghFactory)

	apiHandler, err := apifeature.New(&apifeature.Handler{
		Users:    userSvc,
		Clients:  clientSvc,
		Projects: projectSvc,
		Sprints:  sprintSvc,
		Tasks:    taskSvc,
		Metrics:  metricSvc,
		Repos:    repoSvc,
		Log:      logger,
	})
	if err != nil {
		logger.Error("schema build failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(apifeature.RequestLogger(logger))

	// Global auth middleware: resolves a bearer token into a context
	// user. Anonymous requests proceed; the services decide which
	// operations require one.
	r.Use(auth.Middleware(tokens, users, logger))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.WeDevMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Mount("/graphql", apifeature.Routes(apiHandler))

	return r, nil
}
