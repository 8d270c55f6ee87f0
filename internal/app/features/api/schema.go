// internal/app/features/api/schema.go
package api

import (
	"github.com/graphql-go/graphql"

	"github.com/wedevhq/wedev/internal/app/services/clientsvc"
	"github.com/wedevhq/wedev/internal/app/services/projectsvc"
	"github.com/wedevhq/wedev/internal/app/services/repossvc"
	"github.com/wedevhq/wedev/internal/app/services/sprintsvc"
	"github.com/wedevhq/wedev/internal/app/services/tasksvc"
	"github.com/wedevhq/wedev/internal/app/services/usersvc"
	"github.com/wedevhq/wedev/internal/app/system/auth"
	"github.com/wedevhq/wedev/internal/domain/models"
)

type authPayload = usersvc.AuthPayload

// actor returns the authenticated user from the request context, nil
// for anonymous callers. Services fail closed on nil.
func actor(p graphql.ResolveParams) *models.User {
	u, _ := auth.CurrentUser(p.Context)
	return u
}

// buildSchema assembles the executable schema over the services.
func (h *Handler) buildSchema() (graphql.Schema, error) {
	t := h.buildTypes()

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"user": &graphql.Field{
				Type: t.user,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := argID(p.Args, "id")
					if err != nil {
						return nil, fail(err)
					}
					user, err := h.Users.Get(p.Context, actor(p), id)
					if err != nil {
						return nil, fail(err)
					}
					return user, nil
				},
			},
			"client": &graphql.Field{
				Type: t.client,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := argID(p.Args, "id")
					if err != nil {
						return nil, fail(err)
					}
					client, err := h.Clients.Get(p.Context, actor(p), id)
					if err != nil {
						return nil, fail(err)
					}
					return client, nil
				},
			},
			"clients": &graphql.Field{
				Type: graphql.NewList(t.client),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					clients, err := h.Clients.List(p.Context, actor(p))
					if err != nil {
						return nil, fail(err)
					}
					return clients, nil
				},
			},
			"project": &graphql.Field{
				Type: t.project,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := argID(p.Args, "id")
					if err != nil {
						return nil, fail(err)
					}
					project, err := h.Projects.Get(p.Context, actor(p), id)
					if err != nil {
						return nil, fail(err)
					}
					return project, nil
				},
			},
			"projects": &graphql.Field{
				Type: graphql.NewList(t.project),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					projects, err := h.Projects.List(p.Context, actor(p))
					if err != nil {
						return nil, fail(err)
					}
					return projects, nil
				},
			},
			"sprint": &graphql.Field{
				Type: t.sprint,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := argID(p.Args, "id")
					if err != nil {
						return nil, fail(err)
					}
					sprint, err := h.Sprints.Get(p.Context, actor(p), id)
					if err != nil {
						return nil, fail(err)
					}
					return sprint, nil
				},
			},
			"sprints": &graphql.Field{
				Type: graphql.NewList(t.sprint),
				Args: graphql.FieldConfigArgument{
					"projectId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					projectID, err := optID(p.Args, "projectId")
					if err != nil {
						return nil, fail(err)
					}
					sprints, err := h.Sprints.List(p.Context, actor(p), projectID)
					if err != nil {
						return nil, fail(err)
					}
					return sprints, nil
				},
			},
			"task": &graphql.Field{
				Type: t.task,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := argID(p.Args, "id")
					if err != nil {
						return nil, fail(err)
					}
					task, err := h.Tasks.Get(p.Context, actor(p), id)
					if err != nil {
						return nil, fail(err)
					}
					return task, nil
				},
			},
			"tasks": &graphql.Field{
				Type: graphql.NewList(t.task),
				Args: graphql.FieldConfigArgument{
					"projectId":         &graphql.ArgumentConfig{Type: graphql.ID},
					"sprintId":          &graphql.ArgumentConfig{Type: graphql.ID},
					"excludeWithSprint": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					projectID, err := optID(p.Args, "projectId")
					if err != nil {
						return nil, fail(err)
					}
					sprintID, err := optID(p.Args, "sprintId")
					if err != nil {
						return nil, fail(err)
					}
					tasks, err := h.Tasks.List(p.Context, actor(p), tasksvc.Filter{
						Project:     projectID,
						Sprint:      sprintID,
						Unscheduled: argBool(p.Args, "excludeWithSprint"),
					})
					if err != nil {
						return nil, fail(err)
					}
					return tasks, nil
				},
			},
			"metrics": &graphql.Field{
				Type: t.metrics,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					metrics, err := h.Metrics.Compute(p.Context, actor(p))
					if err != nil {
						return nil, fail(err)
					}
					return metrics, nil
				},
			},
			"githubRepos": &graphql.Field{
				Type: graphql.NewList(t.repository),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					repos, err := h.Repos.ListRepos(p.Context, actor(p))
					if err != nil {
						return nil, fail(err)
					}
					return repos, nil
				},
			},
			"repositoryConfigFile": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"projectId":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"repository": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					projectID, err := argID(p.Args, "projectId")
					if err != nil {
						return nil, fail(err)
					}
					content, err := h.Repos.ConfigFile(p.Context, actor(p), projectID, argString(p.Args, "repository"))
					if err != nil {
						return nil, fail(err)
					}
					return content, nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"userRegister": &graphql.Field{
				Type: t.authPayload,
				Args: graphql.FieldConfigArgument{
					"lastName":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"firstName":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":              &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"company":            &graphql.ArgumentConfig{Type: graphql.String},
					"siret":              &graphql.ArgumentConfig{Type: graphql.String},
					"phone":              &graphql.ArgumentConfig{Type: graphql.String},
					"companyStatus":      &graphql.ArgumentConfig{Type: graphql.String},
					"professionalStatus": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					out, err := h.Users.Register(p.Context, usersvc.RegisterInput{
						LastName:           argString(p.Args, "lastName"),
						FirstName:          argString(p.Args, "firstName"),
						Email:              argString(p.Args, "email"),
						Password:           argString(p.Args, "password"),
						Company:            argString(p.Args, "company"),
						Siret:              argString(p.Args, "siret"),
						Phone:              argString(p.Args, "phone"),
						CompanyStatus:      argString(p.Args, "companyStatus"),
						ProfessionalStatus: argString(p.Args, "professionalStatus"),
					})
					if err != nil {
						return nil, fail(err)
					}
					return *out, nil
				},
			},
			"userLogin": &graphql.Field{
				Type: t.authPayload,
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					out, err := h.Users.Login(p.Context, argString(p.Args, "email"), argString(p.Args, "password"))
					if err != nil {
						return nil, fail(err)
					}
					return *out, nil
				},
			},
			"userUpdate": &graphql.Field{
				Type: t.user,
				Args: graphql.FieldConfigArgument{
					"id":                 &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"lastName":           &graphql.ArgumentConfig{Type: graphql.String},
					"firstName":          &graphql.ArgumentConfig{Type: graphql.String},
					"company":            &graphql.ArgumentConfig{Type: graphql.String},
					"siret":              &graphql.ArgumentConfig{Type: graphql.String},
					"phone":              &graphql.ArgumentConfig{Type: graphql.String},
					"companyStatus":      &graphql.ArgumentConfig{Type: graphql.String},
					"professionalStatus": &graphql.ArgumentConfig{Type: graphql.String},
					"githubToken":        &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := argID(p.Args, "id")
					if err != nil {
						return nil, fail(err)
					}
					user, err := h.Users.Update(p.Context, actor(p), usersvc.UpdateInput{
						ID:                 id,
						LastName:           optString(p.Args, "lastName"),
						FirstName:          optString(p.Args, "firstName"),
						Company:            optString(p.Args, "company"),
						Siret:              optString(p.Args, "siret"),
						Phone:              optString(p.Args, "phone"),
						CompanyStatus:      optString(p.Args, "companyStatus"),
						ProfessionalStatus: optString(p.Args, "professionalStatus"),
						GithubToken:        optString(p.Args, "githubToken"),
					})
					if err != nil {
						return nil, fail(err)
					}
					return user, nil
				},
			},
			"userDeactivation": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := argID(p.Args, "id")
					if err != nil {
						return nil, fail(err)
					}
					ok, err := h.Users.Deactivate(p.Context, actor(p), id)
					if err != nil {
						return nil, fail(err)
					}
					return ok, nil
				},
			},
			"clientCreation": &graphql.Field{
				Type: t.client,
				Args: graphql.FieldConfigArgument{
					"corporateName": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"contact":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(t.contactInput)},
					"address":       &graphql.ArgumentConfig{Type: t.addressInput},
					"userId":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID, err := argID(p.Args, "userId")
					if err != nil {
						return nil, fail(err)
					}
					client, err := h.Clients.Create(p.Context, actor(p), clientsvc.CreateInput{
						CorporateName: argString(p.Args, "corporateName"),
						Contact:       contactArg(p.Args["contact"]),
						Address:       addressArg(p.Args["address"]),
						User:          userID,
					})
					if err != nil {
						return nil, fail(err)
					}
					return client, nil
				},
			},
			"clientUpdate": &graphql.Field{
				Type: t.client,
				Args: graphql.FieldConfigArgument{
					"id":            &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"corporateName": &graphql.ArgumentConfig{Type: graphql.String},
					"contact":       &graphql.ArgumentConfig{Type: t.contactInput},
					"address":       &graphql.ArgumentConfig{Type: t.addressInput},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := argID(p.Args, "id")
					if err != nil {
						return nil, fail(err)
					}
					in := clientsvc.UpdateInput{
						ID:            id,
						CorporateName: optString(p.Args, "corporateName"),
						Address:       addressArg(p.Args["address"]),
					}
					if raw, ok := p.Args["contact"]; ok && raw != nil {
						contact := contactArg(raw)
						in.Contact = &contact
					}
					client, err := h.Clients.Update(p.Context, actor(p), in)
					if err != nil {
						return nil, fail(err)
					}
					return client, nil
				},
			},
			"clientDeletion": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := argID(p.Args, "id")
					if err != nil {
						return nil, fail(err)
					}
					ok, err := h.Clients.Delete(p.Context, actor(p), id)
					if err != nil {
						return nil, fail(err)
					}
					return ok, nil
				},
			},
			"projectCreation": &graphql.Field{
				Type: t.project,
				Args: graphql.FieldConfigArgument{
					"title":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"description":  &graphql.ArgumentConfig{Type: graphql.String},
					"quote":        &graphql.ArgumentConfig{Type: graphql.Float},
					"hourlyRate":   &graphql.ArgumentConfig{Type: graphql.Float},
					"startDate":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.DateTime)},
					"endDate":      &graphql.ArgumentConfig{Type: graphql.DateTime},
					"status":       &graphql.ArgumentConfig{Type: graphql.String},
					"stacks":       &graphql.ArgumentConfig{Type: graphql.NewList(t.stackInput)},
					"clientId":     &graphql.ArgumentConfig{Type: graphql.ID},
					"userId":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"repositories": &graphql.ArgumentConfig{Type: graphql.NewList(t.repositoryInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID, err := argID(p.Args, "userId")
					if err != nil {
						return nil, fail(err)
					}
					clientID, err := optID(p.Args, "clientId")
					if err != nil {
						return nil, fail(err)
					}
					in := projectsvc.CreateInput{
						Title:        argString(p.Args, "title"),
						Description:  argString(p.Args, "description"),
						Quote:        argFloat(p.Args, "quote"),
						HourlyRate:   argFloat(p.Args, "hourlyRate"),
						StartDate:    argTime(p.Args, "startDate"),
						EndDate:      optTime(p.Args, "endDate"),
						Status:       argString(p.Args, "status"),
						Stacks:       stacksArg(p.Args["stacks"]),
						User:         userID,
						Repositories: reposArg(p.Args["repositories"]),
					}
					if clientID != nil {
						in.Client = *clientID
					}
					project, err := h.Projects.Create(p.Context, actor(p), in)
					if err != nil {
						return nil, fail(err)
					}
					return project, nil
				},
			},
			"projectUpdate": &graphql.Field{
				Type: t.project,
				Args: graphql.FieldConfigArgument{
					"id":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"title":        &graphql.ArgumentConfig{Type: graphql.String},
					"description":  &graphql.ArgumentConfig{Type: graphql.String},
					"quote":        &graphql.ArgumentConfig{Type: graphql.Float},
					"hourlyRate":   &graphql.ArgumentConfig{Type: graphql.Float},
					"startDate":    &graphql.ArgumentConfig{Type: graphql.DateTime},
					"endDate":      &graphql.ArgumentConfig{Type: graphql.DateTime},
					"status":       &graphql.ArgumentConfig{Type: graphql.String},
					"stacks":       &graphql.ArgumentConfig{Type: graphql.NewList(t.stackInput)},
					"clientId":     &graphql.ArgumentConfig{Type: graphql.ID},
					"repositories": &graphql.ArgumentConfig{Type: graphql.NewList(t.repositoryInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := argID(p.Args, "id")
					if err != nil {
						return nil, fail(err)
					}
					clientID, err := optID(p.Args, "clientId")
					if err != nil {
						return nil, fail(err)
					}
					in := projectsvc.UpdateInput{
						ID:          id,
						Title:       optString(p.Args, "title"),
						Description: optString(p.Args, "description"),
						Quote:       optFloat(p.Args, "quote"),
						HourlyRate:  optFloat(p.Args, "hourlyRate"),
						StartDate:   optTime(p.Args, "startDate"),
						EndDate:     optTime(p.Args, "endDate"),
						Status:      optString(p.Args, "status"),
						Client:      clientID,
					}
					if raw, ok := p.Args["stacks"]; ok && raw != nil {
						stacks := stacksArg(raw)
						in.Stacks = &stacks
					}
					if raw, ok := p.Args["repositories"]; ok && raw != nil {
						repos := reposArg(raw)
						in.Repositories = &repos
					}
					project, err := h.Projects.Update(p.Context, actor(p), in)
					if err != nil {
						return nil, fail(err)
					}
					return project, nil
				},
			},
			"projectDeletion": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := argID(p.Args, "id")
					if err != nil {
						return nil, fail(err)
					}
					ok, err := h.Projects.Delete(p.Context, actor(p), id)
					if err != nil {
						return nil, fail(err)
					}
					return ok, nil
				},
			},
			"sprintCreation": &graphql.Field{
				Type: t.sprint,
				Args: graphql.FieldConfigArgument{
					"title":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"status":    &graphql.ArgumentConfig{Type: graphql.String},
					"startDate": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.DateTime)},
					"endDate":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.DateTime)},
					"projectId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					projectID, err := argID(p.Args, "projectId")
					if err != nil {
						return nil, fail(err)
					}
					sprint, err := h.Sprints.Create(p.Context, actor(p), sprintsvc.CreateInput{
						Title:     argString(p.Args, "title"),
						Status:    argString(p.Args, "status"),
						StartDate: argTime(p.Args, "startDate"),
						EndDate:   argTime(p.Args, "endDate"),
						Project:   projectID,
					})
					if err != nil {
						return nil, fail(err)
					}
					return sprint, nil
				},
			},
			"sprintUpdate": &graphql.Field{
				Type: t.sprint,
				Args: graphql.FieldConfigArgument{
					"id":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"title":     &graphql.ArgumentConfig{Type: graphql.String},
					"status":    &graphql.ArgumentConfig{Type: graphql.String},
					"startDate": &graphql.ArgumentConfig{Type: graphql.DateTime},
					"endDate":   &graphql.ArgumentConfig{Type: graphql.DateTime},
					"tasks":     &graphql.ArgumentConfig{Type: graphql.NewList(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := argID(p.Args, "id")
					if err != nil {
						return nil, fail(err)
					}
					in := sprintsvc.UpdateInput{
						ID:        id,
						Title:     optString(p.Args, "title"),
						Status:    optString(p.Args, "status"),
						StartDate: optTime(p.Args, "startDate"),
						EndDate:   optTime(p.Args, "endDate"),
					}
					if raw, ok := p.Args["tasks"]; ok && raw != nil {
						ids, err := argIDs(p.Args, "tasks")
						if err != nil {
							return nil, fail(err)
						}
						in.Tasks = &ids
					}
					sprint, err := h.Sprints.Update(p.Context, actor(p), in)
					if err != nil {
						return nil, fail(err)
					}
					return sprint, nil
				},
			},
			"sprintDeletion": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := argID(p.Args, "id")
					if err != nil {
						return nil, fail(err)
					}
					ok, err := h.Sprints.Delete(p.Context, actor(p), id)
					if err != nil {
						return nil, fail(err)
					}
					return ok, nil
				},
			},
			"taskCreation": &graphql.Field{
				Type: t.task,
				Args: graphql.FieldConfigArgument{
					"title":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
					"status":      &graphql.ArgumentConfig{Type: graphql.String},
					"projectId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"sprintId":    &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					projectID, err := argID(p.Args, "projectId")
					if err != nil {
						return nil, fail(err)
					}
					sprintID, err := optID(p.Args, "sprintId")
					if err != nil {
						return nil, fail(err)
					}
					task, err := h.Tasks.Create(p.Context, actor(p), tasksvc.CreateInput{
						Title:       argString(p.Args, "title"),
						Description: argString(p.Args, "description"),
						Status:      argString(p.Args, "status"),
						Project:     projectID,
						Sprint:      sprintID,
					})
					if err != nil {
						return nil, fail(err)
					}
					return task, nil
				},
			},
			"taskUpdate": &graphql.Field{
				Type: t.task,
				Args: graphql.FieldConfigArgument{
					"id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"title":       &graphql.ArgumentConfig{Type: graphql.String},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
					"sprintId":    &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := argID(p.Args, "id")
					if err != nil {
						return nil, fail(err)
					}
					sprintPatch, err := optIDPatch(p.Args, "sprintId")
					if err != nil {
						return nil, fail(err)
					}
					task, err := h.Tasks.Update(p.Context, actor(p), tasksvc.UpdateInput{
						ID:          id,
						Title:       optString(p.Args, "title"),
						Description: optString(p.Args, "description"),
						Sprint:      sprintPatch,
					})
					if err != nil {
						return nil, fail(err)
					}
					return task, nil
				},
			},
			"taskStatusUpdate": &graphql.Field{
				Type: t.task,
				Args: graphql.FieldConfigArgument{
					"id":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := argID(p.Args, "id")
					if err != nil {
						return nil, fail(err)
					}
					task, err := h.Tasks.UpdateStatus(p.Context, actor(p), id, argString(p.Args, "status"))
					if err != nil {
						return nil, fail(err)
					}
					return task, nil
				},
			},
			"taskDeletion": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := argID(p.Args, "id")
					if err != nil {
						return nil, fail(err)
					}
					ok, err := h.Tasks.Delete(p.Context, actor(p), id)
					if err != nil {
						return nil, fail(err)
					}
					return ok, nil
				},
			},
			"tasksSprintAddition": &graphql.Field{
				Type: t.sprint,
				Args: graphql.FieldConfigArgument{
					"sprintId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"taskIds":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sprintID, err := argID(p.Args, "sprintId")
					if err != nil {
						return nil, fail(err)
					}
					taskIDs, err := argIDs(p.Args, "taskIds")
					if err != nil {
						return nil, fail(err)
					}
					sprint, err := h.Tasks.AddToSprint(p.Context, actor(p), sprintID, taskIDs)
					if err != nil {
						return nil, fail(err)
					}
					return sprint, nil
				},
			},
			"taskSprintDeletion": &graphql.Field{
				Type: t.task,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := argID(p.Args, "id")
					if err != nil {
						return nil, fail(err)
					}
					task, err := h.Tasks.RemoveFromSprint(p.Context, actor(p), id)
					if err != nil {
						return nil, fail(err)
					}
					return task, nil
				},
			},
			"repositoryIssueCreation": &graphql.Field{
				Type: graphql.Int,
				Args: graphql.FieldConfigArgument{
					"projectId":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"repository": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"title":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"body":       &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					projectID, err := argID(p.Args, "projectId")
					if err != nil {
						return nil, fail(err)
					}
					number, err := h.Repos.CreateIssue(p.Context, actor(p), repossvc.IssueInput{
						Project:      projectID,
						RepoFullName: argString(p.Args, "repository"),
						Title:        argString(p.Args, "title"),
						Body:         argString(p.Args, "body"),
					})
					if err != nil {
						return nil, fail(err)
					}
					return number, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
