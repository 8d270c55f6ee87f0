// internal/app/features/api/types.go
package api

import (
	"github.com/graphql-go/graphql"

	"github.com/wedevhq/wedev/internal/domain/models"
)

// apiTypes holds the GraphQL object types the schema is assembled from.
type apiTypes struct {
	user        *graphql.Object
	authPayload *graphql.Object
	client      *graphql.Object
	project     *graphql.Object
	sprint      *graphql.Object
	task        *graphql.Object
	metrics     *graphql.Object
	repository  *graphql.Object

	contactInput    *graphql.InputObject
	addressInput    *graphql.InputObject
	stackInput      *graphql.InputObject
	repositoryInput *graphql.InputObject
}

func userFrom(source interface{}) *models.User {
	switch u := source.(type) {
	case models.User:
		return &u
	case *models.User:
		return u
	}
	return nil
}

func clientFrom(source interface{}) *models.Client {
	switch c := source.(type) {
	case models.Client:
		return &c
	case *models.Client:
		return c
	}
	return nil
}

func projectFrom(source interface{}) *models.Project {
	switch p := source.(type) {
	case models.Project:
		return &p
	case *models.Project:
		return p
	}
	return nil
}

func sprintFrom(source interface{}) *models.Sprint {
	switch sp := source.(type) {
	case models.Sprint:
		return &sp
	case *models.Sprint:
		return sp
	}
	return nil
}

func taskFrom(source interface{}) *models.Task {
	switch t := source.(type) {
	case models.Task:
		return &t
	case *models.Task:
		return t
	}
	return nil
}

// buildTypes wires the object types. Scalar fields resolve off the
// models' json tags; ids and derived fields get explicit resolvers.
func (h *Handler) buildTypes() *apiTypes {
	t := &apiTypes{}

	contact := graphql.NewObject(graphql.ObjectConfig{
		Name: "Contact",
		Fields: graphql.Fields{
			"lastName":  &graphql.Field{Type: graphql.String},
			"firstName": &graphql.Field{Type: graphql.String},
			"phone":     &graphql.Field{Type: graphql.String},
			"email":     &graphql.Field{Type: graphql.String},
		},
	})

	address := graphql.NewObject(graphql.ObjectConfig{
		Name: "Address",
		Fields: graphql.Fields{
			"street":                &graphql.Field{Type: graphql.String},
			"zipcode":               &graphql.Field{Type: graphql.String},
			"city":                  &graphql.Field{Type: graphql.String},
			"country":               &graphql.Field{Type: graphql.String},
			"additionalInformation": &graphql.Field{Type: graphql.String},
		},
	})

	stack := graphql.NewObject(graphql.ObjectConfig{
		Name: "Stack",
		Fields: graphql.Fields{
			"category":    &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
		},
	})

	t.repository = graphql.NewObject(graphql.ObjectConfig{
		Name: "Repository",
		Fields: graphql.Fields{
			"githubId":    &graphql.Field{Type: graphql.Int},
			"name":        &graphql.Field{Type: graphql.String},
			"fullName":    &graphql.Field{Type: graphql.String},
			"owner":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
		},
	})

	t.user = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.ID,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return userFrom(p.Source).ID.Hex(), nil
				},
			},
			"lastName":           &graphql.Field{Type: graphql.String},
			"firstName":          &graphql.Field{Type: graphql.String},
			"company":            &graphql.Field{Type: graphql.String},
			"siret":              &graphql.Field{Type: graphql.String},
			"email":              &graphql.Field{Type: graphql.String},
			"phone":              &graphql.Field{Type: graphql.String},
			"companyStatus":      &graphql.Field{Type: graphql.String},
			"professionalStatus": &graphql.Field{Type: graphql.String},
			"githubToken":        &graphql.Field{Type: graphql.String},
			"githubLogin":        &graphql.Field{Type: graphql.String},
			"isDeactivated":      &graphql.Field{Type: graphql.Boolean},
			"clients": &graphql.Field{
				Type: graphql.NewList(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return hexIDs(userFrom(p.Source).Clients), nil
				},
			},
			"projects": &graphql.Field{
				Type: graphql.NewList(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return hexIDs(userFrom(p.Source).Projects), nil
				},
			},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
			"updatedAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	t.authPayload = graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"token": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(authPayload).Token, nil
				},
			},
			"user": &graphql.Field{
				Type: t.user,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(authPayload).User, nil
				},
			},
		},
	})

	t.client = graphql.NewObject(graphql.ObjectConfig{
		Name: "Client",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.ID,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return clientFrom(p.Source).ID.Hex(), nil
				},
			},
			"corporateName": &graphql.Field{Type: graphql.String},
			"contact":       &graphql.Field{Type: contact},
			"address":       &graphql.Field{Type: address},
			"isDeleted":     &graphql.Field{Type: graphql.Boolean},
			"user": &graphql.Field{
				Type: graphql.ID,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return clientFrom(p.Source).User.Hex(), nil
				},
			},
			"projects": &graphql.Field{
				Type: graphql.NewList(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return hexIDs(clientFrom(p.Source).Projects), nil
				},
			},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
			"updatedAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	t.project = graphql.NewObject(graphql.ObjectConfig{
		Name: "Project",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.ID,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return projectFrom(p.Source).ID.Hex(), nil
				},
			},
			"title":        &graphql.Field{Type: graphql.String},
			"description":  &graphql.Field{Type: graphql.String},
			"quote":        &graphql.Field{Type: graphql.Float},
			"hourlyRate":   &graphql.Field{Type: graphql.Float},
			"startDate":    &graphql.Field{Type: graphql.DateTime},
			"endDate":      &graphql.Field{Type: graphql.DateTime},
			"status":       &graphql.Field{Type: graphql.String},
			"stacks":       &graphql.Field{Type: graphql.NewList(stack)},
			"repositories": &graphql.Field{Type: graphql.NewList(t.repository)},
			"isDeleted":    &graphql.Field{Type: graphql.Boolean},
			"client": &graphql.Field{
				Type: graphql.ID,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					proj := projectFrom(p.Source)
					if proj.Client.IsZero() {
						return nil, nil
					}
					return proj.Client.Hex(), nil
				},
			},
			"user": &graphql.Field{
				Type: graphql.ID,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return projectFrom(p.Source).User.Hex(), nil
				},
			},
			"tasks": &graphql.Field{
				Type: graphql.NewList(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return hexIDs(projectFrom(p.Source).Tasks), nil
				},
			},
			"sprints": &graphql.Field{
				Type: graphql.NewList(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return hexIDs(projectFrom(p.Source).Sprints), nil
				},
			},
			"price": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pricing, err := h.Projects.PricingFor(p.Context, projectFrom(p.Source))
					if err != nil {
						return nil, fail(err)
					}
					return pricing.Price, nil
				},
			},
			"diffQuotePrice": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pricing, err := h.Projects.PricingFor(p.Context, projectFrom(p.Source))
					if err != nil {
						return nil, fail(err)
					}
					return pricing.DiffQuotePrice, nil
				},
			},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
			"updatedAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	t.sprint = graphql.NewObject(graphql.ObjectConfig{
		Name: "Sprint",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.ID,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return sprintFrom(p.Source).ID.Hex(), nil
				},
			},
			"title":     &graphql.Field{Type: graphql.String},
			"status":    &graphql.Field{Type: graphql.String},
			"startDate": &graphql.Field{Type: graphql.DateTime},
			"endDate":   &graphql.Field{Type: graphql.DateTime},
			"project": &graphql.Field{
				Type: graphql.ID,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return sprintFrom(p.Source).Project.Hex(), nil
				},
			},
			"tasks": &graphql.Field{
				Type: graphql.NewList(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return hexIDs(sprintFrom(p.Source).Tasks), nil
				},
			},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
			"updatedAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	t.task = graphql.NewObject(graphql.ObjectConfig{
		Name: "Task",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.ID,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return taskFrom(p.Source).ID.Hex(), nil
				},
			},
			"title":          &graphql.Field{Type: graphql.String},
			"description":    &graphql.Field{Type: graphql.String},
			"status":         &graphql.Field{Type: graphql.String},
			"startDate":      &graphql.Field{Type: graphql.DateTime},
			"endDate":        &graphql.Field{Type: graphql.DateTime},
			"completionTime": &graphql.Field{Type: graphql.Float},
			"project": &graphql.Field{
				Type: graphql.ID,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return taskFrom(p.Source).Project.Hex(), nil
				},
			},
			"sprint": &graphql.Field{
				Type: graphql.ID,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					task := taskFrom(p.Source)
					if task.Sprint == nil {
						return nil, nil
					}
					return task.Sprint.Hex(), nil
				},
			},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
			"updatedAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	t.metrics = graphql.NewObject(graphql.ObjectConfig{
		Name: "Metrics",
		Fields: graphql.Fields{
			"totalFinishedProjects": &graphql.Field{Type: graphql.Int},
			"totalWIPProjects":      &graphql.Field{Type: graphql.Int},
			"totalRevenues":         &graphql.Field{Type: graphql.Float},
			"averageHourlyRate":     &graphql.Field{Type: graphql.Float},
		},
	})

	t.contactInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ContactInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"lastName":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"firstName": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"phone":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"email":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	t.addressInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "AddressInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"street":                &graphql.InputObjectFieldConfig{Type: graphql.String},
			"zipcode":               &graphql.InputObjectFieldConfig{Type: graphql.String},
			"city":                  &graphql.InputObjectFieldConfig{Type: graphql.String},
			"country":               &graphql.InputObjectFieldConfig{Type: graphql.String},
			"additionalInformation": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	t.stackInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "StackInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"category":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"name":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	t.repositoryInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "RepositoryInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"githubId":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
			"name":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"fullName":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"owner":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	return t
}

// contactArg decodes a ContactInput value.
func contactArg(raw interface{}) models.Contact {
	m, _ := raw.(map[string]interface{})
	var c models.Contact
	if s, ok := m["lastName"].(string); ok {
		c.LastName = s
	}
	if s, ok := m["firstName"].(string); ok {
		c.FirstName = s
	}
	if s, ok := m["phone"].(string); ok {
		c.Phone = s
	}
	if s, ok := m["email"].(string); ok {
		c.Email = s
	}
	return c
}

// addressArg decodes an AddressInput value; nil stays nil.
func addressArg(raw interface{}) *models.Address {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	var a models.Address
	if s, ok := m["street"].(string); ok {
		a.Street = s
	}
	if s, ok := m["zipcode"].(string); ok {
		a.Zipcode = s
	}
	if s, ok := m["city"].(string); ok {
		a.City = s
	}
	if s, ok := m["country"].(string); ok {
		a.Country = s
	}
	if s, ok := m["additionalInformation"].(string); ok {
		a.AdditionalInformation = s
	}
	return &a
}

// stacksArg decodes a list of StackInput values.
func stacksArg(raw interface{}) []models.Stack {
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]models.Stack, 0, len(items))
	for _, item := range items {
		m, _ := item.(map[string]interface{})
		var st models.Stack
		if s, ok := m["category"].(string); ok {
			st.Category = s
		}
		if s, ok := m["name"].(string); ok {
			st.Name = s
		}
		if s, ok := m["description"].(string); ok {
			st.Description = s
		}
		out = append(out, st)
	}
	return out
}

// reposArg decodes a list of RepositoryInput values.
func reposArg(raw interface{}) []models.Repository {
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]models.Repository, 0, len(items))
	for _, item := range items {
		m, _ := item.(map[string]interface{})
		var r models.Repository
		if n, ok := m["githubId"].(int); ok {
			r.GithubID = int64(n)
		}
		if s, ok := m["name"].(string); ok {
			r.Name = s
		}
		if s, ok := m["fullName"].(string); ok {
			r.FullName = s
		}
		if s, ok := m["owner"].(string); ok {
			r.Owner = s
		}
		if s, ok := m["description"].(string); ok {
			r.Description = s
		}
		out = append(out, r)
	}
	return out
}
