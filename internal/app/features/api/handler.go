// internal/app/features/api/handler.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"github.com/wedevhq/wedev/internal/app/services/clientsvc"
	"github.com/wedevhq/wedev/internal/app/services/metricsvc"
	"github.com/wedevhq/wedev/internal/app/services/projectsvc"
	"github.com/wedevhq/wedev/internal/app/services/repossvc"
	"github.com/wedevhq/wedev/internal/app/services/sprintsvc"
	"github.com/wedevhq/wedev/internal/app/services/tasksvc"
	"github.com/wedevhq/wedev/internal/app/services/usersvc"
)

// Handler executes GraphQL requests against the services.
type Handler struct {
	Users    *usersvc.Service
	Clients  *clientsvc.Service
	Projects *projectsvc.Service
	Sprints  *sprintsvc.Service
	Tasks    *tasksvc.Service
	Metrics  *metricsvc.Service
	Repos    *repossvc.Service
	Log      *zap.Logger

	schema graphql.Schema
}

// New wires the handler and compiles the schema.
func New(h *Handler) (*Handler, error) {
	schema, err := h.buildSchema()
	if err != nil {
		return nil, err
	}
	h.schema = schema
	return h, nil
}

// Schema exposes the compiled schema, mainly for tests.
func (h *Handler) Schema() graphql.Schema {
	return h.schema
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// ServeHTTP handles a POST /graphql request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"errors":[{"message":"malformed request body"}]}`, http.StatusBadRequest)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.Log.Warn("api: writing response failed", zap.Error(err))
	}
}
