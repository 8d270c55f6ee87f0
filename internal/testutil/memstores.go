// internal/testutil/memstores.go
//
// In-memory stand-ins for the Mongo stores. They mirror the stores'
// method sets and semantics (set-valued back-reference arrays, soft
// deletes, mongo.ErrNoDocuments on miss) so services and the integrity
// coordinator can be exercised without a database.
package testutil

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	taskstore "github.com/wedevhq/wedev/internal/app/store/tasks"
	userstore "github.com/wedevhq/wedev/internal/app/store/users"
	"github.com/wedevhq/wedev/internal/app/system/normalize"
	"github.com/wedevhq/wedev/internal/domain/models"
)

func addToSet(set []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, existing := range set {
		if existing == id {
			return set
		}
	}
	return append(set, id)
}

func pull(set []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := set[:0]
	for _, existing := range set {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// MemUsers is an in-memory user store.
type MemUsers struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.User
}

func NewMemUsers() *MemUsers {
	return &MemUsers{byID: map[primitive.ObjectID]models.User{}}
}

// Seed inserts a user as-is, assigning an id when missing.
func (m *MemUsers) Seed(u models.User) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Clients == nil {
		u.Clients = []primitive.ObjectID{}
	}
	if u.Projects == nil {
		u.Projects = []primitive.ObjectID{}
	}
	m.byID[u.ID] = u
	return u
}

func (m *MemUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &u, nil
}

func (m *MemUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = normalize.Email(email)
	for _, u := range m.byID {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *MemUsers) Create(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = normalize.Email(u.Email)
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return models.User{}, userstore.ErrDuplicateEmail
		}
	}
	u.ID = primitive.NewObjectID()
	u.Clients = []primitive.ObjectID{}
	u.Projects = []primitive.ObjectID{}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.byID[u.ID] = u
	return u, nil
}

func (m *MemUsers) Update(_ context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.Company != nil {
		u.Company = *patch.Company
	}
	if patch.Siret != nil {
		u.Siret = *patch.Siret
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.CompanyStatus != nil {
		u.CompanyStatus = *patch.CompanyStatus
	}
	if patch.ProfessionalStatus != nil {
		u.ProfessionalStatus = *patch.ProfessionalStatus
	}
	if patch.GithubToken != nil {
		u.GithubToken = *patch.GithubToken
	}
	if patch.GithubLogin != nil {
		u.GithubLogin = *patch.GithubLogin
	}
	u.UpdatedAt = time.Now().UTC()
	m.byID[id] = u
	return &u, nil
}

func (m *MemUsers) Deactivate(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.IsDeactivated = true
	m.byID[id] = u
	return nil
}

func (m *MemUsers) AddClient(_ context.Context, userID, clientID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.Clients = addToSet(u.Clients, clientID)
	m.byID[userID] = u
	return nil
}

func (m *MemUsers) AddProject(_ context.Context, userID, projectID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.Projects = addToSet(u.Projects, projectID)
	m.byID[userID] = u
	return nil
}

// MemClients is an in-memory client store.
type MemClients struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Client
}

func NewMemClients() *MemClients {
	return &MemClients{byID: map[primitive.ObjectID]models.Client{}}
}

func (m *MemClients) Seed(c models.Client) models.Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Projects == nil {
		c.Projects = []primitive.ObjectID{}
	}
	m.byID[c.ID] = c
	return c
}

func (m *MemClients) GetByID(_ context.Context, id primitive.ObjectID) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &c, nil
}

func (m *MemClients) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Client
	for _, c := range m.byID {
		if c.User == userID && !c.IsDeleted {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MemClients) Create(_ context.Context, c models.Client) (models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = primitive.NewObjectID()
	c.Projects = []primitive.ObjectID{}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	m.byID[c.ID] = c
	return c, nil
}

func (m *MemClients) Update(_ context.Context, id primitive.ObjectID, patch models.ClientPatch) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if patch.CorporateName != nil {
		c.CorporateName = *patch.CorporateName
	}
	if patch.Contact != nil {
		c.Contact = *patch.Contact
	}
	if patch.Address != nil {
		c.Address = patch.Address
	}
	c.UpdatedAt = time.Now().UTC()
	m.byID[id] = c
	return &c, nil
}

func (m *MemClients) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	c.IsDeleted = true
	m.byID[id] = c
	return nil
}

func (m *MemClients) AddProject(_ context.Context, clientID, projectID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[clientID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	c.Projects = addToSet(c.Projects, projectID)
	m.byID[clientID] = c
	return nil
}

// MemProjects is an in-memory project store.
type MemProjects struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Project
}

func NewMemProjects() *MemProjects {
	return &MemProjects{byID: map[primitive.ObjectID]models.Project{}}
}

func (m *MemProjects) Seed(p models.Project) models.Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Stacks == nil {
		p.Stacks = []models.Stack{}
	}
	if p.Repositories == nil {
		p.Repositories = []models.Repository{}
	}
	if p.Tasks == nil {
		p.Tasks = []primitive.ObjectID{}
	}
	if p.Sprints == nil {
		p.Sprints = []primitive.ObjectID{}
	}
	m.byID[p.ID] = p
	return p
}

func (m *MemProjects) GetByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &p, nil
}

func (m *MemProjects) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Project
	for _, p := range m.byID {
		if p.User == userID && !p.IsDeleted {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemProjects) Create(_ context.Context, p models.Project) (models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	if p.Stacks == nil {
		p.Stacks = []models.Stack{}
	}
	if p.Repositories == nil {
		p.Repositories = []models.Repository{}
	}
	p.Tasks = []primitive.ObjectID{}
	p.Sprints = []primitive.ObjectID{}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	m.byID[p.ID] = p
	return p, nil
}

func (m *MemProjects) Update(_ context.Context, id primitive.ObjectID, patch models.ProjectPatch) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Quote != nil {
		p.Quote = *patch.Quote
	}
	if patch.HourlyRate != nil {
		p.HourlyRate = *patch.HourlyRate
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		p.EndDate = patch.EndDate
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Stacks != nil {
		p.Stacks = *patch.Stacks
	}
	if patch.Client != nil {
		p.Client = *patch.Client
	}
	if patch.Repositories != nil {
		p.Repositories = *patch.Repositories
	}
	p.UpdatedAt = time.Now().UTC()
	m.byID[id] = p
	return &p, nil
}

func (m *MemProjects) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	p.IsDeleted = true
	m.byID[id] = p
	return nil
}

func (m *MemProjects) SoftDeleteByClient(_ context.Context, clientID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.byID {
		if p.Client == clientID {
			p.IsDeleted = true
			m.byID[id] = p
		}
	}
	return nil
}

func (m *MemProjects) AddTask(_ context.Context, projectID, taskID primitive.ObjectID) error {
	return m.mutate(projectID, func(p *models.Project) { p.Tasks = addToSet(p.Tasks, taskID) })
}

func (m *MemProjects) RemoveTask(_ context.Context, projectID, taskID primitive.ObjectID) error {
	return m.mutate(projectID, func(p *models.Project) { p.Tasks = pull(p.Tasks, taskID) })
}

func (m *MemProjects) AddSprint(_ context.Context, projectID, sprintID primitive.ObjectID) error {
	return m.mutate(projectID, func(p *models.Project) { p.Sprints = addToSet(p.Sprints, sprintID) })
}

func (m *MemProjects) RemoveSprint(_ context.Context, projectID, sprintID primitive.ObjectID) error {
	return m.mutate(projectID, func(p *models.Project) { p.Sprints = pull(p.Sprints, sprintID) })
}

func (m *MemProjects) mutate(id primitive.ObjectID, fn func(*models.Project)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	fn(&p)
	m.byID[id] = p
	return nil
}

// MemSprints is an in-memory sprint store.
type MemSprints struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Sprint
}

func NewMemSprints() *MemSprints {
	return &MemSprints{byID: map[primitive.ObjectID]models.Sprint{}}
}

func (m *MemSprints) Seed(sp models.Sprint) models.Sprint {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sp.ID.IsZero() {
		sp.ID = primitive.NewObjectID()
	}
	if sp.Tasks == nil {
		sp.Tasks = []primitive.ObjectID{}
	}
	m.byID[sp.ID] = sp
	return sp
}

func (m *MemSprints) GetByID(_ context.Context, id primitive.ObjectID) (*models.Sprint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sp, ok := m.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &sp, nil
}

func (m *MemSprints) ListByProjects(_ context.Context, projectIDs []primitive.ObjectID) ([]models.Sprint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Sprint
	for _, sp := range m.byID {
		for _, pid := range projectIDs {
			if sp.Project == pid {
				out = append(out, sp)
				break
			}
		}
	}
	return out, nil
}

func (m *MemSprints) Create(_ context.Context, sp models.Sprint) (models.Sprint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sp.ID = primitive.NewObjectID()
	if sp.Tasks == nil {
		sp.Tasks = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	sp.CreatedAt = now
	sp.UpdatedAt = now
	m.byID[sp.ID] = sp
	return sp, nil
}

func (m *MemSprints) Update(_ context.Context, id primitive.ObjectID, patch models.SprintPatch) (*models.Sprint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sp, ok := m.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if patch.Title != nil {
		sp.Title = *patch.Title
	}
	if patch.Status != nil {
		sp.Status = *patch.Status
	}
	if patch.StartDate != nil {
		sp.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		sp.EndDate = *patch.EndDate
	}
	if patch.Tasks != nil {
		sp.Tasks = *patch.Tasks
	}
	sp.UpdatedAt = time.Now().UTC()
	m.byID[id] = sp
	return &sp, nil
}

func (m *MemSprints) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.byID, id)
	return nil
}

func (m *MemSprints) AddTask(_ context.Context, sprintID, taskID primitive.ObjectID) error {
	return m.mutate(sprintID, func(sp *models.Sprint) { sp.Tasks = addToSet(sp.Tasks, taskID) })
}

func (m *MemSprints) AddTasks(_ context.Context, sprintID primitive.ObjectID, taskIDs []primitive.ObjectID) error {
	return m.mutate(sprintID, func(sp *models.Sprint) {
		for _, id := range taskIDs {
			sp.Tasks = addToSet(sp.Tasks, id)
		}
	})
}

func (m *MemSprints) RemoveTask(_ context.Context, sprintID, taskID primitive.ObjectID) error {
	return m.mutate(sprintID, func(sp *models.Sprint) { sp.Tasks = pull(sp.Tasks, taskID) })
}

func (m *MemSprints) mutate(id primitive.ObjectID, fn func(*models.Sprint)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sp, ok := m.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	fn(&sp)
	m.byID[id] = sp
	return nil
}

// MemTasks is an in-memory task store.
type MemTasks struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Task
}

func NewMemTasks() *MemTasks {
	return &MemTasks{byID: map[primitive.ObjectID]models.Task{}}
}

func (m *MemTasks) Seed(t models.Task) models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	m.byID[t.ID] = t
	return t
}

func (m *MemTasks) GetByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &t, nil
}

func (m *MemTasks) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Task
	for _, id := range ids {
		if t, ok := m.byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MemTasks) List(_ context.Context, f taskstore.Filter) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inProjects := func(t models.Task) bool {
		for _, pid := range f.ProjectIDs {
			if t.Project == pid {
				return true
			}
		}
		return false
	}

	var out []models.Task
	for _, t := range m.byID {
		if !inProjects(t) {
			continue
		}
		if f.ExcludeWithSprint && t.Sprint != nil {
			continue
		}
		if f.SprintID != nil && !t.InSprint(*f.SprintID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *MemTasks) Create(_ context.Context, t models.Task) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	m.byID[t.ID] = t
	return t, nil
}

func (m *MemTasks) Update(_ context.Context, id primitive.ObjectID, patch models.TaskPatch) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.StartDate != nil {
		t.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		t.EndDate = *patch.EndDate
	}
	if patch.CompletionTime != nil {
		t.CompletionTime = *patch.CompletionTime
	}
	if patch.Sprint != nil {
		t.Sprint = *patch.Sprint
	}
	t.UpdatedAt = time.Now().UTC()
	m.byID[id] = t
	return &t, nil
}

func (m *MemTasks) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.byID, id)
	return nil
}

func (m *MemTasks) SetSprintMany(_ context.Context, taskIDs []primitive.ObjectID, sprintID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range taskIDs {
		if t, ok := m.byID[id]; ok {
			sp := sprintID
			t.Sprint = &sp
			m.byID[id] = t
		}
	}
	return nil
}

func (m *MemTasks) ClearSprint(_ context.Context, taskID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byID[taskID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	t.Sprint = nil
	m.byID[taskID] = t
	return nil
}

func (m *MemTasks) DetachAllFromSprint(_ context.Context, sprintID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.byID {
		if t.InSprint(sprintID) {
			t.Sprint = nil
			m.byID[id] = t
		}
	}
	return nil
}
