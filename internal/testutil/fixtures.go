// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/wedevhq/wedev/internal/app/system/backrefs"
	"github.com/wedevhq/wedev/internal/domain/models"
)

// World bundles the in-memory stores with an integrity coordinator
// wired over them, which is how the services see them in production.
type World struct {
	Users    *MemUsers
	Clients  *MemClients
	Projects *MemProjects
	Sprints  *MemSprints
	Tasks    *MemTasks
	Refs     *backrefs.Coordinator
}

// NewWorld builds a fresh in-memory world for one test.
func NewWorld(t *testing.T) *World {
	t.Helper()
	w := &World{
		Users:    NewMemUsers(),
		Clients:  NewMemClients(),
		Projects: NewMemProjects(),
		Sprints:  NewMemSprints(),
		Tasks:    NewMemTasks(),
	}
	w.Refs = backrefs.New(w.Users, w.Clients, w.Projects, w.Sprints, w.Tasks, zap.NewNop())
	return w
}

// SeedUser stores a ready-to-use active account.
func (w *World) SeedUser(t *testing.T) models.User {
	t.Helper()
	return w.Users.Seed(models.User{
		LastName:  "Doe",
		FirstName: "Jane",
		Email:     "jane@example.com",
		Password:  "$2a$10$placeholderplaceholderplaceholderplaceh",
	})
}

// SeedClient stores a client owned by the user and indexes it on the
// owner, like a completed clientCreation would.
func (w *World) SeedClient(t *testing.T, owner models.User) models.Client {
	t.Helper()
	c := w.Clients.Seed(models.Client{
		CorporateName: "ACME SARL",
		Contact:       models.Contact{LastName: "Martin", FirstName: "Paul", Email: "paul@acme.example"},
		User:          owner.ID,
	})
	if err := w.Users.AddClient(context.Background(), owner.ID, c.ID); err != nil {
		t.Fatalf("seed client backref: %v", err)
	}
	return c
}

// SeedProject stores a project owned by the user, attached to the
// client when clientID is non-zero, with all back-references in place.
func (w *World) SeedProject(t *testing.T, owner models.User, clientID primitive.ObjectID) models.Project {
	t.Helper()
	p := w.Projects.Seed(models.Project{
		Title:      "Site vitrine",
		HourlyRate: 60,
		StartDate:  time.Now().UTC(),
		Status:     models.StatusInProgress,
		Client:     clientID,
		User:       owner.ID,
	})
	if err := w.Users.AddProject(context.Background(), owner.ID, p.ID); err != nil {
		t.Fatalf("seed project backref: %v", err)
	}
	if !clientID.IsZero() {
		if err := w.Clients.AddProject(context.Background(), clientID, p.ID); err != nil {
			t.Fatalf("seed project client backref: %v", err)
		}
	}
	return p
}

// SeedSprint stores a sprint on the project with its back-reference.
func (w *World) SeedSprint(t *testing.T, project models.Project) models.Sprint {
	t.Helper()
	now := time.Now().UTC()
	sp := w.Sprints.Seed(models.Sprint{
		Title:     "Sprint 1",
		Status:    models.StatusNotStarted,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 14),
		Project:   project.ID,
	})
	if err := w.Projects.AddSprint(context.Background(), project.ID, sp.ID); err != nil {
		t.Fatalf("seed sprint backref: %v", err)
	}
	return sp
}

// SeedTask stores an unscheduled task on the project with its
// back-reference.
func (w *World) SeedTask(t *testing.T, project models.Project) models.Task {
	t.Helper()
	task := w.Tasks.Seed(models.Task{
		Title:   "Maquette",
		Status:  models.StatusNotStarted,
		Project: project.ID,
	})
	if err := w.Projects.AddTask(context.Background(), project.ID, task.ID); err != nil {
		t.Fatalf("seed task backref: %v", err)
	}
	return task
}

// Owner reloads the user so tests see back-reference updates.
func (w *World) Owner(t *testing.T, id primitive.ObjectID) *models.User {
	t.Helper()
	u, err := w.Users.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return u
}
