// Package backrefs keeps the denormalized back-reference sets on
// parent documents in step with their children's parent pointers.
//
// Every operation here runs strictly after the primary entity write
// and uses set-semantics updates ($addToSet / $pull), so each step is
// idempotent and concurrent applications converge. There is no
// cross-document transaction: a failure partway through leaves the
// store transiently inconsistent and is logged as an integrity
// warning, never retried or rolled back, and never surfaced to the
// caller whose primary write already succeeded.
package backrefs

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/wedevhq/wedev/internal/domain/models"
)

// UserRefs is the slice of the user store the coordinator needs.
type UserRefs interface {
	AddClient(ctx context.Context, userID, clientID primitive.ObjectID) error
	AddProject(ctx context.Context, userID, projectID primitive.ObjectID) error
}

// ClientRefs is the slice of the client store the coordinator needs.
type ClientRefs interface {
	AddProject(ctx context.Context, clientID, projectID primitive.ObjectID) error
}

// ProjectRefs is the slice of the project store the coordinator needs.
type ProjectRefs interface {
	AddTask(ctx context.Context, projectID, taskID primitive.ObjectID) error
	RemoveTask(ctx context.Context, projectID, taskID primitive.ObjectID) error
	AddSprint(ctx context.Context, projectID, sprintID primitive.ObjectID) error
	RemoveSprint(ctx context.Context, projectID, sprintID primitive.ObjectID) error
	SoftDeleteByClient(ctx context.Context, clientID primitive.ObjectID) error
}

// SprintRefs is the slice of the sprint store the coordinator needs.
type SprintRefs interface {
	AddTask(ctx context.Context, sprintID, taskID primitive.ObjectID) error
	AddTasks(ctx context.Context, sprintID primitive.ObjectID, taskIDs []primitive.ObjectID) error
	RemoveTask(ctx context.Context, sprintID, taskID primitive.ObjectID) error
}

// TaskRefs is the slice of the task store the coordinator needs.
type TaskRefs interface {
	ClearSprint(ctx context.Context, taskID primitive.ObjectID) error
	SetSprintMany(ctx context.Context, taskIDs []primitive.ObjectID, sprintID primitive.ObjectID) error
	DetachAllFromSprint(ctx context.Context, sprintID primitive.ObjectID) error
}

// Coordinator applies the back-reference updates implied by entity
// lifecycle events.
type Coordinator struct {
	users    UserRefs
	clients  ClientRefs
	projects ProjectRefs
	sprints  SprintRefs
	tasks    TaskRefs
	logger   *zap.Logger
}

// New wires a coordinator over the given store slices.
func New(users UserRefs, clients ClientRefs, projects ProjectRefs, sprints SprintRefs, tasks TaskRefs, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		users:    users,
		clients:  clients,
		projects: projects,
		sprints:  sprints,
		tasks:    tasks,
		logger:   logger,
	}
}

func (c *Coordinator) warn(step string, err error, fields ...zap.Field) {
	if err == nil {
		return
	}
	fields = append(fields, zap.String("step", step), zap.Error(err))
	c.logger.Warn("integrity: back-reference update failed", fields...)
}

// ClientCreated registers the new client in its owner's index.
func (c *Coordinator) ClientCreated(ctx context.Context, userID, clientID primitive.ObjectID) {
	c.warn("user.addClient", c.users.AddClient(ctx, userID, clientID),
		zap.Stringer("user", userID), zap.Stringer("client", clientID))
}

// ProjectCreated registers the new project on its client and in its
// owner's index.
func (c *Coordinator) ProjectCreated(ctx context.Context, p models.Project) {
	if !p.Client.IsZero() {
		c.warn("client.addProject", c.clients.AddProject(ctx, p.Client, p.ID),
			zap.Stringer("client", p.Client), zap.Stringer("project", p.ID))
	}
	c.warn("user.addProject", c.users.AddProject(ctx, p.User, p.ID),
		zap.Stringer("user", p.User), zap.Stringer("project", p.ID))
}

// SprintCreated registers the new sprint on its project.
func (c *Coordinator) SprintCreated(ctx context.Context, sp models.Sprint) {
	c.warn("project.addSprint", c.projects.AddSprint(ctx, sp.Project, sp.ID),
		zap.Stringer("project", sp.Project), zap.Stringer("sprint", sp.ID))
}

// TaskCreated registers the new task on its project, and on its sprint
// when it was created pre-scheduled.
func (c *Coordinator) TaskCreated(ctx context.Context, t models.Task) {
	c.warn("project.addTask", c.projects.AddTask(ctx, t.Project, t.ID),
		zap.Stringer("project", t.Project), zap.Stringer("task", t.ID))
	if t.Sprint != nil {
		c.warn("sprint.addTask", c.sprints.AddTask(ctx, *t.Sprint, t.ID),
			zap.Stringer("sprint", *t.Sprint), zap.Stringer("task", t.ID))
	}
}

// TaskSprintChanged reconciles sprint membership after a task's sprint
// pointer moved from oldSprint to newSprint (either may be nil).
func (c *Coordinator) TaskSprintChanged(ctx context.Context, taskID primitive.ObjectID, oldSprint, newSprint *primitive.ObjectID) {
	same := oldSprint != nil && newSprint != nil && *oldSprint == *newSprint
	if same {
		return
	}
	if oldSprint != nil {
		c.warn("sprint.removeTask", c.sprints.RemoveTask(ctx, *oldSprint, taskID),
			zap.Stringer("sprint", *oldSprint), zap.Stringer("task", taskID))
	}
	if newSprint != nil {
		c.warn("sprint.addTask", c.sprints.AddTask(ctx, *newSprint, taskID),
			zap.Stringer("sprint", *newSprint), zap.Stringer("task", taskID))
	}
}

// SprintTasksRewritten detaches every task that was in the sprint but
// is absent from the rewritten list. The rewritten list is the source
// of truth; dropped tasks become unscheduled, not deleted.
func (c *Coordinator) SprintTasksRewritten(ctx context.Context, oldTasks, newTasks []primitive.ObjectID) {
	keep := make(map[primitive.ObjectID]struct{}, len(newTasks))
	for _, id := range newTasks {
		keep[id] = struct{}{}
	}
	for _, id := range oldTasks {
		if _, ok := keep[id]; ok {
			continue
		}
		c.warn("task.clearSprint", c.tasks.ClearSprint(ctx, id), zap.Stringer("task", id))
	}
}

// TasksScheduled points every task at the sprint and registers them in
// its set, pulling each task out of whatever sprint it was in first so
// no stale membership remains.
func (c *Coordinator) TasksScheduled(ctx context.Context, sprint models.Sprint, tasks []models.Task) {
	ids := make([]primitive.ObjectID, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
		if t.Sprint != nil && *t.Sprint != sprint.ID {
			c.warn("sprint.removeTask", c.sprints.RemoveTask(ctx, *t.Sprint, t.ID),
				zap.Stringer("sprint", *t.Sprint), zap.Stringer("task", t.ID))
		}
	}
	if len(ids) == 0 {
		return
	}
	c.warn("sprint.addTasks", c.sprints.AddTasks(ctx, sprint.ID, ids), zap.Stringer("sprint", sprint.ID))
	c.warn("tasks.setSprint", c.tasks.SetSprintMany(ctx, ids, sprint.ID), zap.Stringer("sprint", sprint.ID))
}

// SprintDeleting clears membership before the sprint document goes
// away: every member task is detached and the project's sprint set is
// pruned.
func (c *Coordinator) SprintDeleting(ctx context.Context, sp models.Sprint) {
	c.warn("tasks.detachAll", c.tasks.DetachAllFromSprint(ctx, sp.ID), zap.Stringer("sprint", sp.ID))
	c.warn("project.removeSprint", c.projects.RemoveSprint(ctx, sp.Project, sp.ID),
		zap.Stringer("project", sp.Project), zap.Stringer("sprint", sp.ID))
}

// TaskDeleting prunes the task from its sprint and project sets before
// the task document goes away.
func (c *Coordinator) TaskDeleting(ctx context.Context, t models.Task) {
	if t.Sprint != nil {
		c.warn("sprint.removeTask", c.sprints.RemoveTask(ctx, *t.Sprint, t.ID),
			zap.Stringer("sprint", *t.Sprint), zap.Stringer("task", t.ID))
	}
	c.warn("project.removeTask", c.projects.RemoveTask(ctx, t.Project, t.ID),
		zap.Stringer("project", t.Project), zap.Stringer("task", t.ID))
}

// ClientSoftDeleted cascades the soft delete to the client's projects.
func (c *Coordinator) ClientSoftDeleted(ctx context.Context, clientID primitive.ObjectID) {
	c.warn("projects.softDeleteByClient", c.projects.SoftDeleteByClient(ctx, clientID),
		zap.Stringer("client", clientID))
}
