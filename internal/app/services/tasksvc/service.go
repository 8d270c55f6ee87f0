// Package tasksvc implements task management: CRUD, sprint scheduling,
// and the timing side effects of status transitions. Moving a task to
// in_progress stamps its start date; moving it to done stamps its end
// date and derives the completion time the billing figures sum over.
package tasksvc

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wedevhq/wedev/internal/app/policy/ownership"
	taskstore "github.com/wedevhq/wedev/internal/app/store/tasks"
	"github.com/wedevhq/wedev/internal/app/system/backrefs"
	"github.com/wedevhq/wedev/internal/app/system/htmlsanitize"
	"github.com/wedevhq/wedev/internal/app/system/inputval"
	"github.com/wedevhq/wedev/internal/domain/apperr"
	"github.com/wedevhq/wedev/internal/domain/models"
)

// TaskStore is the persistence surface the service needs.
type TaskStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Task, error)
	List(ctx context.Context, f taskstore.Filter) ([]models.Task, error)
	Create(ctx context.Context, t models.Task) (models.Task, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SprintReader loads sprints for scheduling validation.
type SprintReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Sprint, error)
}

// Service handles task operations.
type Service struct {
	store   TaskStore
	sprints SprintReader
	refs    *backrefs.Coordinator
}

// New wires a task service.
func New(store TaskStore, sprints SprintReader, refs *backrefs.Coordinator) *Service {
	return &Service{store: store, sprints: sprints, refs: refs}
}

// CreateInput is the payload for opening a task on a project,
// optionally pre-scheduled into one of the project's sprints.
type CreateInput struct {
	Title       string
	Description string
	Status      string
	Project     primitive.ObjectID
	Sprint      *primitive.ObjectID
}

func (in CreateInput) validate() error {
	var errs []inputval.FieldError
	errs = inputval.Required(errs, "title", in.Title)
	errs = inputval.OneOf(errs, "status", in.Status, models.ProgressStatuses)
	if len(errs) > 0 {
		return apperr.Validation(errs[0].Field, errs[0].Msg)
	}
	return nil
}

// Create opens a task on a project the actor owns and indexes it on
// the project, and on the sprint when pre-scheduled.
func (s *Service) Create(ctx context.Context, actor *models.User, in CreateInput) (*models.Task, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if !ownership.CanManageProject(actor, in.Project) {
		return nil, apperr.Unauthorized()
	}
	if in.Sprint != nil {
		if err := s.checkSprintProject(ctx, *in.Sprint, in.Project); err != nil {
			return nil, err
		}
	}

	status := in.Status
	if status == "" {
		status = models.StatusNotStarted
	}

	task, err := s.store.Create(ctx, models.Task{
		Title:       in.Title,
		Description: htmlsanitize.Sanitize(in.Description),
		Status:      status,
		Project:     in.Project,
		Sprint:      in.Sprint,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.refs.TaskCreated(ctx, task)
	return &task, nil
}

// UpdateInput is the payload for a partial task update. Sprint follows
// the patch convention: nil leaves scheduling alone, a pointer to nil
// detaches the task, a pointer to an id moves it.
type UpdateInput struct {
	ID          primitive.ObjectID
	Title       *string
	Description *string
	Sprint      **primitive.ObjectID
}

func (in UpdateInput) validate() error {
	if in.Title != nil && *in.Title == "" {
		return apperr.Validation("title", "cannot be blank")
	}
	return nil
}

// Update applies a partial update to a task on a project the actor
// owns. Sprint moves are reconciled on both sprints' membership sets;
// a sprint from another project is rejected.
func (s *Service) Update(ctx context.Context, actor *models.User, in UpdateInput) (*models.Task, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	current, err := s.load(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if !ownership.CanManageProject(actor, current.Project) {
		return nil, apperr.Unauthorized()
	}

	if in.Sprint != nil && *in.Sprint != nil {
		if err := s.checkSprintProject(ctx, **in.Sprint, current.Project); err != nil {
			return nil, err
		}
	}

	patch := models.TaskPatch{
		Title:  in.Title,
		Sprint: in.Sprint,
	}
	if in.Description != nil {
		clean := htmlsanitize.Sanitize(*in.Description)
		patch.Description = &clean
	}

	task, err := s.store.Update(ctx, in.ID, patch)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("task")
		}
		return nil, apperr.Internal(err)
	}

	if in.Sprint != nil {
		s.refs.TaskSprintChanged(ctx, task.ID, current.Sprint, *in.Sprint)
	}
	return task, nil
}

// UpdateStatus moves a task through its lifecycle and applies the
// timing side effects:
//
//	in_progress  stamps StartDate only when coming from not_started
//	             (reopening a done task keeps the original start),
//	             and clears any previous EndDate and completion time
//	done         stamps EndDate and derives CompletionTime from the
//	             start date
//	not_started  clears both dates and the completion time
func (s *Service) UpdateStatus(ctx context.Context, actor *models.User, id primitive.ObjectID, status string) (*models.Task, error) {
	if !models.IsValidProgressStatus(status) {
		return nil, apperr.Validation("status", "is not a known status")
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ownership.CanManageProject(actor, current.Project) {
		return nil, apperr.Unauthorized()
	}

	now := time.Now().UTC()
	patch := models.TaskPatch{Status: &status}
	var unsetTime *time.Time
	zero := int64(0)

	switch status {
	case models.StatusInProgress:
		if current.Status == models.StatusNotStarted {
			start := &now
			patch.StartDate = &start
		}
		patch.EndDate = &unsetTime
		patch.CompletionTime = &zero
	case models.StatusDone:
		end := &now
		patch.EndDate = &end
		if current.StartDate != nil {
			elapsed := now.Sub(*current.StartDate).Milliseconds()
			patch.CompletionTime = &elapsed
		}
	case models.StatusNotStarted:
		patch.StartDate = &unsetTime
		patch.EndDate = &unsetTime
		patch.CompletionTime = &zero
	}

	task, err := s.store.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("task")
		}
		return nil, apperr.Internal(err)
	}
	return task, nil
}

// Delete removes a task after pruning it from its project and sprint.
func (s *Service) Delete(ctx context.Context, actor *models.User, id primitive.ObjectID) (bool, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return false, err
	}
	if !ownership.CanManageProject(actor, task.Project) {
		return false, apperr.Unauthorized()
	}

	s.refs.TaskDeleting(ctx, *task)
	if err := s.store.Delete(ctx, id); err != nil {
		return false, apperr.Internal(err)
	}
	return true, nil
}

// RemoveFromSprint detaches a task from its sprint; the task survives
// as unscheduled work.
func (s *Service) RemoveFromSprint(ctx context.Context, actor *models.User, id primitive.ObjectID) (*models.Task, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ownership.CanManageProject(actor, current.Project) {
		return nil, apperr.Unauthorized()
	}
	if current.Sprint == nil {
		return current, nil
	}

	var detached *primitive.ObjectID
	task, err := s.store.Update(ctx, id, models.TaskPatch{Sprint: &detached})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.refs.TaskSprintChanged(ctx, id, current.Sprint, nil)
	return task, nil
}

// AddToSprint schedules a batch of tasks into a sprint on a project
// the actor owns. Tasks already in another sprint are moved, and tasks
// from another project are rejected.
func (s *Service) AddToSprint(ctx context.Context, actor *models.User, sprintID primitive.ObjectID, taskIDs []primitive.ObjectID) (*models.Sprint, error) {
	sprint, err := s.sprints.GetByID(ctx, sprintID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("sprint")
		}
		return nil, apperr.Internal(err)
	}
	if !ownership.CanManageProject(actor, sprint.Project) {
		return nil, apperr.Unauthorized()
	}

	tasks, err := s.store.GetByIDs(ctx, taskIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(tasks) != len(taskIDs) {
		return nil, apperr.NotFound("task")
	}
	for _, t := range tasks {
		if t.Project != sprint.Project {
			return nil, apperr.Validation("tasks", "task belongs to another project")
		}
	}

	s.refs.TasksScheduled(ctx, *sprint, tasks)
	return s.sprints.GetByID(ctx, sprintID)
}

// Filter narrows task listings.
type Filter struct {
	Project     *primitive.ObjectID
	Sprint      *primitive.ObjectID
	Unscheduled bool
}

// List returns tasks across the actor's projects, optionally narrowed
// to one project, one sprint, or the backlog of unscheduled tasks.
func (s *Service) List(ctx context.Context, actor *models.User, f Filter) ([]models.Task, error) {
	if actor == nil {
		return nil, apperr.Unauthorized()
	}

	scope := actor.Projects
	if f.Project != nil {
		if !ownership.CanManageProject(actor, *f.Project) {
			return nil, apperr.Unauthorized()
		}
		scope = []primitive.ObjectID{*f.Project}
	}

	tasks, err := s.store.List(ctx, taskstore.Filter{
		ProjectIDs:        scope,
		SprintID:          f.Sprint,
		ExcludeWithSprint: f.Unscheduled,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return tasks, nil
}

// Get loads a task on a project the actor owns.
func (s *Service) Get(ctx context.Context, actor *models.User, id primitive.ObjectID) (*models.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ownership.CanManageProject(actor, task.Project) {
		return nil, apperr.Unauthorized()
	}
	return task, nil
}

func (s *Service) load(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	task, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("task")
		}
		return nil, apperr.Internal(err)
	}
	return task, nil
}

// checkSprintProject verifies the sprint exists and lives on the task's
// project.
func (s *Service) checkSprintProject(ctx context.Context, sprintID, projectID primitive.ObjectID) error {
	sprint, err := s.sprints.GetByID(ctx, sprintID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.NotFound("sprint")
		}
		return apperr.Internal(err)
	}
	if sprint.Project != projectID {
		return apperr.Validation("sprint", "sprint belongs to another project")
	}
	return nil
}
