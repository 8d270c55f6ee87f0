// Package sprintsvc implements sprint management. The sprint's task
// list is authoritative for membership: rewriting it detaches dropped
// tasks and schedules added ones, and deleting a sprint detaches every
// member instead of deleting it.
package sprintsvc

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wedevhq/wedev/internal/app/policy/ownership"
	"github.com/wedevhq/wedev/internal/app/system/backrefs"
	"github.com/wedevhq/wedev/internal/app/system/inputval"
	"github.com/wedevhq/wedev/internal/domain/apperr"
	"github.com/wedevhq/wedev/internal/domain/models"
)

// SprintStore is the persistence surface the service needs.
type SprintStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Sprint, error)
	ListByProjects(ctx context.Context, projectIDs []primitive.ObjectID) ([]models.Sprint, error)
	Create(ctx context.Context, sp models.Sprint) (models.Sprint, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.SprintPatch) (*models.Sprint, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TaskReader loads tasks for membership validation.
type TaskReader interface {
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Task, error)
}

// Service handles sprint operations.
type Service struct {
	store SprintStore
	tasks TaskReader
	refs  *backrefs.Coordinator
}

// New wires a sprint service.
func New(store SprintStore, tasks TaskReader, refs *backrefs.Coordinator) *Service {
	return &Service{store: store, tasks: tasks, refs: refs}
}

// CreateInput is the payload for opening a sprint on a project.
type CreateInput struct {
	Title     string
	Status    string
	StartDate time.Time
	EndDate   time.Time
	Project   primitive.ObjectID
}

func (in CreateInput) validate() error {
	var errs []inputval.FieldError
	errs = inputval.Required(errs, "title", in.Title)
	errs = inputval.OneOf(errs, "status", in.Status, models.ProgressStatuses)
	if !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate) {
		errs = append(errs, inputval.FieldError{Field: "endDate", Msg: "cannot be before startDate"})
	}
	if len(errs) > 0 {
		return apperr.Validation(errs[0].Field, errs[0].Msg)
	}
	return nil
}

// Create opens a sprint on a project the actor owns and indexes it on
// the project.
func (s *Service) Create(ctx context.Context, actor *models.User, in CreateInput) (*models.Sprint, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if !ownership.CanManageProject(actor, in.Project) {
		return nil, apperr.Unauthorized()
	}

	status := in.Status
	if status == "" {
		status = models.StatusNotStarted
	}

	sprint, err := s.store.Create(ctx, models.Sprint{
		Title:     in.Title,
		Status:    status,
		StartDate: in.StartDate.UTC(),
		EndDate:   in.EndDate.UTC(),
		Project:   in.Project,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.refs.SprintCreated(ctx, sprint)
	return &sprint, nil
}

// UpdateInput is the payload for a partial sprint update. A non-nil
// Tasks list replaces the membership wholesale.
type UpdateInput struct {
	ID        primitive.ObjectID
	Title     *string
	Status    *string
	StartDate *time.Time
	EndDate   *time.Time
	Tasks     *[]primitive.ObjectID
}

func (in UpdateInput) validate() error {
	var errs []inputval.FieldError
	if in.Title != nil && *in.Title == "" {
		errs = append(errs, inputval.FieldError{Field: "title", Msg: "cannot be blank"})
	}
	if in.Status != nil {
		errs = inputval.OneOf(errs, "status", *in.Status, models.ProgressStatuses)
	}
	if len(errs) > 0 {
		return apperr.Validation(errs[0].Field, errs[0].Msg)
	}
	return nil
}

// Update applies a partial update to a sprint on a project the actor
// owns. When the task list is rewritten, dropped tasks are detached
// and added tasks are scheduled into the sprint; tasks from another
// project are rejected.
func (s *Service) Update(ctx context.Context, actor *models.User, in UpdateInput) (*models.Sprint, error) {
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

	var added []models.Task
	if in.Tasks != nil {
		added, err = s.addedTasks(ctx, current, *in.Tasks)
		if err != nil {
			return nil, err
		}
	}

	sprint, err := s.store.Update(ctx, in.ID, models.SprintPatch{
		Title:     in.Title,
		Status:    in.Status,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Tasks:     in.Tasks,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("sprint")
		}
		return nil, apperr.Internal(err)
	}

	if in.Tasks != nil {
		s.refs.SprintTasksRewritten(ctx, current.Tasks, *in.Tasks)
		s.refs.TasksScheduled(ctx, *sprint, added)
	}
	return sprint, nil
}

// addedTasks resolves the tasks newly present in the rewritten list and
// checks they exist and belong to the sprint's project.
func (s *Service) addedTasks(ctx context.Context, current *models.Sprint, rewritten []primitive.ObjectID) ([]models.Task, error) {
	existing := make(map[primitive.ObjectID]struct{}, len(current.Tasks))
	for _, id := range current.Tasks {
		existing[id] = struct{}{}
	}

	var addedIDs []primitive.ObjectID
	for _, id := range rewritten {
		if _, ok := existing[id]; !ok {
			addedIDs = append(addedIDs, id)
		}
	}
	if len(addedIDs) == 0 {
		return nil, nil
	}

	tasks, err := s.tasks.GetByIDs(ctx, addedIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(tasks) != len(addedIDs) {
		return nil, apperr.NotFound("task")
	}
	for _, t := range tasks {
		if t.Project != current.Project {
			return nil, apperr.Validation("tasks", "task belongs to another project")
		}
	}
	return tasks, nil
}

// Delete removes a sprint after detaching its tasks and pruning it
// from the project. Member tasks survive as unscheduled work.
func (s *Service) Delete(ctx context.Context, actor *models.User, id primitive.ObjectID) (bool, error) {
	sprint, err := s.load(ctx, id)
	if err != nil {
		return false, err
	}
	if !ownership.CanManageProject(actor, sprint.Project) {
		return false, apperr.Unauthorized()
	}

	s.refs.SprintDeleting(ctx, *sprint)
	if err := s.store.Delete(ctx, id); err != nil {
		return false, apperr.Internal(err)
	}
	return true, nil
}

// Get loads a sprint on a project the actor owns.
func (s *Service) Get(ctx context.Context, actor *models.User, id primitive.ObjectID) (*models.Sprint, error) {
	sprint, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ownership.CanManageProject(actor, sprint.Project) {
		return nil, apperr.Unauthorized()
	}
	return sprint, nil
}

// List returns sprints scoped to one of the actor's projects, or to
// all of them when projectID is nil.
func (s *Service) List(ctx context.Context, actor *models.User, projectID *primitive.ObjectID) ([]models.Sprint, error) {
	if actor == nil {
		return nil, apperr.Unauthorized()
	}

	scope := actor.Projects
	if projectID != nil {
		if !ownership.CanManageProject(actor, *projectID) {
			return nil, apperr.Unauthorized()
		}
		scope = []primitive.ObjectID{*projectID}
	}

	sprints, err := s.store.ListByProjects(ctx, scope)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return sprints, nil
}

func (s *Service) load(ctx context.Context, id primitive.ObjectID) (*models.Sprint, error) {
	sprint, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("sprint")
		}
		return nil, apperr.Internal(err)
	}
	return sprint, nil
}
