// Package projectsvc implements project management and the derived
// billing figures (price, quote delta) computed from task completion
// times.
package projectsvc

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wedevhq/wedev/internal/app/policy/ownership"
	"github.com/wedevhq/wedev/internal/app/system/backrefs"
	"github.com/wedevhq/wedev/internal/app/system/htmlsanitize"
	"github.com/wedevhq/wedev/internal/app/system/inputval"
	"github.com/wedevhq/wedev/internal/domain/apperr"
	"github.com/wedevhq/wedev/internal/domain/models"
)

// millisPerHour converts summed task completion times to billable hours.
const millisPerHour = 3_600_000

// ProjectStore is the persistence surface the service needs.
type ProjectStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error)
	Create(ctx context.Context, p models.Project) (models.Project, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.ProjectPatch) (*models.Project, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
}

// TaskReader loads the tasks billing sums over.
type TaskReader interface {
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Task, error)
}

// Service handles project operations.
type Service struct {
	store ProjectStore
	tasks TaskReader
	refs  *backrefs.Coordinator
}

// New wires a project service.
func New(store ProjectStore, tasks TaskReader, refs *backrefs.Coordinator) *Service {
	return &Service{store: store, tasks: tasks, refs: refs}
}

func validateStacks(stacks []models.Stack) []inputval.FieldError {
	var errs []inputval.FieldError
	for _, st := range stacks {
		if st.Name == "" {
			errs = append(errs, inputval.FieldError{Field: "stacks.name", Msg: "is required"})
			break
		}
		if !models.IsValidStackCategory(st.Category) {
			errs = append(errs, inputval.FieldError{Field: "stacks.category", Msg: "is not a known category"})
			break
		}
	}
	return errs
}

// CreateInput is the payload for opening a project.
type CreateInput struct {
	Title        string
	Description  string
	Quote        float64
	HourlyRate   float64
	StartDate    time.Time
	EndDate      *time.Time
	Status       string
	Stacks       []models.Stack
	Client       primitive.ObjectID
	User         primitive.ObjectID
	Repositories []models.Repository
}

func (in CreateInput) validate() error {
	var errs []inputval.FieldError
	errs = inputval.Required(errs, "title", in.Title)
	errs = inputval.OneOf(errs, "status", in.Status, models.ProgressStatuses)
	if in.Quote < 0 {
		errs = append(errs, inputval.FieldError{Field: "quote", Msg: "cannot be negative"})
	}
	if in.HourlyRate < 0 {
		errs = append(errs, inputval.FieldError{Field: "hourlyRate", Msg: "cannot be negative"})
	}
	errs = append(errs, validateStacks(in.Stacks)...)
	if len(errs) > 0 {
		return apperr.Validation(errs[0].Field, errs[0].Msg)
	}
	return nil
}

// Create opens a project owned by the actor, optionally attached to one
// of the actor's clients, and indexes it on both.
func (s *Service) Create(ctx context.Context, actor *models.User, in CreateInput) (*models.Project, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if !ownership.CanCreateOwned(actor, in.User) {
		return nil, apperr.Unauthorized()
	}
	if !in.Client.IsZero() && !ownership.CanManageClient(actor, in.Client) {
		return nil, apperr.Unauthorized()
	}

	status := in.Status
	if status == "" {
		status = models.StatusNotStarted
	}

	project := models.Project{
		Title:        in.Title,
		Description:  htmlsanitize.Sanitize(in.Description),
		Quote:        in.Quote,
		HourlyRate:   in.HourlyRate,
		StartDate:    in.StartDate.UTC(),
		Status:       status,
		Stacks:       in.Stacks,
		Client:       in.Client,
		User:         in.User,
		Repositories: in.Repositories,
	}
	if in.EndDate != nil {
		end := in.EndDate.UTC()
		project.EndDate = &end
	}

	created, err := s.store.Create(ctx, project)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.refs.ProjectCreated(ctx, created)
	return &created, nil
}

// UpdateInput is the payload for a partial project update.
type UpdateInput struct {
	ID           primitive.ObjectID
	Title        *string
	Description  *string
	Quote        *float64
	HourlyRate   *float64
	StartDate    *time.Time
	EndDate      *time.Time
	Status       *string
	Stacks       *[]models.Stack
	Client       *primitive.ObjectID
	Repositories *[]models.Repository
}

func (in UpdateInput) validate() error {
	var errs []inputval.FieldError
	if in.Title != nil && *in.Title == "" {
		errs = append(errs, inputval.FieldError{Field: "title", Msg: "cannot be blank"})
	}
	if in.Status != nil {
		errs = inputval.OneOf(errs, "status", *in.Status, models.ProgressStatuses)
	}
	if in.Quote != nil && *in.Quote < 0 {
		errs = append(errs, inputval.FieldError{Field: "quote", Msg: "cannot be negative"})
	}
	if in.HourlyRate != nil && *in.HourlyRate < 0 {
		errs = append(errs, inputval.FieldError{Field: "hourlyRate", Msg: "cannot be negative"})
	}
	if in.Stacks != nil {
		errs = append(errs, validateStacks(*in.Stacks)...)
	}
	if len(errs) > 0 {
		return apperr.Validation(errs[0].Field, errs[0].Msg)
	}
	return nil
}

// Update applies a partial update to a project the actor owns.
// Re-attaching the project to a client requires owning that client too.
func (s *Service) Update(ctx context.Context, actor *models.User, in UpdateInput) (*models.Project, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if !ownership.CanManageProject(actor, in.ID) {
		return nil, apperr.Unauthorized()
	}
	if in.Client != nil && !in.Client.IsZero() && !ownership.CanManageClient(actor, *in.Client) {
		return nil, apperr.Unauthorized()
	}

	patch := models.ProjectPatch{
		Title:        in.Title,
		Quote:        in.Quote,
		HourlyRate:   in.HourlyRate,
		Status:       in.Status,
		Stacks:       in.Stacks,
		Client:       in.Client,
		Repositories: in.Repositories,
	}
	if in.Description != nil {
		clean := htmlsanitize.Sanitize(*in.Description)
		patch.Description = &clean
	}
	if in.StartDate != nil {
		start := in.StartDate.UTC()
		patch.StartDate = &start
	}
	if in.EndDate != nil {
		end := in.EndDate.UTC()
		patch.EndDate = &end
	}

	project, err := s.store.Update(ctx, in.ID, patch)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("project")
		}
		return nil, apperr.Internal(err)
	}
	return project, nil
}

// Delete soft-deletes a project the actor owns. Its tasks and sprints
// stay untouched; the project just stops appearing in listings.
func (s *Service) Delete(ctx context.Context, actor *models.User, id primitive.ObjectID) (bool, error) {
	if !ownership.CanManageProject(actor, id) {
		return false, apperr.Unauthorized()
	}
	if err := s.store.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, apperr.NotFound("project")
		}
		return false, apperr.Internal(err)
	}
	return true, nil
}

// Get loads a project the actor owns. Soft-deleted projects still
// resolve by id.
func (s *Service) Get(ctx context.Context, actor *models.User, id primitive.ObjectID) (*models.Project, error) {
	if !ownership.CanManageProject(actor, id) {
		return nil, apperr.Unauthorized()
	}
	project, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("project")
		}
		return nil, apperr.Internal(err)
	}
	return project, nil
}

// List returns the actor's live projects, soft-deleted ones excluded.
func (s *Service) List(ctx context.Context, actor *models.User) ([]models.Project, error) {
	if actor == nil {
		return nil, apperr.Unauthorized()
	}
	projects, err := s.store.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return projects, nil
}

// Pricing holds the billing figures derived from a project's tasks.
type Pricing struct {
	Price          float64
	DiffQuotePrice float64
}

// PricingFor computes the project's billed price from the completion
// times of its tasks: billed hours are the summed completion times,
// with a one-hour floor so a started project is never quoted at zero.
// DiffQuotePrice is quote minus price (negative when over budget).
func (s *Service) PricingFor(ctx context.Context, p *models.Project) (Pricing, error) {
	tasks, err := s.tasks.GetByIDs(ctx, p.Tasks)
	if err != nil {
		return Pricing{}, apperr.Internal(err)
	}

	var totalMillis int64
	for _, t := range tasks {
		totalMillis += t.CompletionTime
	}

	hours := float64(totalMillis) / millisPerHour
	if hours < 1 {
		hours = 1
	}
	price := p.HourlyRate * hours
	return Pricing{Price: price, DiffQuotePrice: p.Quote - price}, nil
}
