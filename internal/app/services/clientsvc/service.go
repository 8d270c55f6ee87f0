// Package clientsvc implements client management: creation, updates,
// soft deletion with project cascade, and owner-scoped reads.
package clientsvc

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wedevhq/wedev/internal/app/policy/ownership"
	"github.com/wedevhq/wedev/internal/app/system/backrefs"
	"github.com/wedevhq/wedev/internal/app/system/inputval"
	"github.com/wedevhq/wedev/internal/domain/apperr"
	"github.com/wedevhq/wedev/internal/domain/models"
)

// ClientStore is the persistence surface the service needs.
type ClientStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Client, error)
	Create(ctx context.Context, c models.Client) (models.Client, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.ClientPatch) (*models.Client, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
}

// Service handles client operations.
type Service struct {
	store ClientStore
	refs  *backrefs.Coordinator
}

// New wires a client service.
func New(store ClientStore, refs *backrefs.Coordinator) *Service {
	return &Service{store: store, refs: refs}
}

func validateContact(c models.Contact) []inputval.FieldError {
	var errs []inputval.FieldError
	errs = inputval.Required(errs, "contact.lastName", c.LastName)
	errs = inputval.Required(errs, "contact.firstName", c.FirstName)
	if c.Phone == "" && c.Email == "" {
		errs = append(errs, inputval.FieldError{Field: "contact", Msg: "needs a phone number or an email address"})
	}
	if c.Email != "" && !inputval.IsValidEmail(c.Email) {
		errs = append(errs, inputval.FieldError{Field: "contact.email", Msg: "is not a valid email address"})
	}
	return errs
}

func validateAddress(a *models.Address) []inputval.FieldError {
	if a == nil {
		return nil
	}
	var errs []inputval.FieldError
	errs = inputval.Required(errs, "address.zipcode", a.Zipcode)
	errs = inputval.Required(errs, "address.city", a.City)
	errs = inputval.Required(errs, "address.country", a.Country)
	return errs
}

// CreateInput is the payload for opening a client.
type CreateInput struct {
	CorporateName string
	Contact       models.Contact
	Address       *models.Address
	User          primitive.ObjectID
}

func (in CreateInput) validate() error {
	var errs []inputval.FieldError
	errs = inputval.Required(errs, "corporateName", in.CorporateName)
	errs = append(errs, validateContact(in.Contact)...)
	errs = append(errs, validateAddress(in.Address)...)
	if len(errs) > 0 {
		return apperr.Validation(errs[0].Field, errs[0].Msg)
	}
	return nil
}

// Create opens a client owned by the actor and indexes it on the
// owner's account.
func (s *Service) Create(ctx context.Context, actor *models.User, in CreateInput) (*models.Client, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if !ownership.CanCreateOwned(actor, in.User) {
		return nil, apperr.Unauthorized()
	}

	client, err := s.store.Create(ctx, models.Client{
		CorporateName: in.CorporateName,
		Contact:       in.Contact,
		Address:       in.Address,
		User:          in.User,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.refs.ClientCreated(ctx, in.User, client.ID)
	return &client, nil
}

// UpdateInput is the payload for a partial client update.
type UpdateInput struct {
	ID            primitive.ObjectID
	CorporateName *string
	Contact       *models.Contact
	Address       *models.Address
}

func (in UpdateInput) validate() error {
	var errs []inputval.FieldError
	if in.CorporateName != nil && *in.CorporateName == "" {
		errs = append(errs, inputval.FieldError{Field: "corporateName", Msg: "cannot be blank"})
	}
	if in.Contact != nil {
		errs = append(errs, validateContact(*in.Contact)...)
	}
	errs = append(errs, validateAddress(in.Address)...)
	if len(errs) > 0 {
		return apperr.Validation(errs[0].Field, errs[0].Msg)
	}
	return nil
}

// Update applies a partial update to a client the actor owns.
func (s *Service) Update(ctx context.Context, actor *models.User, in UpdateInput) (*models.Client, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if !ownership.CanManageClient(actor, in.ID) {
		return nil, apperr.Unauthorized()
	}

	client, err := s.store.Update(ctx, in.ID, models.ClientPatch{
		CorporateName: in.CorporateName,
		Contact:       in.Contact,
		Address:       in.Address,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("client")
		}
		return nil, apperr.Internal(err)
	}
	return client, nil
}

// Delete soft-deletes a client the actor owns and cascades the soft
// delete to the client's projects. The document stays resolvable by id.
func (s *Service) Delete(ctx context.Context, actor *models.User, id primitive.ObjectID) (bool, error) {
	if !ownership.CanManageClient(actor, id) {
		return false, apperr.Unauthorized()
	}
	if err := s.store.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, apperr.NotFound("client")
		}
		return false, apperr.Internal(err)
	}
	s.refs.ClientSoftDeleted(ctx, id)
	return true, nil
}

// Get loads a client the actor owns. Soft-deleted clients still
// resolve, so history referencing them keeps rendering.
func (s *Service) Get(ctx context.Context, actor *models.User, id primitive.ObjectID) (*models.Client, error) {
	if !ownership.CanManageClient(actor, id) {
		return nil, apperr.Unauthorized()
	}
	client, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("client")
		}
		return nil, apperr.Internal(err)
	}
	return client, nil
}

// List returns the actor's live clients, soft-deleted ones excluded.
func (s *Service) List(ctx context.Context, actor *models.User) ([]models.Client, error) {
	if actor == nil {
		return nil, apperr.Unauthorized()
	}
	clients, err := s.store.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return clients, nil
}
