// Package usersvc implements the account service: registration,
// login, profile updates, and deactivation.
package usersvc

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/wedevhq/wedev/internal/app/policy/ownership"
	userstore "github.com/wedevhq/wedev/internal/app/store/users"
	"github.com/wedevhq/wedev/internal/app/system/auth"
	"github.com/wedevhq/wedev/internal/app/system/github"
	"github.com/wedevhq/wedev/internal/app/system/inputval"
	"github.com/wedevhq/wedev/internal/app/system/passwords"
	"github.com/wedevhq/wedev/internal/domain/apperr"
	"github.com/wedevhq/wedev/internal/domain/models"
)

// UserStore is the persistence surface the service needs.
type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error)
	Deactivate(ctx context.Context, id primitive.ObjectID) error
}

// Service handles account operations.
type Service struct {
	store     UserStore
	tokens    auth.Tokens
	hasher    passwords.Hasher
	transport passwords.Transport
	github    github.Factory
	minPwdLen int
	logger    *zap.Logger
}

// New wires an account service.
func New(store UserStore, tokens auth.Tokens, hasher passwords.Hasher, transport passwords.Transport, ghFactory github.Factory, minPwdLen int, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		tokens:    tokens,
		hasher:    hasher,
		transport: transport,
		github:    ghFactory,
		minPwdLen: minPwdLen,
		logger:    logger,
	}
}

// AuthPayload is a user plus the session token asserting their identity.
type AuthPayload struct {
	User  models.User
	Token string
}

// RegisterInput is the payload for account creation. Password arrives
// transport-encrypted from the client.
type RegisterInput struct {
	LastName           string
	FirstName          string
	Company            string
	Siret              string
	Email              string
	Password           string
	Phone              string
	CompanyStatus      string
	ProfessionalStatus string
}

func (in RegisterInput) validate() error {
	var errs []inputval.FieldError
	errs = inputval.Required(errs, "lastName", in.LastName)
	errs = inputval.Required(errs, "firstName", in.FirstName)
	errs = inputval.Required(errs, "email", in.Email)
	errs = inputval.Required(errs, "password", in.Password)
	errs = inputval.OneOf(errs, "companyStatus", in.CompanyStatus, models.CompanyStatuses)
	errs = inputval.OneOf(errs, "professionalStatus", in.ProfessionalStatus, models.ProfessionalStatuses)
	if in.Email != "" && !inputval.IsValidEmail(in.Email) {
		errs = append(errs, inputval.FieldError{Field: "email", Msg: "is not a valid email address"})
	}
	if in.Siret != "" && !inputval.IsValidSiret(in.Siret) {
		errs = append(errs, inputval.FieldError{Field: "siret", Msg: "must be exactly 14 digits"})
	}
	if len(errs) > 0 {
		return apperr.Validation(errs[0].Field, errs[0].Msg)
	}
	return nil
}

// Register creates an account: unique email, transport-decrypted
// password checked for minimum length, bcrypt digest stored, session
// token issued.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthPayload, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.store.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Conflict("this email address is already registered", "user_register_duplicated_email")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.Internal(err)
	}

	plaintext, err := s.transport.Decrypt(in.Password)
	if err != nil {
		return nil, apperr.ValidationLabel("password", "password payload is not decryptable", "user_register_password_malformed")
	}
	if len(plaintext) < s.minPwdLen {
		return nil, apperr.ValidationLabel("password", "password is too short", "user_register_password_length")
	}

	digest, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user, err := s.store.Create(ctx, models.User{
		LastName:           in.LastName,
		FirstName:          in.FirstName,
		Company:            in.Company,
		Siret:              in.Siret,
		Email:              in.Email,
		Password:           digest,
		Phone:              in.Phone,
		CompanyStatus:      in.CompanyStatus,
		ProfessionalStatus: in.ProfessionalStatus,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			return nil, apperr.Conflict("this email address is already registered", "user_register_duplicated_email")
		}
		return nil, apperr.Internal(err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &AuthPayload{User: user, Token: token}, nil
}

// Login authenticates by email and transport-encrypted password. A
// wrong email, wrong password, and deactivated account are all the
// same Unauthorized to the caller.
func (s *Service) Login(ctx context.Context, email, encryptedPassword string) (*AuthPayload, error) {
	plaintext, err := s.transport.Decrypt(encryptedPassword)
	if err != nil {
		return nil, apperr.Unauthorized()
	}

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.Unauthorized()
		}
		return nil, apperr.Internal(err)
	}
	if !s.hasher.Compare(plaintext, user.Password) || user.IsDeactivated {
		return nil, apperr.Unauthorized()
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &AuthPayload{User: *user, Token: token}, nil
}

// UpdateInput is the payload for profile updates. Nil fields are left
// untouched.
type UpdateInput struct {
	ID                 primitive.ObjectID
	LastName           *string
	FirstName          *string
	Company            *string
	Siret              *string
	Phone              *string
	CompanyStatus      *string
	ProfessionalStatus *string
	GithubToken        *string
}

func (in UpdateInput) validate() error {
	var errs []inputval.FieldError
	if in.CompanyStatus != nil {
		errs = inputval.OneOf(errs, "companyStatus", *in.CompanyStatus, models.CompanyStatuses)
	}
	if in.ProfessionalStatus != nil {
		errs = inputval.OneOf(errs, "professionalStatus", *in.ProfessionalStatus, models.ProfessionalStatuses)
	}
	if in.Siret != nil && *in.Siret != "" && !inputval.IsValidSiret(*in.Siret) {
		errs = append(errs, inputval.FieldError{Field: "siret", Msg: "must be exactly 14 digits"})
	}
	if in.LastName != nil && *in.LastName == "" {
		errs = append(errs, inputval.FieldError{Field: "lastName", Msg: "cannot be blank"})
	}
	if in.FirstName != nil && *in.FirstName == "" {
		errs = append(errs, inputval.FieldError{Field: "firstName", Msg: "cannot be blank"})
	}
	if len(errs) > 0 {
		return apperr.Validation(errs[0].Field, errs[0].Msg)
	}
	return nil
}

// Update applies a partial profile update. A user can only update
// themself. When a new GitHub token arrives, the matching GitHub login
// is refreshed through the integration; an unreachable GitHub keeps
// the token but leaves the login untouched.
func (s *Service) Update(ctx context.Context, actor *models.User, in UpdateInput) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if !ownership.IsSelf(actor, in.ID) {
		return nil, apperr.Unauthorized()
	}

	patch := models.UserPatch{
		LastName:           in.LastName,
		FirstName:          in.FirstName,
		Company:            in.Company,
		Siret:              in.Siret,
		Phone:              in.Phone,
		CompanyStatus:      in.CompanyStatus,
		ProfessionalStatus: in.ProfessionalStatus,
		GithubToken:        in.GithubToken,
	}

	if in.GithubToken != nil && *in.GithubToken != "" && *in.GithubToken != actor.GithubToken {
		login, err := s.github(*in.GithubToken).UserLogin(ctx)
		if err != nil {
			s.logger.Warn("github login refresh failed", zap.Error(err), zap.Stringer("user", actor.ID))
		} else {
			patch.GithubLogin = &login
		}
	}

	user, err := s.store.Update(ctx, in.ID, patch)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// Deactivate flips the actor's own account to deactivated.
func (s *Service) Deactivate(ctx context.Context, actor *models.User, id primitive.ObjectID) (bool, error) {
	if !ownership.IsSelf(actor, id) {
		return false, apperr.Unauthorized()
	}
	if err := s.store.Deactivate(ctx, id); err != nil {
		return false, apperr.Internal(err)
	}
	return true, nil
}

// Get returns the actor's own account.
func (s *Service) Get(ctx context.Context, actor *models.User, id primitive.ObjectID) (*models.User, error) {
	if !ownership.IsSelf(actor, id) {
		return nil, apperr.Unauthorized()
	}
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}
