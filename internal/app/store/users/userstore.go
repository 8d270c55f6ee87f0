// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wedevhq/wedev/internal/app/system/normalize"
	"github.com/wedevhq/wedev/internal/domain/models"
)

// ErrDuplicateEmail is returned when creating a user whose email is
// already registered.
var ErrDuplicateEmail = errors.New("a user with this email already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing core fields. Ownership
// arrays start empty, never nil, so $addToSet behaves as set union.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.LastName = normalize.Name(u.LastName)
	u.FirstName = normalize.Name(u.FirstName)
	if u.Clients == nil {
		u.Clients = []primitive.ObjectID{}
	}
	if u.Projects == nil {
		u.Projects = []primitive.ObjectID{}
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Update applies a partial update and returns the updated document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.LastName != nil {
		set["last_name"] = normalize.Name(*patch.LastName)
	}
	if patch.FirstName != nil {
		set["first_name"] = normalize.Name(*patch.FirstName)
	}
	if patch.Company != nil {
		set["company"] = *patch.Company
	}
	if patch.Siret != nil {
		set["siret"] = *patch.Siret
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.CompanyStatus != nil {
		set["company_status"] = *patch.CompanyStatus
	}
	if patch.ProfessionalStatus != nil {
		set["professional_status"] = *patch.ProfessionalStatus
	}
	if patch.GithubToken != nil {
		set["github_token"] = *patch.GithubToken
	}
	if patch.GithubLogin != nil {
		set["github_login"] = *patch.GithubLogin
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Deactivate flips the account's deactivation flag. The document and
// the entities it owns stay in place.
func (s *Store) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_deactivated": true, "updated_at": time.Now().UTC()},
	})
	return err
}

// AddClient registers a client id in the user's ownership index.
func (s *Store) AddClient(ctx context.Context, userID, clientID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$addToSet": bson.M{"clients": clientID},
	})
	return err
}

// AddProject registers a project id in the user's ownership index.
func (s *Store) AddProject(ctx context.Context, userID, projectID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$addToSet": bson.M{"projects": projectID},
	})
	return err
}
