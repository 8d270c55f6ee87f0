// internal/app/store/clients/clientstore.go
package clientstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wedevhq/wedev/internal/app/system/normalize"
	"github.com/wedevhq/wedev/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("clients")}
}

// GetByID loads a client by ObjectID. Soft-deleted clients still
// resolve; owners keep read access to archived entities.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error) {
	var c models.Client
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByUser returns the user's live (not soft-deleted) clients.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Client, error) {
	cur, err := s.c.Find(ctx, bson.M{"user": userID, "is_deleted": bson.M{"$ne": true}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Client
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new client.
func (s *Store) Create(ctx context.Context, c models.Client) (models.Client, error) {
	c.ID = primitive.NewObjectID()
	c.CorporateName = normalize.Name(c.CorporateName)
	if c.Projects == nil {
		c.Projects = []primitive.ObjectID{}
	}

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Client{}, err
	}
	return c, nil
}

// Update applies a partial update and returns the updated document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, patch models.ClientPatch) (*models.Client, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	if patch.CorporateName != nil {
		set["corporate_name"] = normalize.Name(*patch.CorporateName)
	}
	if patch.Contact != nil {
		set["contact"] = *patch.Contact
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.Client
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SoftDelete marks the client deleted without removing the document.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_deleted": true, "updated_at": time.Now().UTC()},
	})
	return err
}

// AddProject registers a project id in the client's back-reference set.
func (s *Store) AddProject(ctx context.Context, clientID, projectID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": clientID}, bson.M{
		"$addToSet": bson.M{"projects": projectID},
	})
	return err
}
