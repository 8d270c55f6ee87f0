// internal/app/store/projects/projectstore.go
package projectstore

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
	return &Store{c: db.Collection("projects")}
}

// GetByID loads a project by ObjectID, soft-deleted or not.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser returns the user's live (not soft-deleted) projects.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	cur, err := s.c.Find(ctx, bson.M{"user": userID, "is_deleted": bson.M{"$ne": true}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new project.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	p.ID = primitive.NewObjectID()
	p.Title = normalize.Name(p.Title)
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

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// Update applies a partial update and returns the updated document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, patch models.ProjectPatch) (*models.Project, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = normalize.Name(*patch.Title)
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Quote != nil {
		set["quote"] = *patch.Quote
	}
	if patch.HourlyRate != nil {
		set["hourly_rate"] = *patch.HourlyRate
	}
	if patch.StartDate != nil {
		set["start_date"] = *patch.StartDate
	}
	if patch.EndDate != nil {
		set["end_date"] = *patch.EndDate
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Stacks != nil {
		set["stacks"] = *patch.Stacks
	}
	if patch.Client != nil {
		set["client"] = *patch.Client
	}
	if patch.Repositories != nil {
		set["repositories"] = *patch.Repositories
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Project
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SoftDelete marks the project deleted without removing the document.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_deleted": true, "updated_at": time.Now().UTC()},
	})
	return err
}

// SoftDeleteByClient cascades a client soft delete to every project
// that references the client.
func (s *Store) SoftDeleteByClient(ctx context.Context, clientID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx, bson.M{"client": clientID}, bson.M{
		"$set": bson.M{"is_deleted": true, "updated_at": time.Now().UTC()},
	})
	return err
}

// AddTask registers a task id in the project's back-reference set.
func (s *Store) AddTask(ctx context.Context, projectID, taskID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{
		"$addToSet": bson.M{"tasks": taskID},
	})
	return err
}

// RemoveTask removes a task id from the project's back-reference set.
func (s *Store) RemoveTask(ctx context.Context, projectID, taskID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{
		"$pull": bson.M{"tasks": taskID},
	})
	return err
}

// AddSprint registers a sprint id in the project's back-reference set.
func (s *Store) AddSprint(ctx context.Context, projectID, sprintID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{
		"$addToSet": bson.M{"sprints": sprintID},
	})
	return err
}

// RemoveSprint removes a sprint id from the project's back-reference set.
func (s *Store) RemoveSprint(ctx context.Context, projectID, sprintID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{
		"$pull": bson.M{"sprints": sprintID},
	})
	return err
}
