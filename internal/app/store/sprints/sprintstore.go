// internal/app/store/sprints/sprintstore.go
package sprintstore

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
	return &Store{c: db.Collection("sprints")}
}

// GetByID loads a sprint by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Sprint, error) {
	var sp models.Sprint
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sp); err != nil {
		return nil, err
	}
	return &sp, nil
}

// ListByProjects returns all sprints belonging to any of the projects.
func (s *Store) ListByProjects(ctx context.Context, projectIDs []primitive.ObjectID) ([]models.Sprint, error) {
	cur, err := s.c.Find(ctx, bson.M{"project": bson.M{"$in": projectIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Sprint
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new sprint.
func (s *Store) Create(ctx context.Context, sp models.Sprint) (models.Sprint, error) {
	sp.ID = primitive.NewObjectID()
	sp.Title = normalize.Name(sp.Title)
	if sp.Tasks == nil {
		sp.Tasks = []primitive.ObjectID{}
	}

	now := time.Now().UTC()
	sp.CreatedAt = now
	sp.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, sp); err != nil {
		return models.Sprint{}, err
	}
	return sp, nil
}

// Update applies a partial update and returns the updated document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, patch models.SprintPatch) (*models.Sprint, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = normalize.Name(*patch.Title)
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.StartDate != nil {
		set["start_date"] = *patch.StartDate
	}
	if patch.EndDate != nil {
		set["end_date"] = *patch.EndDate
	}
	if patch.Tasks != nil {
		set["tasks"] = *patch.Tasks
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var sp models.Sprint
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&sp); err != nil {
		return nil, err
	}
	return &sp, nil
}

// Delete removes the sprint document. Reference cleanup is the
// integrity coordinator's job and must happen around this call.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// AddTask registers a task id in the sprint's back-reference set.
func (s *Store) AddTask(ctx context.Context, sprintID, taskID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": sprintID}, bson.M{
		"$addToSet": bson.M{"tasks": taskID},
	})
	return err
}

// AddTasks registers several task ids in the sprint's back-reference set.
func (s *Store) AddTasks(ctx context.Context, sprintID primitive.ObjectID, taskIDs []primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": sprintID}, bson.M{
		"$addToSet": bson.M{"tasks": bson.M{"$each": taskIDs}},
	})
	return err
}

// RemoveTask removes a task id from the sprint's back-reference set.
func (s *Store) RemoveTask(ctx context.Context, sprintID, taskID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": sprintID}, bson.M{
		"$pull": bson.M{"tasks": taskID},
	})
	return err
}
