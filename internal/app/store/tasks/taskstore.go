// internal/app/store/tasks/taskstore.go
package taskstore

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
	return &Store{c: db.Collection("tasks")}
}

// Filter narrows task listings. ProjectIDs is mandatory (a user only
// ever lists tasks across their own projects); SprintID and
// ExcludeWithSprint are mutually exclusive refinements.
type Filter struct {
	ProjectIDs        []primitive.ObjectID
	SprintID          *primitive.ObjectID
	ExcludeWithSprint bool
}

// GetByID loads a task by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByIDs loads the tasks whose ids are listed; missing ids are
// silently absent from the result.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Task, error) {
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Task
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns tasks matching the filter.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Task, error) {
	query := bson.M{"project": bson.M{"$in": f.ProjectIDs}}
	switch {
	case f.ExcludeWithSprint:
		query["$or"] = bson.A{
			bson.M{"sprint": bson.M{"$exists": false}},
			bson.M{"sprint": nil},
		}
	case f.SprintID != nil:
		query["sprint"] = *f.SprintID
	}

	cur, err := s.c.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Task
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new task.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	t.ID = primitive.NewObjectID()
	t.Title = normalize.Name(t.Title)

	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Update applies a partial update and returns the updated document.
// A TaskPatch.Sprint pointing at nil detaches the task ($unset).
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, patch models.TaskPatch) (*models.Task, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	if patch.Title != nil {
		set["title"] = normalize.Name(*patch.Title)
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.StartDate != nil {
		if *patch.StartDate == nil {
			unset["start_date"] = ""
		} else {
			set["start_date"] = **patch.StartDate
		}
	}
	if patch.EndDate != nil {
		if *patch.EndDate == nil {
			unset["end_date"] = ""
		} else {
			set["end_date"] = **patch.EndDate
		}
	}
	if patch.CompletionTime != nil {
		set["completion_time"] = *patch.CompletionTime
	}
	if patch.Sprint != nil {
		if *patch.Sprint == nil {
			unset["sprint"] = ""
		} else {
			set["sprint"] = **patch.Sprint
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.Task
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes the task document. Reference cleanup is the
// integrity coordinator's job and must happen around this call.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// SetSprintMany points every listed task at the sprint (bulk schedule).
func (s *Store) SetSprintMany(ctx context.Context, taskIDs []primitive.ObjectID, sprintID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": taskIDs}}, bson.M{
		"$set": bson.M{"sprint": sprintID, "updated_at": time.Now().UTC()},
	})
	return err
}

// ClearSprint detaches a single task from whatever sprint it is in.
func (s *Store) ClearSprint(ctx context.Context, taskID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{
		"$unset": bson.M{"sprint": ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// DetachAllFromSprint clears the sprint pointer on every task still
// referencing it; used before a sprint is deleted so no dangling ids
// remain.
func (s *Store) DetachAllFromSprint(ctx context.Context, sprintID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx, bson.M{"sprint": sprintID}, bson.M{
		"$unset": bson.M{"sprint": ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}
