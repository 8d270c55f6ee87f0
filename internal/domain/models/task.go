// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is a unit of work inside a project, optionally scheduled into a
// sprint of the same project. CompletionTime is derived: milliseconds
// between the most recent in_progress start and the done transition.
type Task struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title          string              `bson:"title" json:"title"`
	Description    string              `bson:"description,omitempty" json:"description,omitempty"`
	Status         string              `bson:"status" json:"status"`
	StartDate      *time.Time          `bson:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate        *time.Time          `bson:"end_date,omitempty" json:"endDate,omitempty"`
	CompletionTime int64               `bson:"completion_time,omitempty" json:"completionTime,omitempty"`
	Project        primitive.ObjectID  `bson:"project" json:"project"`
	Sprint         *primitive.ObjectID `bson:"sprint,omitempty" json:"sprint,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// InSprint reports whether the task is scheduled into the given sprint.
func (t *Task) InSprint(id primitive.ObjectID) bool {
	return t.Sprint != nil && *t.Sprint == id
}

// TaskPatch holds the fields a task update may change. Sprint uses a
// double pointer so callers can distinguish "leave alone" (nil) from
// "detach" (*Sprint == nil) from "move" (*Sprint != nil).
type TaskPatch struct {
	Title          *string
	Description    *string
	Status         *string
	StartDate      **time.Time
	EndDate        **time.Time
	CompletionTime *int64
	Sprint         **primitive.ObjectID
}
