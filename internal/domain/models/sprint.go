// internal/domain/models/sprint.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sprint is a time-boxed slice of a project. Tasks is the denormalized
// back-reference to the tasks scheduled into the sprint; a sprint
// update that rewrites the task list is the source of truth for
// membership, and dropped tasks are detached, not deleted.
type Sprint struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title     string               `bson:"title" json:"title"`
	Status    string               `bson:"status" json:"status"`
	StartDate time.Time            `bson:"start_date" json:"startDate"`
	EndDate   time.Time            `bson:"end_date" json:"endDate"`
	Project   primitive.ObjectID   `bson:"project" json:"project"`
	Tasks     []primitive.ObjectID `bson:"tasks" json:"tasks"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// SprintPatch holds the fields a sprint update may change.
type SprintPatch struct {
	Title     *string
	Status    *string
	StartDate *time.Time
	EndDate   *time.Time
	Tasks     *[]primitive.ObjectID
}
