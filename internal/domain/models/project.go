// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stack is a technology choice attached to a project.
type Stack struct {
	Category    string `bson:"category" json:"category"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// Repository is a GitHub repository linked to a project.
type Repository struct {
	GithubID    int64  `bson:"github_id" json:"githubId"`
	Name        string `bson:"name" json:"name"`
	FullName    string `bson:"full_name" json:"fullName"`
	Owner       string `bson:"owner" json:"owner"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// Project is a billable engagement for a client. Tasks and Sprints are
// denormalized back-references maintained by the integrity coordinator.
// Projects are soft-deleted.
type Project struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title        string               `bson:"title" json:"title"`
	Description  string               `bson:"description,omitempty" json:"description,omitempty"`
	Quote        float64              `bson:"quote,omitempty" json:"quote,omitempty"`
	HourlyRate   float64              `bson:"hourly_rate,omitempty" json:"hourlyRate,omitempty"`
	StartDate    time.Time            `bson:"start_date" json:"startDate"`
	EndDate      *time.Time           `bson:"end_date,omitempty" json:"endDate,omitempty"`
	Status       string               `bson:"status" json:"status"`
	Stacks       []Stack              `bson:"stacks" json:"stacks"`
	Client       primitive.ObjectID   `bson:"client,omitempty" json:"client,omitempty"`
	User         primitive.ObjectID   `bson:"user" json:"user"`
	Repositories []Repository         `bson:"repositories" json:"repositories"`
	Tasks        []primitive.ObjectID `bson:"tasks" json:"tasks"`
	Sprints      []primitive.ObjectID `bson:"sprints" json:"sprints"`
	IsDeleted    bool                 `bson:"is_deleted" json:"isDeleted"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ProjectPatch holds the fields a project update may change.
type ProjectPatch struct {
	Title        *string
	Description  *string
	Quote        *float64
	HourlyRate   *float64
	StartDate    *time.Time
	EndDate      *time.Time
	Status       *string
	Stacks       *[]Stack
	Client       *primitive.ObjectID
	Repositories *[]Repository
}
