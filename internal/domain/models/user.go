// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account owner. Users own the clients and projects they
// create; the Clients/Projects arrays are the denormalized ownership
// index the permission checks run against.
type User struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	LastName           string               `bson:"last_name" json:"lastName"`
	FirstName          string               `bson:"first_name" json:"firstName"`
	Company            string               `bson:"company,omitempty" json:"company,omitempty"`
	Siret              string               `bson:"siret,omitempty" json:"siret,omitempty"`
	Email              string               `bson:"email" json:"email"`
	Password           string               `bson:"password" json:"-"` // bcrypt digest, never exposed
	Phone              string               `bson:"phone,omitempty" json:"phone,omitempty"`
	CompanyStatus      string               `bson:"company_status,omitempty" json:"companyStatus,omitempty"`
	ProfessionalStatus string               `bson:"professional_status,omitempty" json:"professionalStatus,omitempty"`
	GithubToken        string               `bson:"github_token,omitempty" json:"githubToken,omitempty"`
	GithubLogin        string               `bson:"github_login,omitempty" json:"githubLogin,omitempty"`
	Clients            []primitive.ObjectID `bson:"clients" json:"clients"`
	Projects           []primitive.ObjectID `bson:"projects" json:"projects"`
	IsDeactivated      bool                 `bson:"is_deactivated" json:"isDeactivated"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// OwnsClient reports whether the user's ownership index contains the client id.
func (u *User) OwnsClient(id primitive.ObjectID) bool {
	for _, c := range u.Clients {
		if c == id {
			return true
		}
	}
	return false
}

// OwnsProject reports whether the user's ownership index contains the project id.
func (u *User) OwnsProject(id primitive.ObjectID) bool {
	for _, p := range u.Projects {
		if p == id {
			return true
		}
	}
	return false
}

// UserPatch holds the optional fields a user can change on their own
// account. Nil pointers are left untouched.
type UserPatch struct {
	LastName           *string
	FirstName          *string
	Company            *string
	Siret              *string
	Phone              *string
	CompanyStatus      *string
	ProfessionalStatus *string
	GithubToken        *string
	GithubLogin        *string
}
