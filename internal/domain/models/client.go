// internal/domain/models/client.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact is the person reached at a client. At least one of Phone or
// Email must be present (enforced at validation, not storage).
type Contact struct {
	LastName  string `bson:"last_name" json:"lastName"`
	FirstName string `bson:"first_name" json:"firstName"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
}

// Address is a client's optional postal address.
type Address struct {
	Street                string `bson:"street,omitempty" json:"street,omitempty"`
	Zipcode               string `bson:"zipcode" json:"zipcode"`
	City                  string `bson:"city" json:"city"`
	Country               string `bson:"country" json:"country"`
	AdditionalInformation string `bson:"additional_information,omitempty" json:"additionalInformation,omitempty"`
}

// Client is a customer a user bills projects to. Projects is the
// denormalized back-reference to the projects opened for this client.
// Clients are soft-deleted: IsDeleted flips and the document stays.
type Client struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CorporateName string               `bson:"corporate_name" json:"corporateName"`
	Contact       Contact              `bson:"contact" json:"contact"`
	Address       *Address             `bson:"address,omitempty" json:"address,omitempty"`
	Projects      []primitive.ObjectID `bson:"projects" json:"projects"`
	User          primitive.ObjectID   `bson:"user" json:"user"`
	IsDeleted     bool                 `bson:"is_deleted" json:"isDeleted"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ClientPatch holds the fields a client update may change.
type ClientPatch struct {
	CorporateName *string
	Contact       *Contact
	Address       *Address
}
