// Package ownership decides whether an acting user may touch an
// entity. Checks run against the user's denormalized ownership index
// (User.Clients / User.Projects) so that no extra store round-trip is
// needed; a nil user always fails closed.
package ownership

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wedevhq/wedev/internal/domain/models"
)

// CanManageClient reports whether user owns the client.
func CanManageClient(user *models.User, clientID primitive.ObjectID) bool {
	return user != nil && user.OwnsClient(clientID)
}

// CanManageProject reports whether user owns the project. Sprint and
// task permissions are transitive: they reduce to this check on the
// parent project.
func CanManageProject(user *models.User, projectID primitive.ObjectID) bool {
	return user != nil && user.OwnsProject(projectID)
}

// CanCreateOwned reports whether user may create an entity whose
// submitted owner field is ownerID: only for themself.
func CanCreateOwned(user *models.User, ownerID primitive.ObjectID) bool {
	return user != nil && user.ID == ownerID
}

// IsSelf reports whether user is acting on their own account.
func IsSelf(user *models.User, id primitive.ObjectID) bool {
	return user != nil && user.ID == id
}
