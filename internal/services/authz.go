package services

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bnbadvisor/server/internal/models"
)

// CanModify is the single ownership capability check used before any property
// or review mutation: the acting user must be the resource owner.
func CanModify(actorID, ownerID primitive.ObjectID) error {
	if actorID.IsZero() {
		return fmt.Errorf("not signed in: %w", models.ErrUnauthorized)
	}
	if actorID != ownerID {
		return fmt.Errorf("you can only modify your own resources: %w", models.ErrForbidden)
	}
	return nil
}
