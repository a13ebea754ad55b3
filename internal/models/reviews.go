package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bnbadvisor/server/internal/helpers"
)

const (
	MinCommentLength = 5
	MaxCommentLength = 1000
)

type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PropertyID primitive.ObjectID `bson:"property_id" json:"property_id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	Rating     int                `bson:"rating" json:"rating" validate:"required,min=1,max=5"`
	Comment    string             `bson:"comment" json:"comment" validate:"required,min=5,max=1000"`
	Likes      int                `bson:"likes" json:"likes"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`

	// Populated on reads that join the author, never persisted.
	AuthorName string `bson:"author_name,omitempty" json:"author_name,omitempty"`
}

func (r *Review) BeforeCreate() error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	return nil
}

func (r *Review) Sanitize() {
	r.Comment = helpers.SanitizeText(r.Comment)
}

func (r Review) ValidateReview() error {
	var fields []string
	if err := Validate.Struct(r); err != nil {
		fields = append(fields, validatorMessages(err)...)
	}
	if r.PropertyID.IsZero() {
		fields = append(fields, "property is required")
	}
	if r.UserID.IsZero() {
		fields = append(fields, "user is required")
	}
	if len(fields) > 0 {
		return NewValidationError(fields...)
	}
	return nil
}
