package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bnbadvisor/server/internal/helpers"
)

const (
	RoleUser    = "user"
	RoleManager = "manager"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName      string             `bson:"first_name" json:"first_name" validate:"required,min=2,max=25"`
	LastName       string             `bson:"last_name" json:"last_name" validate:"required,min=2,max=25"`
	Email          string             `bson:"email" json:"email" validate:"required,email"`
	Password       string             `bson:"-" json:"password,omitempty"`
	HashedPassword string             `bson:"hashed_password" json:"-"`
	Role           string             `bson:"role" json:"role"`
	ProfilePicture string             `bson:"profile_picture" json:"profile_picture"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

func (u *User) BeforeCreate() error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.ProfilePicture == "" {
		u.ProfilePicture = "/images/default-avatar.jpg"
	}
	return nil
}

func (u *User) Sanitize() {
	u.FirstName = helpers.SanitizeText(u.FirstName)
	u.LastName = helpers.SanitizeText(u.LastName)
	u.Email = helpers.NormalizeEmail(u.Email)
}

func (u User) ValidateUser() error {
	var fields []string
	if err := Validate.Struct(u); err != nil {
		fields = append(fields, validatorMessages(err)...)
	}
	if u.Role != "" && u.Role != RoleUser && u.Role != RoleManager {
		fields = append(fields, "role must be either user or manager")
	}
	if len(fields) > 0 {
		return NewValidationError(fields...)
	}
	return nil
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u User) IsManager() bool {
	return u.Role == RoleManager
}
