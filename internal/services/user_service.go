package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bnbadvisor/server/internal/helpers"
	"github.com/bnbadvisor/server/internal/models"
)

type UserService struct {
	userRepo models.UserRepo
}

func NewUserService(userRepo models.UserRepo) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// SignupUser registers a user and returns a signed session token so signup
// doubles as login.
func (us *UserService) SignupUser(ctx context.Context, user *models.User) (*models.User, string, error) {
	user.Sanitize()
	if err := user.ValidateUser(); err != nil {
		return nil, "", err
	}
	if !helpers.IsPasswordStrong(user.Password) {
		return nil, "", models.NewValidationError("password must be at least 8 characters and contain upper case, lower case and a number")
	}

	hashed, err := helpers.HashPassword(user.Password)
	if err != nil {
		return nil, "", err
	}
	user.HashedPassword = hashed
	user.Password = ""

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	created, err := us.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := helpers.IssueToken(created.ID.Hex(), created.FirstName, created.LastName, created.Email, created.Role)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// AuthenticateUser verifies credentials and issues a session token. A missing
// user and a wrong password produce the same error so the response does not
// leak which emails are registered.
func (us *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, string, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, "", fmt.Errorf("invalid email format: %w", models.ErrInvalidInput)
	}
	if password == "" {
		return nil, "", fmt.Errorf("password is required: %w", models.ErrInvalidInput)
	}

	user, err := us.userRepo.GetUserByEmail(ctx, helpers.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", fmt.Errorf("invalid email or password: %w", models.ErrUnauthorized)
		}
		return nil, "", err
	}
	if !helpers.CheckPasswordHash(password, user.HashedPassword) {
		return nil, "", fmt.Errorf("invalid email or password: %w", models.ErrUnauthorized)
	}

	token, err := helpers.IssueToken(user.ID.Hex(), user.FirstName, user.LastName, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (us *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("invalid user ID: %w", models.ErrInvalidInput)
	}
	return us.userRepo.GetUserByID(ctx, id)
}

var userUpdatableFields = map[string]bool{
	"first_name":      true,
	"last_name":       true,
	"email":           true,
	"profile_picture": true,
}

func (us *UserService) UpdateUser(ctx context.Context, id, actorID primitive.ObjectID, update map[string]interface{}) (*models.User, error) {
	if err := CanModify(actorID, id); err != nil {
		return nil, err
	}

	filtered := make(map[string]interface{}, len(update))
	for key, value := range update {
		switch {
		case key == "password":
			password, _ := value.(string)
			if !helpers.IsPasswordStrong(password) {
				return nil, models.NewValidationError("password must be at least 8 characters and contain upper case, lower case and a number")
			}
			hashed, err := helpers.HashPassword(password)
			if err != nil {
				return nil, err
			}
			filtered["hashed_password"] = hashed
		case userUpdatableFields[key]:
			if s, ok := value.(string); ok {
				if key == "email" {
					value = helpers.NormalizeEmail(s)
				} else {
					value = helpers.SanitizeText(s)
				}
			}
			filtered[key] = value
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no updatable fields provided: %w", models.ErrInvalidInput)
	}

	return us.userRepo.UpdateUser(ctx, id, filtered)
}

func (us *UserService) DeleteUser(ctx context.Context, id, actorID primitive.ObjectID) error {
	if err := CanModify(actorID, id); err != nil {
		return err
	}
	return us.userRepo.DeleteUser(ctx, id)
}
