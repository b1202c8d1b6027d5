package user

import (
	"time"

	domain "user-directory-service/internal/domain/user"
)

// UserInput carries the full set of user fields for create and update.
// Updates are full replacements, so both operations take every field; an
// omitted field is an empty field, never an inherited one.
type UserInput struct {
	FullName  string          `validate:"required"`
	Email     string          `validate:"required,email"`
	Phone     string          `validate:"required"`
	BirthDate time.Time       `validate:"required"`
	UserType  domain.UserType `validate:"required"`
}
