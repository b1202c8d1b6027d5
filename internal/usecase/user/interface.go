package user

import (
	"context"

	domain "user-directory-service/internal/domain/user"
)

// Repository defines the narrow store contract the orchestrator depends on.
// Lookups return (nil, nil) when no record matches; absence is a normal
// outcome, not an error. All ordering and uniqueness guarantees between
// concurrent calls are the store's responsibility.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// Save inserts when u.ID is zero, otherwise replaces the stored record
	// wholesale. Constraint violations and resource failures come back as
	// store-level errors.
	Save(ctx context.Context, u *domain.User) (*domain.User, error)
	// DeleteByID is idempotent at the store boundary: deleting an absent id
	// is not an error here.
	DeleteByID(ctx context.Context, id int64) error
}

// Usecase defines the user orchestration operations exposed to the
// transport layer.
type Usecase interface {
	CreateUser(ctx context.Context, in UserInput) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id int64, in UserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}
