package user

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domain "user-directory-service/internal/domain/user"
	apperrors "user-directory-service/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// usecase implements the business logic for user directory operations.
// It is stateless per call: every decision is made from the input plus one
// or two repository lookups, and nothing is cached between calls.
type usecase struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new user Usecase backed by the provided repository.
func New(r Repository, log *zap.Logger) Usecase {
	return &usecase{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a single
// human-readable message. Rules short-circuit: only the first failing rule
// is reported.
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return err
	}

	e := validationErrors[0]
	switch e.Tag() {
	case "required":
		return apperrors.NewValidationError(e.Field(), fmt.Sprintf("%s is required", e.Field()))
	case "email":
		return apperrors.NewValidationError(e.Field(), fmt.Sprintf("%s must be a valid email", e.Field()))
	default:
		return apperrors.NewValidationError(e.Field(), fmt.Sprintf("%s is invalid", e.Field()))
	}
}

// validateInput applies the field rules in declaration order and then the
// closed-set check on the user type. An unrecognized type token is a
// validation failure, never a silent default.
func (uc *usecase) validateInput(in UserInput) error {
	if err := uc.validate.Struct(in); err != nil {
		return formatValidationError(err)
	}
	if !in.UserType.Valid() {
		return apperrors.NewValidationError("UserType",
			fmt.Sprintf("UserType must be one of %s, %s or %s", domain.TypeAdmin, domain.TypeEditor, domain.TypeViewer))
	}
	return nil
}

// CreateUser creates a new user after validating the input and checking
// email uniqueness. A store failure on the final write (including a
// duplicate inserted between check and write by a concurrent create) is
// surfaced as a single store error, never a panic.
func (uc *usecase) CreateUser(ctx context.Context, in UserInput) (*domain.User, error) {
	uc.log.Info("creating user", zap.String("full_name", in.FullName), zap.String("email", in.Email))

	if err := uc.validateInput(in); err != nil {
		uc.log.Warn("create validation failed", zap.Error(err))
		return nil, err
	}

	existing, err := uc.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		uc.log.Error("failed to check email uniqueness", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewStoreError("failed to check email uniqueness", err)
	}
	if existing != nil {
		uc.log.Warn("email already exists", zap.String("email", in.Email))
		return nil, apperrors.NewConflictError("email", "email already exists")
	}

	created, err := uc.repo.Save(ctx, &domain.User{
		FullName:  in.FullName,
		Email:     in.Email,
		Phone:     in.Phone,
		BirthDate: in.BirthDate,
		UserType:  in.UserType,
	})
	if err != nil {
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, apperrors.NewStoreError("failed to create user", err)
	}

	uc.log.Info("user created", zap.Int64("id", created.ID))
	return created, nil
}

// GetUser retrieves a user by ID. Absence is a normal outcome reported as
// a not-found error.
func (uc *usecase) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("id", "invalid user id")
	}

	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		uc.log.Error("failed to get user", zap.Int64("id", id), zap.Error(err))
		return nil, apperrors.NewStoreError("failed to get user", err)
	}
	if u == nil {
		return nil, apperrors.NewNotFoundError("user", fmt.Sprintf("user not found with id %d", id))
	}

	return u, nil
}

// ListUsers returns all users in store iteration order. An empty result is
// a valid outcome; the transport edge distinguishes it from a populated
// one.
func (uc *usecase) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := uc.repo.FindAll(ctx)
	if err != nil {
		uc.log.Error("failed to list users", zap.Error(err))
		return nil, apperrors.NewStoreError("failed to list users", err)
	}
	return users, nil
}

// UpdateUser replaces a stored record wholesale: id plus every field from
// the input. When the submitted email equals the current record's email no
// uniqueness lookup is performed at all, so a record never conflicts with
// itself and the store round-trip is saved.
func (uc *usecase) UpdateUser(ctx context.Context, id int64, in UserInput) (*domain.User, error) {
	uc.log.Info("updating user", zap.Int64("id", id), zap.String("email", in.Email))

	if id <= 0 {
		return nil, apperrors.NewValidationError("id", "invalid user id")
	}

	current, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		uc.log.Error("failed to load user for update", zap.Int64("id", id), zap.Error(err))
		return nil, apperrors.NewStoreError("failed to load user for update", err)
	}
	if current == nil {
		uc.log.Warn("update target not found", zap.Int64("id", id))
		return nil, apperrors.NewNotFoundError("user", fmt.Sprintf("user not found with id %d", id))
	}

	if err := uc.validateInput(in); err != nil {
		uc.log.Warn("update validation failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	if in.Email != current.Email {
		holder, err := uc.repo.FindByEmail(ctx, in.Email)
		if err != nil {
			uc.log.Error("failed to check email uniqueness", zap.String("email", in.Email), zap.Error(err))
			return nil, apperrors.NewStoreError("failed to check email uniqueness", err)
		}
		if holder != nil && holder.ID != id {
			uc.log.Warn("email held by another user", zap.String("email", in.Email), zap.Int64("holder_id", holder.ID))
			return nil, apperrors.NewConflictError("email", "email already exists")
		}
	}

	updated, err := uc.repo.Save(ctx, &domain.User{
		ID:        id,
		FullName:  in.FullName,
		Email:     in.Email,
		Phone:     in.Phone,
		BirthDate: in.BirthDate,
		UserType:  in.UserType,
	})
	if err != nil {
		uc.log.Error("failed to update user", zap.Int64("id", id), zap.Error(err))
		return nil, apperrors.NewStoreError("failed to update user", err)
	}

	uc.log.Info("user updated", zap.Int64("id", updated.ID))
	return updated, nil
}

// DeleteUser removes a user by ID. Success is defined as verified absence:
// after the delete call the existence check must come back negative.
func (uc *usecase) DeleteUser(ctx context.Context, id int64) error {
	uc.log.Info("deleting user", zap.Int64("id", id))

	if id <= 0 {
		return apperrors.NewValidationError("id", "invalid user id")
	}

	exists, err := uc.repo.ExistsByID(ctx, id)
	if err != nil {
		uc.log.Error("failed to check user existence", zap.Int64("id", id), zap.Error(err))
		return apperrors.NewStoreError("failed to check user existence", err)
	}
	if !exists {
		uc.log.Warn("delete target does not exist", zap.Int64("id", id))
		return apperrors.NewNotFoundError("user", "user does not exist")
	}

	if err := uc.repo.DeleteByID(ctx, id); err != nil {
		uc.log.Error("failed to delete user", zap.Int64("id", id), zap.Error(err))
		return apperrors.NewStoreError("failed to delete user", err)
	}

	// Post-condition: the record must actually be gone.
	stillExists, err := uc.repo.ExistsByID(ctx, id)
	if err != nil {
		uc.log.Error("failed to verify deletion", zap.Int64("id", id), zap.Error(err))
		return apperrors.NewStoreError("failed to verify deletion", err)
	}
	if stillExists {
		uc.log.Error("user still present after delete", zap.Int64("id", id))
		return apperrors.NewStoreError("user was not removed", nil)
	}

	uc.log.Info("user deleted", zap.Int64("id", id))
	return nil
}
