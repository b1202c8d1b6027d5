package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "user-directory-service/internal/domain/user"
)

// UserRepoPG implements the user Repository interface using PostgreSQL and GORM.
type UserRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	FullName  string    `gorm:"not null"`
	Email     string    `gorm:"not null;unique"`
	Phone     string    `gorm:"not null"`
	BirthDate time.Time `gorm:"not null"`
	UserType  string    `gorm:"not null"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func toDomain(m *UserSchema) *domain.User {
	return &domain.User{
		ID:        m.ID,
		FullName:  m.FullName,
		Email:     m.Email,
		Phone:     m.Phone,
		BirthDate: m.BirthDate,
		UserType:  domain.UserType(m.UserType),
	}
}

func toSchema(u *domain.User) *UserSchema {
	return &UserSchema{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		BirthDate: u.BirthDate,
		UserType:  string(u.UserType),
	}
}

// FindByID retrieves a user by their unique ID. Returns (nil, nil) when no
// record matches.
func (r *UserRepoPG) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, nil
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toDomain(&model), nil
}

// FindByEmail retrieves a user by their email address using an exact string
// match. Returns (nil, nil) when no record matches.
func (r *UserRepoPG) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return toDomain(&model), nil
}

// FindAll retrieves every user in store iteration order.
func (r *UserRepoPG) FindAll(ctx context.Context) ([]domain.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]domain.User, len(models))
	for i := range models {
		users[i] = *toDomain(&models[i])
	}

	return users, nil
}

// ExistsByID reports whether a user row with the given id exists.
func (r *UserRepoPG) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Where("id = ?", id).Count(&count).Error; err != nil {
		r.log.Error("failed to check user existence", zap.Error(err), zap.Int64("id", id))
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

// Save inserts the user when its ID is zero, otherwise replaces the stored
// row wholesale. The unique index on email is the last line of defense
// against a duplicate racing in between check and write.
func (r *UserRepoPG) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	model := toSchema(u)

	if model.ID == 0 {
		if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
			r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		r.log.Info("user created in db", zap.Int64("id", model.ID))
		return toDomain(model), nil
	}

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		r.log.Error("failed to update user in db", zap.Error(err), zap.Int64("id", u.ID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	r.log.Info("user updated in db", zap.Int64("id", model.ID))
	return toDomain(model), nil
}

// DeleteByID removes a user row by ID. Deleting an absent id is not an
// error at this boundary.
func (r *UserRepoPG) DeleteByID(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&UserSchema{}, id).Error; err != nil {
		r.log.Error("failed to delete user in db", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return nil
}
