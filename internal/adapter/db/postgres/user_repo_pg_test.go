package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	domain "user-directory-service/internal/domain/user"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&UserSchema{})
	require.NoError(t, err)

	return db
}

func setupTestRepo(t *testing.T) *UserRepoPG {
	return NewUserRepoPG(setupTestDB(t), zaptest.NewLogger(t))
}

func testUser(email string) *domain.User {
	return &domain.User{
		FullName:  "Ana Souza",
		Email:     email,
		Phone:     "11999999999",
		BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		UserType:  domain.TypeViewer,
	}
}

func TestUserRepoPG_SaveAssignsID(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Save(ctx, testUser("ana@x.com"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "ana@x.com", created.Email)
}

func TestUserRepoPG_FindByID(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Save(ctx, testUser("ana@x.com"))
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Ana Souza", found.FullName)
	assert.Equal(t, domain.TypeViewer, found.UserType)
	assert.True(t, created.BirthDate.Equal(found.BirthDate))
}

func TestUserRepoPG_FindByID_Absent(t *testing.T) {
	repo := setupTestRepo(t)

	found, err := repo.FindByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestUserRepoPG_FindByEmail_ExactMatchOnly(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, testUser("Ana@x.com"))
	require.NoError(t, err)

	found, err := repo.FindByEmail(ctx, "Ana@x.com")
	require.NoError(t, err)
	require.NotNil(t, found)

	absent, err := repo.FindByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestUserRepoPG_FindAll(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = repo.Save(ctx, testUser("ana@x.com"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, testUser("bruno@x.com"))
	require.NoError(t, err)

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUserRepoPG_ExistsByID(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Save(ctx, testUser("ana@x.com"))
	require.NoError(t, err)

	exists, err := repo.ExistsByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByID(ctx, created.ID+100)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepoPG_SaveReplacesWholesale(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Save(ctx, testUser("ana@x.com"))
	require.NoError(t, err)

	replacement := &domain.User{
		ID:        created.ID,
		FullName:  "Ana Updated",
		Email:     "ana.updated@x.com",
		Phone:     "11888887777",
		BirthDate: time.Date(1991, 2, 2, 0, 0, 0, 0, time.UTC),
		UserType:  domain.TypeEditor,
	}

	updated, err := repo.Save(ctx, replacement)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Ana Updated", found.FullName)
	assert.Equal(t, "ana.updated@x.com", found.Email)
	assert.Equal(t, domain.TypeEditor, found.UserType)
}

func TestUserRepoPG_UniqueEmailConstraint(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, testUser("ana@x.com"))
	require.NoError(t, err)

	// The unique index catches what a racing create slips past the
	// orchestrator's check
	_, err = repo.Save(ctx, testUser("ana@x.com"))
	require.Error(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserRepoPG_DeleteByID_Idempotent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Save(ctx, testUser("ana@x.com"))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByID(ctx, created.ID))

	exists, err := repo.ExistsByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting an absent id is not an error at the store boundary
	require.NoError(t, repo.DeleteByID(ctx, created.ID))
}
