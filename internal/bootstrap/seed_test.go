package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-directory-service/internal/domain/user"
	usecase "user-directory-service/internal/usecase/user"
	apperrors "user-directory-service/pkg/errors"
)

type mockUsecase struct {
	mock.Mock
}

func (m *mockUsecase) CreateUser(ctx context.Context, in usecase.UserInput) (*domain.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUsecase) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUsecase) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUsecase) UpdateUser(ctx context.Context, id int64, in usecase.UserInput) (*domain.User, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUsecase) DeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

const seedPayload = `[
	{"fullName": "Remote One", "email": "one@remote.com", "phone": "11911111111", "birthDate": "1990-01-01", "userType": "ADMIN"},
	{"fullName": "Remote Two", "email": "two@remote.com", "phone": "11922222222", "birthDate": "1992-02-02", "userType": "VIEWER"}
]`

func TestSeeder_Run_InsertsFetchedUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(seedPayload))
	}))
	defer srv.Close()

	uc := new(mockUsecase)
	uc.On("CreateUser", mock.Anything, mock.MatchedBy(func(in usecase.UserInput) bool {
		return in.Email == "one@remote.com" && in.UserType == domain.TypeAdmin
	})).Return(&domain.User{ID: 1}, nil).Once()
	uc.On("CreateUser", mock.Anything, mock.MatchedBy(func(in usecase.UserInput) bool {
		return in.Email == "two@remote.com" && in.UserType == domain.TypeViewer
	})).Return(&domain.User{ID: 2}, nil).Once()

	seeder := NewSeeder(uc, srv.URL, time.Second, zaptest.NewLogger(t))
	seeder.Run(context.Background())

	uc.AssertExpectations(t)
}

func TestSeeder_Run_FallsBackWhenFetchFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	uc := new(mockUsecase)
	uc.On("CreateUser", mock.Anything, mock.Anything).Return(&domain.User{ID: 1}, nil)

	seeder := NewSeeder(uc, srv.URL, time.Second, zaptest.NewLogger(t))
	seeder.Run(context.Background())

	// The embedded fixture drives the inserts instead
	fallback := fallbackSeedUsers(zaptest.NewLogger(t))
	require.NotEmpty(t, fallback)
	uc.AssertNumberOfCalls(t, "CreateUser", len(fallback))
}

func TestSeeder_Run_FallsBackOnMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	uc := new(mockUsecase)
	uc.On("CreateUser", mock.Anything, mock.Anything).Return(&domain.User{ID: 1}, nil)

	seeder := NewSeeder(uc, srv.URL, time.Second, zaptest.NewLogger(t))
	seeder.Run(context.Background())

	fallback := fallbackSeedUsers(zaptest.NewLogger(t))
	uc.AssertNumberOfCalls(t, "CreateUser", len(fallback))
}

func TestSeeder_Run_EmptyURLUsesFallbackSet(t *testing.T) {
	uc := new(mockUsecase)
	uc.On("CreateUser", mock.Anything, mock.Anything).Return(&domain.User{ID: 1}, nil)

	seeder := NewSeeder(uc, "", time.Second, zaptest.NewLogger(t))
	seeder.Run(context.Background())

	fallback := fallbackSeedUsers(zaptest.NewLogger(t))
	require.NotEmpty(t, fallback)
	uc.AssertNumberOfCalls(t, "CreateUser", len(fallback))
}

func TestSeeder_Run_DuplicatesAreSkippedQuietly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(seedPayload))
	}))
	defer srv.Close()

	uc := new(mockUsecase)
	uc.On("CreateUser", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewConflictError("email", "email already exists"))

	seeder := NewSeeder(uc, srv.URL, time.Second, zaptest.NewLogger(t))

	// A populated store must not make seeding fail or panic
	seeder.Run(context.Background())

	uc.AssertNumberOfCalls(t, "CreateUser", 2)
}

func TestSeeder_Run_MalformedEntryIsSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"fullName": "Bad Date", "email": "bad@remote.com", "phone": "1", "birthDate": "01/01/1990", "userType": "ADMIN"},
			{"fullName": "Good", "email": "good@remote.com", "phone": "11911111111", "birthDate": "1990-01-01", "userType": "ADMIN"}
		]`))
	}))
	defer srv.Close()

	uc := new(mockUsecase)
	uc.On("CreateUser", mock.Anything, mock.MatchedBy(func(in usecase.UserInput) bool {
		return in.Email == "good@remote.com"
	})).Return(&domain.User{ID: 1}, nil).Once()

	seeder := NewSeeder(uc, srv.URL, time.Second, zaptest.NewLogger(t))
	seeder.Run(context.Background())

	uc.AssertExpectations(t)
	uc.AssertNumberOfCalls(t, "CreateUser", 1)
}

func TestFallbackSeedUsers_FixtureDecodes(t *testing.T) {
	seeds := fallbackSeedUsers(zaptest.NewLogger(t))

	require.NotEmpty(t, seeds)
	for _, s := range seeds {
		in, err := toInput(s)
		require.NoError(t, err)
		assert.True(t, in.UserType.Valid())
	}
}
