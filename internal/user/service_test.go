package user

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) UpdateProfile(ctx context.Context, id string, params UpdateProfileParams) (*User, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func TestService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		var created *User
		repo.On("Create", ctx, mock.AnythingOfType("*user.User")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*User) }).
			Return(nil)

		u, err := svc.Signup(ctx, SignupParams{
			Name:     "Ada",
			Email:    " Ada@Example.com ",
			Password: "supersecret",
		})
		require.NoError(t, err)

		assert.Equal(t, "ada@example.com", u.Email)
		assert.NotEqual(t, "supersecret", created.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("supersecret")))
	})

	t.Run("ShortPassword", func(t *testing.T) {
		svc := NewService(new(MockRepository))
		_, err := svc.Signup(ctx, SignupParams{Name: "Ada", Email: "a@b.com", Password: "short"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("Create", ctx, mock.Anything).Return(&pq.Error{Code: "23505"})

		_, err := svc.Signup(ctx, SignupParams{Name: "Ada", Email: "a@b.com", Password: "supersecret"})
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &User{ID: "user_1", Email: "ada@example.com", PasswordHash: string(hash)}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("GetByEmail", ctx, "ada@example.com").Return(stored, nil)

		u, err := svc.Authenticate(ctx, "Ada@Example.com", "supersecret")
		require.NoError(t, err)
		assert.Equal(t, "user_1", u.ID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("GetByEmail", ctx, "ada@example.com").Return(stored, nil)

		_, err := svc.Authenticate(ctx, "ada@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, ErrUserNotFound)

		// Unknown email and wrong password are indistinguishable to callers.
		_, err := svc.Authenticate(ctx, "ghost@example.com", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
