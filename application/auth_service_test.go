package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fixtrack/application"
	"fixtrack/domain/contracts"
	"fixtrack/domain/staff"
	"fixtrack/test/mocks"
)

func testStaff() *staff.Staff {
	return &staff.Staff{
		ID:       "staff-1",
		Name:     "Ravi Kumar",
		Username: "ravi",
		Password: "ravi123",
		Role:     staff.RoleTechnician,
	}
}

func newAuthService(t *testing.T, staffRepo *mocks.MockStaffRepository) (*application.AuthService, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	sessions := application.NewSessionManager(ctx, time.Hour)
	return application.NewAuthService(staffRepo, sessions), cancel
}

func TestAuthService_Login(t *testing.T) {
	t.Run("valid credentials open a session", func(t *testing.T) {
		staffRepo := &mocks.MockStaffRepository{}
		service, cancel := newAuthService(t, staffRepo)
		defer cancel()

		staffRepo.On("FindByCredentials", mock.Anything, "ravi", "ravi123").Return(testStaff(), nil)

		session, err := service.Login(context.Background(), "ravi", "ravi123")

		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
		assert.Equal(t, "ravi", session.Staff.Username)
		assert.True(t, session.ExpiresAt.After(time.Now()))

		member, ok := service.Authenticate(session.Token)
		require.True(t, ok)
		assert.Equal(t, "staff-1", member.ID)
	})

	t.Run("wrong credentials map to ErrInvalidCredentials", func(t *testing.T) {
		staffRepo := &mocks.MockStaffRepository{}
		service, cancel := newAuthService(t, staffRepo)
		defer cancel()

		staffRepo.On("FindByCredentials", mock.Anything, "ravi", "wrong").
			Return(nil, contracts.ErrNotFound)

		_, err := service.Login(context.Background(), "ravi", "wrong")
		assert.ErrorIs(t, err, application.ErrInvalidCredentials)
	})
}

func TestAuthService_Logout(t *testing.T) {
	staffRepo := &mocks.MockStaffRepository{}
	service, cancel := newAuthService(t, staffRepo)
	defer cancel()

	staffRepo.On("FindByCredentials", mock.Anything, "ravi", "ravi123").Return(testStaff(), nil)

	session, err := service.Login(context.Background(), "ravi", "ravi123")
	require.NoError(t, err)

	service.Logout(session.Token)

	_, ok := service.Authenticate(session.Token)
	assert.False(t, ok)
}

func TestAuthService_Authenticate(t *testing.T) {
	t.Run("unknown token", func(t *testing.T) {
		staffRepo := &mocks.MockStaffRepository{}
		service, cancel := newAuthService(t, staffRepo)
		defer cancel()

		_, ok := service.Authenticate("no-such-token")
		assert.False(t, ok)
	})

	t.Run("expired session", func(t *testing.T) {
		staffRepo := &mocks.MockStaffRepository{}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sessions := application.NewSessionManager(ctx, -time.Minute)
		service := application.NewAuthService(staffRepo, sessions)

		staffRepo.On("FindByCredentials", mock.Anything, "ravi", "ravi123").Return(testStaff(), nil)
		session, err := service.Login(context.Background(), "ravi", "ravi123")
		require.NoError(t, err)

		_, ok := service.Authenticate(session.Token)
		assert.False(t, ok)
	})
}
