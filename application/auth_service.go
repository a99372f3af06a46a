package application

import (
	"context"
	"errors"
	"fmt"

	"fixtrack/domain/contracts"
	"fixtrack/domain/staff"
	"fixtrack/logging"
)

// ErrInvalidCredentials is returned on a failed login. It carries no
// detail about which part of the pair was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService handles staff login against the staff table and the
// resulting sessions.
type AuthService struct {
	staffRepo contracts.StaffRepository
	sessions  *SessionManager
	logger    *logging.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(staffRepo contracts.StaffRepository, sessions *SessionManager) *AuthService {
	return &AuthService{
		staffRepo: staffRepo,
		sessions:  sessions,
		logger:    logging.Default().WithComponent("auth_service"),
	}
}

// Login checks the credential pair verbatim against the staff table
// and opens a session on success.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	member, err := s.staffRepo.FindByCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			s.logger.Security("Login failed", "username", username)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login lookup failed: %w", err)
	}

	session := s.sessions.Open(member)
	s.logger.Security("Login succeeded", "username", username, "role", member.Role)
	return session, nil
}

// Logout closes the session for the given token. Unknown tokens are a
// no-op.
func (s *AuthService) Logout(token string) {
	s.sessions.Close(token)
	s.logger.Security("Session closed")
}

// Authenticate resolves a session token to the logged-in staff member.
func (s *AuthService) Authenticate(token string) (*staff.Staff, bool) {
	return s.sessions.Resolve(token)
}

// ListStaff returns all staff accounts, for the engineer dropdown.
func (s *AuthService) ListStaff(ctx context.Context) ([]*staff.Staff, error) {
	return s.staffRepo.ListStaff(ctx)
}
