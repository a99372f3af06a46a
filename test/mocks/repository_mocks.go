package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fixtrack/domain/repair"
	"fixtrack/domain/staff"
)

// MockJobRepository implements JobRepository for testing
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) ListJobs(ctx context.Context) ([]*repair.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repair.Job), args.Error(1)
}

func (m *MockJobRepository) GetJob(ctx context.Context, id string) (*repair.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repair.Job), args.Error(1)
}

func (m *MockJobRepository) InsertJob(ctx context.Context, job *repair.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) UpdateJob(ctx context.Context, job *repair.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) ListJobSheetNumbers(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockStaffRepository implements StaffRepository for testing
type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) FindByCredentials(ctx context.Context, username, password string) (*staff.Staff, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staff.Staff), args.Error(1)
}

func (m *MockStaffRepository) ListStaff(ctx context.Context) ([]*staff.Staff, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*staff.Staff), args.Error(1)
}
