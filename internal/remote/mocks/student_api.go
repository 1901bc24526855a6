// Package mocks provides testify mocks for the remote package.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/aanand-mishra/sinja/internal/remote"
	"github.com/aanand-mishra/sinja/internal/types"
)

// StudentAPI is a mock implementation of remote.StudentAPI.
type StudentAPI struct {
	mock.Mock
}

var _ remote.StudentAPI = (*StudentAPI)(nil)

// NewStudentAPI creates a mock and asserts its expectations on cleanup.
func NewStudentAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *StudentAPI {
	m := &StudentAPI{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *StudentAPI) Exists(ctx context.Context, id int64) remote.ExistsResult {
	args := m.Called(ctx, id)
	return args.Get(0).(remote.ExistsResult)
}

func (m *StudentAPI) Create(ctx context.Context, rec types.StudentRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *StudentAPI) Remove(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
