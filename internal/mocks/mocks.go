// Package mocks provides testify doubles for the backend connection
// contract.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/promptlane/promptlane-go/models"
)

// Connection is a mock for promptlane.Connection. Tests populate out
// arguments through Run hooks.
type Connection struct {
	mock.Mock
}

func (m *Connection) List(ctx context.Context, resource string, filters map[string]string, out any) error {
	args := m.Called(ctx, resource, filters, out)
	return args.Error(0)
}

func (m *Connection) Get(ctx context.Context, resource, idOrKey string, out any) (bool, error) {
	args := m.Called(ctx, resource, idOrKey, out)
	return args.Bool(0), args.Error(1)
}

func (m *Connection) Create(ctx context.Context, resource string, data any, out any) error {
	args := m.Called(ctx, resource, data, out)
	return args.Error(0)
}

func (m *Connection) Update(ctx context.Context, resource, idOrKey string, data any, out any) error {
	args := m.Called(ctx, resource, idOrKey, data, out)
	return args.Error(0)
}

func (m *Connection) Delete(ctx context.Context, resource, idOrKey string) (bool, error) {
	args := m.Called(ctx, resource, idOrKey)
	return args.Bool(0), args.Error(1)
}

// RelationConnection additionally mocks the database backend's
// membership join queries.
type RelationConnection struct {
	Connection
}

func (m *RelationConnection) TeamMembers(ctx context.Context, teamID string) ([]models.User, error) {
	args := m.Called(ctx, teamID)
	if users, ok := args.Get(0).([]models.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RelationConnection) UserTeams(ctx context.Context, userID string) ([]models.Team, error) {
	args := m.Called(ctx, userID)
	if teams, ok := args.Get(0).([]models.Team); ok {
		return teams, args.Error(1)
	}
	return nil, args.Error(1)
}
