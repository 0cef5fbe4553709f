package promptlane_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	promptlane "github.com/promptlane/promptlane-go"
	"github.com/promptlane/promptlane-go/api"
	"github.com/promptlane/promptlane-go/internal/mocks"
	"github.com/promptlane/promptlane-go/models"
)

func TestWriteThroughRequiresAPIConnection(t *testing.T) {
	ctx := context.Background()
	db := &mocks.RelationConnection{}

	teams, err := promptlane.NewTeams(db, nil, nil)
	require.NoError(t, err)

	_, err = teams.Create(ctx, models.TeamCreate{Name: "core"})
	require.ErrorIs(t, err, promptlane.ErrAPIConnectionRequired)

	_, err = teams.Update(ctx, uuid.New(), models.TeamUpdate{})
	require.ErrorIs(t, err, promptlane.ErrAPIConnectionRequired)

	_, err = teams.Delete(ctx, uuid.New())
	require.ErrorIs(t, err, promptlane.ErrAPIConnectionRequired)

	_, err = teams.AddMember(ctx, uuid.New(), uuid.New(), "editor")
	require.ErrorIs(t, err, promptlane.ErrAPIConnectionRequired)

	users, err := promptlane.NewUsers(db, nil, nil)
	require.NoError(t, err)

	_, err = users.Invite(ctx, "a@example.com", "")
	require.ErrorIs(t, err, promptlane.ErrAPIConnectionRequired)

	_, err = users.Activate(ctx, uuid.New())
	require.ErrorIs(t, err, promptlane.ErrAPIConnectionRequired)

	_, err = users.ChangePassword(ctx, uuid.New(), "old", "new")
	require.ErrorIs(t, err, promptlane.ErrAPIConnectionRequired)

	// The database connection never sees any of it.
	db.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	db.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	db.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestWriteThroughMixedModeWritesUseAPI(t *testing.T) {
	ctx := context.Background()
	teamID := uuid.New()

	db := &mocks.RelationConnection{}
	apiConn := &mocks.Connection{}
	apiConn.On("Update", ctx, "teams", teamID.String(), mock.Anything, mock.Anything).Return(nil)
	apiConn.On("Create", ctx, "teams/"+teamID.String()+"/members", mock.Anything, mock.Anything).Return(nil)

	teams, err := promptlane.NewTeams(db, apiConn, nil)
	require.NoError(t, err)
	require.Equal(t, promptlane.ModeMixed, teams.Mode())

	_, err = teams.Update(ctx, teamID, models.TeamUpdate{})
	require.NoError(t, err)

	_, err = teams.AddMember(ctx, teamID, uuid.New(), "editor")
	require.NoError(t, err)

	apiConn.AssertExpectations(t)
	db.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	db.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWriteThroughReadsStillUseDatabase(t *testing.T) {
	ctx := context.Background()

	db := &mocks.RelationConnection{}
	apiConn := &mocks.Connection{}
	db.On("List", ctx, "users", mock.Anything, mock.Anything).Return(nil)

	users, err := promptlane.NewUsers(db, apiConn, nil)
	require.NoError(t, err)

	_, err = users.List(ctx)
	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestWriteThroughRetagsErrorKinds(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		kind error
	}{
		{"authentication", api.ErrAuthentication},
		{"validation", api.ErrValidation},
		{"not found", api.ErrNotFound},
		{"rate limit", api.ErrRateLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			apiConn := &mocks.Connection{}
			apiConn.On("Create", ctx, "teams", mock.Anything, mock.Anything).Return(tc.kind)

			teams, err := promptlane.NewTeams(nil, apiConn, nil)
			require.NoError(t, err)

			_, err = teams.Create(ctx, models.TeamCreate{Name: "core"})
			require.ErrorIs(t, err, tc.kind)
			require.Contains(t, err.Error(), "create teams")
		})
	}
}

func TestWriteThroughWrapsUnknownErrors(t *testing.T) {
	ctx := context.Background()

	apiConn := &mocks.Connection{}
	apiConn.On("Create", ctx, "users/invite", mock.Anything, mock.Anything).Return(errors.New("boom"))

	users, err := promptlane.NewUsers(nil, apiConn, nil)
	require.NoError(t, err)

	_, err = users.Invite(ctx, "a@example.com", "Ada")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Contains(t, apiErr.Detail, "invite user")
	require.Contains(t, apiErr.Detail, "boom")
}

func TestTeamMembersPureDatabaseUsesJoin(t *testing.T) {
	ctx := context.Background()
	teamID := uuid.New()
	member := models.User{Base: models.Base{ID: uuid.New()}, Email: "m@example.com"}

	db := &mocks.RelationConnection{}
	db.On("TeamMembers", ctx, teamID.String()).Return([]models.User{member}, nil)

	teams, err := promptlane.NewTeams(db, nil, nil)
	require.NoError(t, err)

	got, err := teams.Members(ctx, teamID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, member.ID, got[0].ID)
	db.AssertExpectations(t)
}

func TestUserTeamsMixedModeUsesAPI(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	db := &mocks.RelationConnection{}
	apiConn := &mocks.Connection{}
	apiConn.On("List", ctx, "users/"+userID.String()+"/teams", mock.Anything, mock.Anything).Return(nil)

	users, err := promptlane.NewUsers(db, apiConn, nil)
	require.NoError(t, err)

	_, err = users.Teams(ctx, userID)
	require.NoError(t, err)
	apiConn.AssertExpectations(t)
	db.AssertNotCalled(t, "UserTeams", mock.Anything, mock.Anything)
}
