package promptlane_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	promptlane "github.com/promptlane/promptlane-go"
	"github.com/promptlane/promptlane-go/internal/mocks"
	"github.com/promptlane/promptlane-go/models"
)

func projectFixture() models.Project {
	return models.Project{
		Base: models.Base{ID: uuid.New()},
		Name: "Search",
		Key:  "search",
	}
}

func TestResourceRequiresConnection(t *testing.T) {
	_, err := promptlane.NewProjects(nil, nil, nil)
	require.ErrorIs(t, err, promptlane.ErrNoConnection)
}

func TestMixedModeReadsUseDatabase(t *testing.T) {
	ctx := context.Background()
	fixture := projectFixture()

	db := &mocks.Connection{}
	apiConn := &mocks.Connection{}
	db.On("List", ctx, "projects", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(3).(*[]models.Project) = []models.Project{fixture}
		}).
		Return(nil)

	projects, err := promptlane.NewProjects(db, apiConn, nil)
	require.NoError(t, err)
	require.Equal(t, promptlane.ModeMixed, projects.Mode())

	got, err := projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, fixture.ID, got[0].ID)

	db.AssertExpectations(t)
	apiConn.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMixedModeForceAPIReadsUseAPI(t *testing.T) {
	ctx := context.Background()

	db := &mocks.Connection{}
	apiConn := &mocks.Connection{}
	apiConn.On("List", ctx, "projects", mock.Anything, mock.Anything).Return(nil)

	projects, err := promptlane.NewProjects(db, apiConn, nil)
	require.NoError(t, err)

	_, err = projects.List(ctx, promptlane.ForceAPI())
	require.NoError(t, err)

	apiConn.AssertExpectations(t)
	db.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMixedModeWritesUseAPI(t *testing.T) {
	ctx := context.Background()
	fixture := projectFixture()

	db := &mocks.Connection{}
	apiConn := &mocks.Connection{}
	apiConn.On("Create", ctx, "projects", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(3).(*models.Project) = fixture
		}).
		Return(nil)
	apiConn.On("Update", ctx, "projects", fixture.ID.String(), mock.Anything, mock.Anything).Return(nil)
	apiConn.On("Delete", ctx, "projects", fixture.ID.String()).Return(true, nil)

	projects, err := promptlane.NewProjects(db, apiConn, nil)
	require.NoError(t, err)

	created, err := projects.Create(ctx, models.ProjectCreate{Name: "Search", Key: "search"})
	require.NoError(t, err)
	require.Equal(t, fixture.ID, created.ID)

	_, err = projects.Update(ctx, fixture.ID, models.ProjectUpdate{})
	require.NoError(t, err)

	ok, err := projects.Delete(ctx, fixture.ID)
	require.NoError(t, err)
	require.True(t, ok)

	apiConn.AssertExpectations(t)
	db.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	db.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	db.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestDatabaseModeWritesUseDatabase(t *testing.T) {
	ctx := context.Background()

	db := &mocks.Connection{}
	db.On("Create", ctx, "projects", mock.Anything, mock.Anything).Return(nil)

	projects, err := promptlane.NewProjects(db, nil, nil)
	require.NoError(t, err)
	require.Equal(t, promptlane.ModeDatabase, projects.Mode())

	_, err = projects.Create(ctx, models.ProjectCreate{Name: "Search", Key: "search"})
	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestAPIModeRoutesEverythingToAPI(t *testing.T) {
	ctx := context.Background()

	apiConn := &mocks.Connection{}
	apiConn.On("List", ctx, "activities", mock.Anything, mock.Anything).Return(nil)
	apiConn.On("Create", ctx, "activities", mock.Anything, mock.Anything).Return(nil)

	activities, err := promptlane.NewActivities(nil, apiConn, nil)
	require.NoError(t, err)
	require.Equal(t, promptlane.ModeAPI, activities.Mode())

	_, err = activities.List(ctx)
	require.NoError(t, err)
	_, err = activities.Create(ctx, models.ActivityCreate{ActivityType: "login"})
	require.NoError(t, err)
	apiConn.AssertExpectations(t)
}

func TestGetCoercesIdentifierToString(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	db := &mocks.Connection{}
	db.On("Get", ctx, "projects", id.String(), mock.Anything).Return(true, nil)

	projects, err := promptlane.NewProjects(db, nil, nil)
	require.NoError(t, err)

	// Passed as uuid.UUID, dispatched as its string form.
	_, err = projects.Get(ctx, id)
	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestGetDatabaseMissReturnsNil(t *testing.T) {
	ctx := context.Background()

	db := &mocks.Connection{}
	db.On("Get", ctx, "projects", "nope", mock.Anything).Return(false, nil)

	projects, err := promptlane.NewProjects(db, nil, nil)
	require.NoError(t, err)

	got, err := projects.Get(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestListForUserFilters(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	db := &mocks.Connection{}
	db.On("List", ctx, "activities", map[string]string{"user_id": userID.String()}, mock.Anything).Return(nil)

	activities, err := promptlane.NewActivities(db, nil, nil)
	require.NoError(t, err)

	_, err = activities.ListForUser(ctx, userID)
	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestListPropagatesBackendError(t *testing.T) {
	ctx := context.Background()
	backendErr := errors.New("connection refused")

	db := &mocks.Connection{}
	db.On("List", ctx, "projects", mock.Anything, mock.Anything).Return(backendErr)

	projects, err := promptlane.NewProjects(db, nil, nil)
	require.NoError(t, err)

	_, err = projects.List(ctx)
	require.ErrorIs(t, err, backendErr)
}
