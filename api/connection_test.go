package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/promptlane/promptlane-go/api"
	"github.com/promptlane/promptlane-go/internal/apitest"
	"github.com/promptlane/promptlane-go/models"
)

func newConn(t *testing.T) (*api.Connection, *apitest.Server) {
	t.Helper()

	srv, err := apitest.New("secret")
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	conn := api.New(srv.URL(), "secret",
		api.WithMaxRetries(2),
		api.WithRetryWait(time.Millisecond, 5*time.Millisecond),
	)
	t.Cleanup(conn.Close)

	return conn, srv
}

func TestStatusErrorMapping(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		status int
		// retryable statuses must be injected often enough to outlast
		// the retry budget
		times int
		want  error
	}{
		{name: "unauthorized", status: 401, times: 1, want: api.ErrAuthentication},
		{name: "forbidden", status: 403, times: 1, want: api.ErrAuthentication},
		{name: "not found", status: 404, times: 1, want: api.ErrNotFound},
		{name: "validation", status: 422, times: 1, want: api.ErrValidation},
		{name: "rate limited", status: 429, times: 3, want: api.ErrRateLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, srv := newConn(t)
			srv.FailNext(http.MethodGet, "/v1/projects", tt.status, tt.times)

			var out []models.Project
			err := conn.List(ctx, "projects", nil, &out)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestServerErrorCarriesStatus(t *testing.T) {
	ctx := context.Background()
	conn, srv := newConn(t)
	srv.FailNext(http.MethodGet, "/v1/projects", 500, 3)

	var out []models.Project
	err := conn.List(ctx, "projects", nil, &out)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 500, apiErr.Status)
	require.Contains(t, apiErr.Detail, "injected failure")
}

func TestRetryRecoversFromTransientFailures(t *testing.T) {
	ctx := context.Background()
	conn, srv := newConn(t)

	seeded := srv.AddProject(models.Project{Name: "Search", Key: "search"})
	srv.FailNext(http.MethodGet, "/v1/projects", 500, 2)

	var out []models.Project
	require.NoError(t, conn.List(ctx, "projects", nil, &out))
	require.Len(t, out, 1)
	require.Equal(t, seeded.ID, out[0].ID)
}

func TestRetryGivesUpAfterBudget(t *testing.T) {
	ctx := context.Background()

	srv, err := apitest.New("secret")
	require.NoError(t, err)
	defer srv.Close()

	conn := api.New(srv.URL(), "secret",
		api.WithMaxRetries(1),
		api.WithRetryWait(time.Millisecond, 5*time.Millisecond),
	)
	defer conn.Close()

	srv.FailNext(http.MethodGet, "/v1/projects", 503, 2)

	var out []models.Project
	err = conn.List(ctx, "projects", nil, &out)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 503, apiErr.Status)
}

func TestBadCredentialsAreAuthenticationErrors(t *testing.T) {
	ctx := context.Background()

	srv, err := apitest.New("secret")
	require.NoError(t, err)
	defer srv.Close()

	conn := api.New(srv.URL(), "wrong")
	defer conn.Close()

	var out []models.Project
	err = conn.List(ctx, "projects", nil, &out)
	require.ErrorIs(t, err, api.ErrAuthentication)
}

func TestCRUDRoundTrip(t *testing.T) {
	ctx := context.Background()
	conn, _ := newConn(t)

	var created models.Project
	require.NoError(t, conn.Create(ctx, "projects", models.ProjectCreate{
		Name: "Search", Key: "search", Description: "relevance work",
	}, &created))
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, "search", created.Key)

	var byID models.Project
	found, err := conn.Get(ctx, "projects", created.ID.String(), &byID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, created.ID, byID.ID)

	// key fallback resolves the same entity
	var byKey models.Project
	found, err = conn.Get(ctx, "projects", "search", &byKey)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, created.ID, byKey.ID)

	desc := "updated"
	var updated models.Project
	require.NoError(t, conn.Update(ctx, "projects", created.ID.String(), models.ProjectUpdate{
		Description: &desc,
	}, &updated))
	require.Equal(t, "updated", updated.Description)

	ok, err := conn.Delete(ctx, "projects", created.ID.String())
	require.NoError(t, err)
	require.True(t, ok)

	var missing models.Project
	_, err = conn.Get(ctx, "projects", created.ID.String(), &missing)
	require.ErrorIs(t, err, api.ErrNotFound)
}

func TestListPassesFilters(t *testing.T) {
	ctx := context.Background()
	conn, srv := newConn(t)

	teamID := uuid.New()
	srv.AddProject(models.Project{Name: "A", Key: "a", TeamID: teamID})
	srv.AddProject(models.Project{Name: "B", Key: "b", TeamID: uuid.New()})

	var out []models.Project
	require.NoError(t, conn.List(ctx, "projects", map[string]string{"team_id": teamID.String()}, &out))
	require.Len(t, out, 1)
	require.Equal(t, "a", out[0].Key)
}

func TestContextCancellationStopsRetries(t *testing.T) {
	conn, srv := newConn(t)
	srv.FailNext(http.MethodGet, "/v1/projects", 500, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out []models.Project
	err := conn.List(ctx, "projects", nil, &out)
	require.Error(t, err)
}
