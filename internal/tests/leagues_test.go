package tests_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/uksimracing/website/internal/auth"
	"github.com/uksimracing/website/internal/leagues"
	"github.com/uksimracing/website/internal/tests"
)

func leaguesRouter(t *testing.T) *gin.Engine {
	t.Helper()

	router := fixture.CreateRouter()
	leagues.NewLeaguesHandler(router, leagues.NewLeagues(leagues.NewRepository(fixture.Database)), auth.NewAuthentication(false))

	return router
}

func createLeague(t *testing.T, router *gin.Engine, name string, status string) leagues.League {
	t.Helper()

	var created leagues.League

	tests.EndpointReceiver(t, router, http.MethodPost, "/api/leagues", map[string]any{
		"name":                name,
		"registration_status": status,
	}, http.StatusCreated, tests.MasterTokens(), &created)

	require.True(t, created.IsActive)

	return created
}

func TestLeaguesOrderedByRegistrationStatus(t *testing.T) {
	fixture.Reset(t.Context())
	router := leaguesRouter(t)

	createLeague(t, router, "GT3 Championship", leagues.StatusClosed)
	createLeague(t, router, "Formula Rookies", leagues.StatusActive)
	createLeague(t, router, "Endurance Cup", leagues.StatusReserve)
	createLeague(t, router, "Mystery League", "tba")

	var listing []leagues.League
	tests.EndpointReceiver(t, router, http.MethodGet, "/api/leagues", nil, http.StatusOK, nil, &listing)
	require.Len(t, listing, 4)

	require.Equal(t, "Formula Rookies", listing[0].Name)
	require.Equal(t, "Endurance Cup", listing[1].Name)
	require.Equal(t, "GT3 Championship", listing[2].Name)
	require.Equal(t, "Mystery League", listing[3].Name)
}

func TestLeaguesArchiveHidesFromPublicListing(t *testing.T) {
	fixture.Reset(t.Context())
	router := leaguesRouter(t)

	league := createLeague(t, router, "Winter Series", leagues.StatusActive)

	var archived leagues.League
	tests.EndpointReceiver(t, router, http.MethodPut, fmt.Sprintf("/api/leagues/%d/archive", league.LeagueID),
		map[string]bool{"archived": true}, http.StatusOK, tests.MasterTokens(), &archived)
	require.True(t, archived.IsArchived)

	var listing []leagues.League
	tests.EndpointReceiver(t, router, http.MethodGet, "/api/leagues", nil, http.StatusOK, nil, &listing)
	require.Empty(t, listing)

	// Unarchiving restores the league without touching its content.
	var restored leagues.League
	tests.EndpointReceiver(t, router, http.MethodPut, fmt.Sprintf("/api/leagues/%d/archive", league.LeagueID),
		map[string]bool{"archived": false}, http.StatusOK, tests.MasterTokens(), &restored)
	require.False(t, restored.IsArchived)
	require.Equal(t, "Winter Series", restored.Name)

	tests.EndpointReceiver(t, router, http.MethodGet, "/api/leagues", nil, http.StatusOK, nil, &listing)
	require.Len(t, listing, 1)

	tests.Endpoint(t, router, http.MethodPut, "/api/leagues/99999/archive",
		map[string]bool{"archived": true}, http.StatusNotFound, tests.MasterTokens())
}
