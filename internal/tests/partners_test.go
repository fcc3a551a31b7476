package tests_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/uksimracing/website/internal/auth"
	"github.com/uksimracing/website/internal/partners"
	"github.com/uksimracing/website/internal/tests"
)

func partnersRouter(t *testing.T) *gin.Engine {
	t.Helper()

	router := fixture.CreateRouter()
	partners.NewPartnersHandler(router, partners.NewPartners(partners.NewRepository(fixture.Database)), auth.NewAuthentication(false))

	return router
}

func TestPartnersCRUD(t *testing.T) {
	fixture.Reset(t.Context())
	router := partnersRouter(t)

	var created partners.Partner

	tests.EndpointReceiver(t, router, http.MethodPost, "/api/partners", map[string]any{
		"name":         "Apex Wheels",
		"url":          "https://example.com/apex",
		"partner_type": "sponsor",
	}, http.StatusCreated, tests.MasterTokens(), &created)
	require.Positive(t, created.PartnerID)

	var listing []partners.Partner
	tests.EndpointReceiver(t, router, http.MethodGet, "/api/partners", nil, http.StatusOK, nil, &listing)
	require.Len(t, listing, 1)
	require.Equal(t, "Apex Wheels", listing[0].Name)

	var updated partners.Partner
	tests.EndpointReceiver(t, router, http.MethodPut, fmt.Sprintf("/api/partners/%d", created.PartnerID),
		map[string]any{
			"name":         "Apex Wheels UK",
			"url":          "https://example.com/apex",
			"partner_type": "sponsor",
			"is_featured":  true,
		}, http.StatusOK, tests.MasterTokens(), &updated)
	require.Equal(t, "Apex Wheels UK", updated.Name)
	require.True(t, updated.IsFeatured)

	tests.Endpoint(t, router, http.MethodDelete, fmt.Sprintf("/api/partners/%d", created.PartnerID),
		nil, http.StatusOK, tests.MasterTokens())

	tests.EndpointReceiver(t, router, http.MethodGet, "/api/partners", nil, http.StatusOK, nil, &listing)
	require.Empty(t, listing)
}

func TestPartnersReorder(t *testing.T) {
	fixture.Reset(t.Context())
	router := partnersRouter(t)

	ids := make([]int, 0, 3)

	for _, name := range []string{"Alpha", "Bravo", "Charlie"} {
		var created partners.Partner
		tests.EndpointReceiver(t, router, http.MethodPost, "/api/partners",
			map[string]any{"name": name}, http.StatusCreated, tests.MasterTokens(), &created)
		ids = append(ids, created.PartnerID)
	}

	// Move Charlie to the front.
	tests.Endpoint(t, router, http.MethodPost, "/api/partners/reorder", map[string][]int{
		"partner_ids": {ids[2], ids[0], ids[1]},
	}, http.StatusOK, tests.MasterTokens())

	var listing []partners.Partner
	tests.EndpointReceiver(t, router, http.MethodGet, "/api/partners", nil, http.StatusOK, nil, &listing)
	require.Len(t, listing, 3)
	require.Equal(t, "Charlie", listing[0].Name)
	require.Equal(t, "Alpha", listing[1].Name)
	require.Equal(t, "Bravo", listing[2].Name)
}
