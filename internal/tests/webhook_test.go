package tests_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uksimracing/website/internal/tests"
)

func webhookTokens() *tests.Tokens {
	return &tests.Tokens{WebhookSecret: tests.WebhookSecret}
}

func TestWebhookRejectsBadSecret(t *testing.T) {
	fixture.Reset(t.Context())
	router := newsRouter(t)

	body := map[string]any{"content": "hello world", "author": "Bot", "message_id": "m1"}

	tests.Endpoint(t, router, http.MethodPost, "/webhook/discord", body, http.StatusUnauthorized, nil)
	tests.Endpoint(t, router, http.MethodPost, "/webhook/discord", body, http.StatusUnauthorized,
		&tests.Tokens{WebhookSecret: "wrong"})
}

func TestWebhookIngestsMessage(t *testing.T) {
	fixture.Reset(t.Context())
	router := newsRouter(t)

	var result struct {
		Success bool `json:"success"`
		ID      int  `json:"id"`
	}

	tests.EndpointReceiver(t, router, http.MethodPost, "/webhook/discord", map[string]any{
		"content":    "Big Race This Weekend\n\nJoin us at https://uksimracing.co.uk for round 4.",
		"author":     "Race Control in #news on 2 Jan 2026",
		"message_id": "msg-100",
	}, http.StatusOK, webhookTokens(), &result)

	require.True(t, result.Success)
	require.Positive(t, result.ID)

	articles := listArticles(t, router)
	require.Len(t, articles, 1)
	require.Equal(t, "Big Race This Weekend", articles[0].Title)
	require.Contains(t, articles[0].BodyHTML, `<a href="https://uksimracing.co.uk`)
	require.Equal(t, "Race Control in #news on 2 Jan 2026", articles[0].Author)

	// No attachment, so the first rotation image is used.
	require.Equal(t, rotationImages[0], articles[0].ImageURL)
}

func TestWebhookRejectsReplays(t *testing.T) {
	fixture.Reset(t.Context())
	router := newsRouter(t)

	body := map[string]any{
		"content":    "Round 5 entry list posted",
		"author":     "Bot",
		"message_id": "msg-dup",
	}

	tests.Endpoint(t, router, http.MethodPost, "/webhook/discord", body, http.StatusOK, webhookTokens())
	tests.Endpoint(t, router, http.MethodPost, "/webhook/discord", body, http.StatusConflict, webhookTokens())

	require.Len(t, listArticles(t, router), 1)
}

func TestWebhookValidatesPayload(t *testing.T) {
	fixture.Reset(t.Context())
	router := newsRouter(t)

	tests.Endpoint(t, router, http.MethodPost, "/webhook/discord",
		map[string]any{"author": "Bot"}, http.StatusBadRequest, webhookTokens())
	tests.Endpoint(t, router, http.MethodPost, "/webhook/discord",
		map[string]any{"content": "some news update"}, http.StatusBadRequest, webhookTokens())
}

func TestStats(t *testing.T) {
	fixture.Reset(t.Context())
	router := newsRouter(t)

	var stats struct {
		MemberCount int `json:"memberCount"`
	}

	tests.EndpointReceiver(t, router, http.MethodGet, "/api/stats", nil, http.StatusOK, nil, &stats)
	require.Equal(t, 2200, stats.MemberCount)

	tests.Endpoint(t, router, http.MethodPost, "/api/stats",
		map[string]int{"memberCount": 3150}, http.StatusUnauthorized, nil)
	tests.Endpoint(t, router, http.MethodPost, "/api/stats",
		map[string]int{"memberCount": 3150}, http.StatusOK, webhookTokens())

	tests.EndpointReceiver(t, router, http.MethodGet, "/api/stats", nil, http.StatusOK, nil, &stats)
	require.Equal(t, 3150, stats.MemberCount)
}
