package tests_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/uksimracing/website/internal/auth"
	"github.com/uksimracing/website/internal/news"
	"github.com/uksimracing/website/internal/tests"
	"github.com/uksimracing/website/internal/webhook"
)

var rotationImages = []string{"/images/topghost1.jpg", "/images/topghost2.jpg"} //nolint:gochecknoglobals

func newsRouter(t *testing.T) *gin.Engine {
	t.Helper()

	router := fixture.CreateRouter()
	usecase := news.NewNews(news.NewRepository(fixture.Database),
		news.NewImageResolver(fixture.Assets, rotationImages, time.Second))

	news.NewNewsHandler(router, usecase, fixture.Assets, auth.NewAuthentication(false))
	webhook.NewWebhookHandler(router, usecase, webhook.NewStats(), tests.WebhookSecret)

	return router
}

func createArticle(t *testing.T, router *gin.Engine, title string) news.Article {
	t.Helper()

	var created news.Article

	tests.EndpointReceiver(t, router, http.MethodPost, "/api/news", map[string]string{
		"title":     title,
		"body_html": "<p>" + title + "</p>",
		"author":    "Admin",
	}, http.StatusCreated, tests.MasterTokens(), &created)

	require.Positive(t, created.NewsID)

	return created
}

func listArticles(t *testing.T, router *gin.Engine) []news.Article {
	t.Helper()

	var articles []news.Article
	tests.EndpointReceiver(t, router, http.MethodGet, "/api/news", nil, http.StatusOK, nil, &articles)

	return articles
}

func TestNewsRequiresCredentials(t *testing.T) {
	fixture.Reset(t.Context())
	router := newsRouter(t)

	body := map[string]string{"title": "x", "body_html": "<p>x</p>"}

	tests.Endpoint(t, router, http.MethodPost, "/api/news", body, http.StatusUnauthorized, nil)
	tests.Endpoint(t, router, http.MethodPost, "/api/news", body, http.StatusUnauthorized,
		&tests.Tokens{Bearer: "not-a-real-token"})
}

func TestNewsCreateAndOrdering(t *testing.T) {
	fixture.Reset(t.Context())
	router := newsRouter(t)

	require.Empty(t, listArticles(t, router))

	createArticle(t, router, "First")
	createArticle(t, router, "Second")
	createArticle(t, router, "Third")

	articles := listArticles(t, router)
	require.Len(t, articles, 3)

	// Newest articles take the lowest sort_order and list first.
	require.Equal(t, "Third", articles[0].Title)
	require.Equal(t, "Second", articles[1].Title)
	require.Equal(t, "First", articles[2].Title)
	require.Equal(t, -2, articles[0].SortOrder)
	require.Equal(t, -1, articles[1].SortOrder)
	require.Equal(t, 0, articles[2].SortOrder)
}

func TestNewsUpdateAndDelete(t *testing.T) {
	fixture.Reset(t.Context())
	router := newsRouter(t)

	created := createArticle(t, router, "Original")

	var updated news.Article

	tests.EndpointReceiver(t, router, http.MethodPut, fmt.Sprintf("/api/news/%d", created.NewsID), map[string]string{
		"title":     "Renamed",
		"body_html": "<p>edited</p>",
		"author":    "Editor",
	}, http.StatusOK, tests.MasterTokens(), &updated)

	require.Equal(t, "Renamed", updated.Title)
	require.Equal(t, "<p>edited</p>", updated.BodyHTML)

	tests.Endpoint(t, router, http.MethodPut, "/api/news/99999", map[string]string{
		"title": "x", "body_html": "<p>x</p>",
	}, http.StatusNotFound, tests.MasterTokens())

	tests.Endpoint(t, router, http.MethodDelete, fmt.Sprintf("/api/news/%d", created.NewsID),
		nil, http.StatusOK, tests.MasterTokens())
	tests.Endpoint(t, router, http.MethodDelete, fmt.Sprintf("/api/news/%d", created.NewsID),
		nil, http.StatusNotFound, tests.MasterTokens())

	require.Empty(t, listArticles(t, router))
}

func TestNewsReorderIsIdempotent(t *testing.T) {
	fixture.Reset(t.Context())
	router := newsRouter(t)

	first := createArticle(t, router, "First")
	second := createArticle(t, router, "Second")
	third := createArticle(t, router, "Third")

	order := map[string][]int{"news_ids": {first.NewsID, second.NewsID, third.NewsID}}

	tests.Endpoint(t, router, http.MethodPost, "/api/news/reorder", order, http.StatusOK, tests.MasterTokens())

	articles := listArticles(t, router)
	require.Equal(t, []string{"First", "Second", "Third"},
		[]string{articles[0].Title, articles[1].Title, articles[2].Title})
	require.Equal(t, []int{0, 1, 2},
		[]int{articles[0].SortOrder, articles[1].SortOrder, articles[2].SortOrder})

	// Applying the same order again changes nothing.
	tests.Endpoint(t, router, http.MethodPost, "/api/news/reorder", order, http.StatusOK, tests.MasterTokens())

	again := listArticles(t, router)
	require.Equal(t, articles, again)
}
