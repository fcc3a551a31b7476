package tests_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/uksimracing/website/internal/auth"
	"github.com/uksimracing/website/internal/tests"
	"github.com/uksimracing/website/internal/thirdparty"
	"github.com/uksimracing/website/internal/videos"
)

func videosRouter(t *testing.T) (*gin.Engine, videos.Repository) {
	t.Helper()

	repository := videos.NewRepository(fixture.Database)
	router := fixture.CreateRouter()
	videos.NewVideosHandler(router, videos.NewVideos(repository, thirdparty.YouTubeClient{}), auth.NewAuthentication(false))

	return router, repository
}

func syncedVideo(youtubeID string, title string, sortOrder int) videos.Video {
	published := time.Now().Add(-time.Hour)

	return videos.Video{
		Title:        title,
		YouTubeID:    youtubeID,
		VideoURL:     "https://www.youtube.com/watch?v=" + youtubeID,
		ThumbnailURL: "https://i.ytimg.com/vi/" + youtubeID + "/hqdefault.jpg",
		Duration:     600,
		ViewCount:    1000,
		CreatedBy:    videos.SyncedBy,
		SortOrder:    sortOrder,
		PublishedOn:  &published,
		CreatedOn:    time.Now(),
	}
}

func TestVideosPublicListingExcludesManual(t *testing.T) {
	fixture.Reset(t.Context())
	router, repository := videosRouter(t)

	var manual videos.Video

	tests.EndpointReceiver(t, router, http.MethodPost, "/api/videos", map[string]any{
		"title":     "Season Review",
		"video_url": "https://example.com/review",
	}, http.StatusCreated, tests.MasterTokens(), &manual)

	require.Equal(t, "admin", manual.CreatedBy)

	var public []videos.Video
	tests.EndpointReceiver(t, router, http.MethodGet, "/api/videos", nil, http.StatusOK, nil, &public)
	require.Empty(t, public)

	all, errAll := repository.Videos(t.Context(), true)
	require.NoError(t, errAll)
	require.Len(t, all, 1)
}

func TestVideosSyncReplacesOnlySyncedRows(t *testing.T) {
	fixture.Reset(t.Context())
	router, repository := videosRouter(t)

	tests.Endpoint(t, router, http.MethodPost, "/api/videos", map[string]any{
		"title": "Manual Highlight",
	}, http.StatusCreated, tests.MasterTokens())

	require.NoError(t, repository.ReplaceSynced(t.Context(), []videos.Video{
		syncedVideo("vid-a", "Round 1", 2),
		syncedVideo("vid-b", "Round 2", 1),
	}))

	var public []videos.Video
	tests.EndpointReceiver(t, router, http.MethodGet, "/api/videos", nil, http.StatusOK, nil, &public)
	require.Len(t, public, 2)

	// Highest sort_order first.
	require.Equal(t, "Round 1", public[0].Title)
	require.Equal(t, "Round 2", public[1].Title)

	// A later sync replaces the synced rows but never the manual ones.
	require.NoError(t, repository.ReplaceSynced(t.Context(), []videos.Video{
		syncedVideo("vid-c", "Round 3", 1),
	}))

	tests.EndpointReceiver(t, router, http.MethodGet, "/api/videos", nil, http.StatusOK, nil, &public)
	require.Len(t, public, 1)
	require.Equal(t, "Round 3", public[0].Title)

	all, errAll := repository.Videos(t.Context(), true)
	require.NoError(t, errAll)
	require.Len(t, all, 2)
}

func TestVideosReorder(t *testing.T) {
	fixture.Reset(t.Context())
	router, repository := videosRouter(t)

	require.NoError(t, repository.ReplaceSynced(t.Context(), []videos.Video{
		syncedVideo("vid-a", "Round 1", 2),
		syncedVideo("vid-b", "Round 2", 1),
	}))

	var public []videos.Video
	tests.EndpointReceiver(t, router, http.MethodGet, "/api/videos", nil, http.StatusOK, nil, &public)
	require.Len(t, public, 2)

	// Reverse the listing. Positions are assigned ascending, so the DESC
	// listing shows the last id first.
	tests.Endpoint(t, router, http.MethodPost, "/api/videos/reorder", map[string][]int{
		"video_ids": {public[0].VideoID, public[1].VideoID},
	}, http.StatusOK, tests.MasterTokens())

	var reordered []videos.Video
	tests.EndpointReceiver(t, router, http.MethodGet, "/api/videos", nil, http.StatusOK, nil, &reordered)
	require.Equal(t, public[1].VideoID, reordered[0].VideoID)
	require.Equal(t, public[0].VideoID, reordered[1].VideoID)
}
