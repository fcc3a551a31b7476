// Package videos maintains the video catalogue, a mix of rows synced from
// the YouTube channel and manually curated entries.
package videos

import (
	"context"
	"log/slog"
	"time"

	"github.com/uksimracing/website/internal/thirdparty"
)

// SyncedBy tags rows owned by the YouTube sync job. Only these rows appear
// in the public listing and only these rows are replaced by a sync.
const SyncedBy = "youtube-sync"

const maxSyncedVideos = 50

type Video struct {
	VideoID      int        `json:"video_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	VideoURL     string     `json:"video_url"`
	YouTubeID    string     `json:"youtube_id"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Duration     int        `json:"duration"`
	ViewCount    int64      `json:"view_count"`
	CreatedBy    string     `json:"created_by"`
	SortOrder    int        `json:"sort_order"`
	PublishedOn  *time.Time `json:"published_on"`
	CreatedOn    time.Time  `json:"created_on"`
}

type Videos struct {
	repository Repository
	youtube    thirdparty.YouTubeClient
}

func NewVideos(repository Repository, youtube thirdparty.YouTubeClient) Videos {
	return Videos{repository: repository, youtube: youtube}
}

func (v Videos) Videos(ctx context.Context, includeManual bool) ([]Video, error) {
	return v.repository.Videos(ctx, includeManual)
}

func (v Videos) GetByID(ctx context.Context, videoID int) (Video, error) {
	return v.repository.GetByID(ctx, videoID)
}

func (v Videos) Create(ctx context.Context, video *Video) error {
	if video.CreatedBy == "" {
		video.CreatedBy = "admin"
	}

	video.CreatedOn = time.Now()

	return v.repository.Save(ctx, video)
}

func (v Videos) Update(ctx context.Context, video *Video) error {
	return v.repository.Update(ctx, video)
}

func (v Videos) Delete(ctx context.Context, videoID int) error {
	return v.repository.Delete(ctx, videoID)
}

func (v Videos) Reorder(ctx context.Context, videoIDs []int) error {
	return v.repository.Reorder(ctx, videoIDs)
}

// Sync replaces every synced row with the channel's current uploads. Manual
// rows are untouched. The whole replace runs in one transaction so a failed
// sync never leaves the catalogue half empty.
func (v Videos) Sync(ctx context.Context) (int, error) {
	playlistID, errPlaylist := v.youtube.UploadsPlaylistID(ctx)
	if errPlaylist != nil {
		return 0, errPlaylist
	}

	videoIDs, errIDs := v.youtube.PlaylistVideoIDs(ctx, playlistID, maxSyncedVideos)
	if errIDs != nil {
		return 0, errIDs
	}

	details, errDetails := v.youtube.VideoDetails(ctx, videoIDs)
	if errDetails != nil {
		return 0, errDetails
	}

	now := time.Now()
	synced := make([]Video, 0, len(details))

	// Uploads arrive newest first, so the first entry gets the highest
	// sort_order under the descending listing.
	for idx, detail := range details {
		video := Video{
			Title:        detail.Title,
			Description:  detail.Description,
			VideoURL:     "https://www.youtube.com/watch?v=" + detail.YouTubeID,
			YouTubeID:    detail.YouTubeID,
			ThumbnailURL: detail.ThumbnailURL,
			Duration:     detail.Duration,
			ViewCount:    detail.ViewCount,
			CreatedBy:    SyncedBy,
			SortOrder:    len(details) - idx,
			CreatedOn:    now,
		}

		if !detail.PublishedOn.IsZero() {
			published := detail.PublishedOn
			video.PublishedOn = &published
		}

		synced = append(synced, video)
	}

	if errReplace := v.repository.ReplaceSynced(ctx, synced); errReplace != nil {
		return 0, errReplace
	}

	slog.Info("Completed video sync", slog.Int("count", len(synced)))

	return len(synced), nil
}
