package videos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/uksimracing/website/internal/database"
)

type Repository struct {
	db database.Database
}

func NewRepository(db database.Database) Repository {
	return Repository{db: db}
}

var videoColumns = []string{ //nolint:gochecknoglobals
	"video_id", "title", "description", "COALESCE(video_url, '')", "COALESCE(youtube_id, '')",
	"thumbnail_url", "duration", "view_count", "created_by", "sort_order", "published_on", "created_on",
}

func scanVideo(row interface{ Scan(...any) error }, video *Video) error {
	return database.DBErr(row.Scan(&video.VideoID, &video.Title, &video.Description, &video.VideoURL,
		&video.YouTubeID, &video.ThumbnailURL, &video.Duration, &video.ViewCount,
		&video.CreatedBy, &video.SortOrder, &video.PublishedOn, &video.CreatedOn))
}

// Videos lists the catalogue. The public listing holds only synced rows and
// sorts the opposite direction to news, highest sort_order first.
func (r Repository) Videos(ctx context.Context, includeManual bool) ([]Video, error) {
	builder := r.db.
		Builder().
		Select(videoColumns...).
		From("video").
		OrderBy("sort_order DESC", "COALESCE(published_on, created_on) DESC")

	if !includeManual {
		builder = builder.Where(sq.Eq{"created_by": SyncedBy})
	}

	rows, errQuery := r.db.QueryBuilder(ctx, builder)
	if errQuery != nil {
		return nil, database.DBErr(errQuery)
	}

	defer rows.Close()

	collection := []Video{}

	for rows.Next() {
		var video Video
		if errScan := scanVideo(rows, &video); errScan != nil {
			return nil, errScan
		}

		collection = append(collection, video)
	}

	return collection, nil
}

func (r Repository) GetByID(ctx context.Context, videoID int) (Video, error) {
	var video Video

	row, errRow := r.db.QueryRowBuilder(ctx, r.db.
		Builder().
		Select(videoColumns...).
		From("video").
		Where(sq.Eq{"video_id": videoID}))
	if errRow != nil {
		return video, database.DBErr(errRow)
	}

	return video, scanVideo(row, &video)
}

func (r Repository) Save(ctx context.Context, video *Video) error {
	return database.DBErr(r.db.ExecInsertBuilderWithReturnValue(ctx, r.db.
		Builder().
		Insert("video").
		SetMap(videoSetMap(*video)).
		Suffix("RETURNING video_id"), &video.VideoID))
}

func (r Repository) Update(ctx context.Context, video *Video) error {
	return database.DBErr(r.db.ExecUpdateBuilder(ctx, r.db.
		Builder().
		Update("video").
		SetMap(map[string]any{
			"title":         video.Title,
			"description":   video.Description,
			"video_url":     video.VideoURL,
			"thumbnail_url": video.ThumbnailURL,
			"duration":      video.Duration,
			"view_count":    video.ViewCount,
		}).
		Where(sq.Eq{"video_id": video.VideoID})))
}

func (r Repository) Delete(ctx context.Context, videoID int) error {
	return database.DBErr(r.db.ExecDeleteBuilder(ctx, r.db.
		Builder().
		Delete("video").
		Where(sq.Eq{"video_id": videoID})))
}

func (r Repository) Reorder(ctx context.Context, videoIDs []int) error {
	return r.db.WrapTx(ctx, func(tx pgx.Tx) error {
		for position, videoID := range videoIDs {
			if _, errExec := tx.Exec(ctx,
				"UPDATE video SET sort_order = $1 WHERE video_id = $2",
				position, videoID); errExec != nil {
				return database.DBErr(errExec)
			}
		}

		return nil
	})
}

// ReplaceSynced swaps every synced row for the given set atomically.
func (r Repository) ReplaceSynced(ctx context.Context, synced []Video) error {
	return r.db.WrapTx(ctx, func(tx pgx.Tx) error {
		if _, errDelete := tx.Exec(ctx,
			"DELETE FROM video WHERE created_by = $1", SyncedBy); errDelete != nil {
			return database.DBErr(errDelete)
		}

		for _, video := range synced {
			query, args, errQuery := r.db.
				Builder().
				Insert("video").
				SetMap(videoSetMap(video)).
				ToSql()
			if errQuery != nil {
				return database.DBErr(errQuery)
			}

			if _, errExec := tx.Exec(ctx, query, args...); errExec != nil {
				return database.DBErr(errExec)
			}
		}

		return nil
	})
}

func videoSetMap(video Video) map[string]any {
	return map[string]any{
		"title":         video.Title,
		"description":   video.Description,
		"video_url":     video.VideoURL,
		"youtube_id":    video.YouTubeID,
		"thumbnail_url": video.ThumbnailURL,
		"duration":      video.Duration,
		"view_count":    video.ViewCount,
		"created_by":    video.CreatedBy,
		"sort_order":    video.SortOrder,
		"published_on":  video.PublishedOn,
		"created_on":    video.CreatedOn,
	}
}
