package videos

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uksimracing/website/internal/auth/permission"
	"github.com/uksimracing/website/internal/database"
	"github.com/uksimracing/website/internal/httphelper"
)

type videosHandler struct {
	videos Videos
}

func NewVideosHandler(engine *gin.Engine, videos Videos, auth httphelper.Authenticator) {
	handler := videosHandler{videos: videos}

	engine.GET("/api/videos", handler.onGetVideos())

	// editors
	editorGrp := engine.Group("/")
	{
		editor := editorGrp.Use(auth.Middleware(permission.Moderator))
		editor.POST("/api/videos", handler.onCreateVideo())
		editor.PUT("/api/videos/:video_id", handler.onUpdateVideo())
		editor.DELETE("/api/videos/:video_id", handler.onDeleteVideo())
		editor.POST("/api/videos/reorder", handler.onReorderVideos())
		editor.POST("/api/sync-youtube", handler.onSyncYouTube())
	}
}

func (h videosHandler) onGetVideos() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		collection, errVideos := h.videos.Videos(ctx, false)
		if errVideos != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errVideos, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, collection)
	}
}

type videoRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     int    `json:"duration"`
}

func (h videosHandler) onCreateVideo() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req videoRequest
		if !httphelper.Bind(ctx, &req) {
			return
		}

		video := Video{
			Title:        req.Title,
			Description:  req.Description,
			VideoURL:     req.VideoURL,
			ThumbnailURL: req.ThumbnailURL,
			Duration:     req.Duration,
		}

		if errCreate := h.videos.Create(ctx, &video); errCreate != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errCreate, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusCreated, video)
	}
}

func (h videosHandler) onUpdateVideo() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		videoID, idFound := httphelper.GetIntParam(ctx, "video_id")
		if !idFound {
			return
		}

		video, errGet := h.videos.GetByID(ctx, videoID)
		if errGet != nil {
			if errors.Is(errGet, database.ErrNoResult) {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusNotFound, httphelper.ErrNotFound))
			} else {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errGet, httphelper.ErrInternal)))
			}

			return
		}

		var req videoRequest
		if !httphelper.Bind(ctx, &req) {
			return
		}

		video.Title = req.Title
		video.Description = req.Description
		video.VideoURL = req.VideoURL
		video.ThumbnailURL = req.ThumbnailURL
		video.Duration = req.Duration

		if errUpdate := h.videos.Update(ctx, &video); errUpdate != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errUpdate, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, video)
	}
}

func (h videosHandler) onDeleteVideo() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		videoID, idFound := httphelper.GetIntParam(ctx, "video_id")
		if !idFound {
			return
		}

		if _, errGet := h.videos.GetByID(ctx, videoID); errGet != nil {
			if errors.Is(errGet, database.ErrNoResult) {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusNotFound, httphelper.ErrNotFound))
			} else {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errGet, httphelper.ErrInternal)))
			}

			return
		}

		if errDelete := h.videos.Delete(ctx, videoID); errDelete != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errDelete, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func (h videosHandler) onReorderVideos() gin.HandlerFunc {
	type reorderRequest struct {
		VideoIDs []int `json:"video_ids" binding:"required"`
	}

	return func(ctx *gin.Context) {
		var req reorderRequest
		if !httphelper.Bind(ctx, &req) {
			return
		}

		if errReorder := h.videos.Reorder(ctx, req.VideoIDs); errReorder != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errReorder, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func (h videosHandler) onSyncYouTube() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		count, errSync := h.videos.Sync(ctx)
		if errSync != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusBadGateway, errors.Join(errSync, httphelper.ErrRequestPerform)))

			return
		}

		ctx.JSON(http.StatusOK, gin.H{"success": true, "count": count})
	}
}
