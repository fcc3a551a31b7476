package news

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uksimracing/website/internal/asset"
	"github.com/uksimracing/website/internal/auth/permission"
	"github.com/uksimracing/website/internal/database"
	"github.com/uksimracing/website/internal/httphelper"
)

type newsHandler struct {
	news   News
	assets asset.Store
}

func NewNewsHandler(engine *gin.Engine, news News, assets asset.Store, auth httphelper.Authenticator) {
	handler := newsHandler{news: news, assets: assets}

	engine.GET("/api/news", handler.onGetNews())

	// editors
	editorGrp := engine.Group("/")
	{
		editor := editorGrp.Use(auth.Middleware(permission.Moderator))
		editor.POST("/api/news", handler.onCreateNews())
		editor.PUT("/api/news/:news_id", handler.onUpdateNews())
		editor.DELETE("/api/news/:news_id", handler.onDeleteNews())
		editor.POST("/api/news/reorder", handler.onReorderNews())
		editor.POST("/api/news/upload-image", handler.onUploadImage())
	}
}

type newsQuery struct {
	Limit  uint64 `schema:"limit"`
	Offset uint64 `schema:"offset"`
}

func (h newsHandler) onGetNews() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		query := newsQuery{Limit: 50}
		if !httphelper.BindQuery(ctx, &query) {
			return
		}

		articles, errArticles := h.news.Articles(ctx, query.Limit, query.Offset)
		if errArticles != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errArticles, httphelper.ErrInternal)))

			return
		}

		ctx.PureJSON(http.StatusOK, articles)
	}
}

type articleRequest struct {
	Title     string `json:"title"`
	BodyHTML  string `json:"body_html" binding:"required"`
	Author    string `json:"author"`
	ImageURL  string `json:"image_url"`
	ImagePath string `json:"image_path"`
}

func (h newsHandler) onCreateNews() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req articleRequest
		if !httphelper.Bind(ctx, &req) {
			return
		}

		article := Article{
			Title:     req.Title,
			BodyHTML:  req.BodyHTML,
			Author:    req.Author,
			ImageURL:  req.ImageURL,
			ImagePath: req.ImagePath,
		}

		if errCreate := h.news.Create(ctx, &article); errCreate != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errCreate, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusCreated, article)
	}
}

func (h newsHandler) onUpdateNews() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		newsID, idFound := httphelper.GetIntParam(ctx, "news_id")
		if !idFound {
			return
		}

		article, errGet := h.news.GetByID(ctx, newsID)
		if errGet != nil {
			if errors.Is(errGet, database.ErrNoResult) {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusNotFound, httphelper.ErrNotFound))
			} else {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errGet, httphelper.ErrInternal)))
			}

			return
		}

		var req articleRequest
		if !httphelper.Bind(ctx, &req) {
			return
		}

		article.Title = req.Title
		article.BodyHTML = req.BodyHTML
		article.Author = req.Author
		article.ImageURL = req.ImageURL
		article.ImagePath = req.ImagePath

		if errUpdate := h.news.Update(ctx, &article); errUpdate != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errUpdate, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, article)
	}
}

func (h newsHandler) onDeleteNews() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		newsID, idFound := httphelper.GetIntParam(ctx, "news_id")
		if !idFound {
			return
		}

		if _, errGet := h.news.GetByID(ctx, newsID); errGet != nil {
			if errors.Is(errGet, database.ErrNoResult) {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusNotFound, httphelper.ErrNotFound))
			} else {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errGet, httphelper.ErrInternal)))
			}

			return
		}

		if errDelete := h.news.Delete(ctx, newsID); errDelete != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errDelete, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func (h newsHandler) onReorderNews() gin.HandlerFunc {
	type reorderRequest struct {
		NewsIDs []int `json:"news_ids" binding:"required"`
	}

	return func(ctx *gin.Context) {
		var req reorderRequest
		if !httphelper.Bind(ctx, &req) {
			return
		}

		if errReorder := h.news.Reorder(ctx, req.NewsIDs); errReorder != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errReorder, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func (h newsHandler) onUploadImage() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fileHeader, errFile := ctx.FormFile("image")
		if errFile != nil {
			httphelper.SetError(ctx, httphelper.NewAPIErrorf(http.StatusBadRequest, httphelper.ErrBadRequest,
				"Missing image form field"))

			return
		}

		file, errOpen := fileHeader.Open()
		if errOpen != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errOpen, httphelper.ErrInternal)))

			return
		}

		defer func() {
			_ = file.Close()
		}()

		publicPath, errSave := h.assets.SaveRandom(fileHeader.Filename, file)
		if errSave != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errSave, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, gin.H{"path": publicPath})
	}
}
