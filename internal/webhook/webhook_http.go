package webhook

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uksimracing/website/internal/database"
	"github.com/uksimracing/website/internal/httphelper"
	"github.com/uksimracing/website/internal/news"
)

var ErrBadSecret = errors.New("invalid webhook secret")

type webhookHandler struct {
	news   news.News
	stats  *Stats
	secret string
}

func NewWebhookHandler(engine *gin.Engine, newsUsecase news.News, stats *Stats, secret string) {
	handler := webhookHandler{news: newsUsecase, stats: stats, secret: secret}

	engine.GET("/api/stats", handler.onGetStats())

	secretGrp := engine.Group("/")
	{
		guarded := secretGrp.Use(SecretMiddleware(secret))
		guarded.POST("/webhook/discord", handler.onDiscordMessage())
		guarded.POST("/api/stats", handler.onPostStats())
	}
}

// SecretMiddleware gates bot facing endpoints on the shared secret header.
func SecretMiddleware(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		provided := ctx.GetHeader(SecretHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusUnauthorized, ErrBadSecret))
			ctx.Abort()

			return
		}

		ctx.Next()
	}
}

func (h webhookHandler) onDiscordMessage() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var msg news.IncomingMessage
		if !httphelper.Bind(ctx, &msg) {
			return
		}

		article, errCreate := h.news.CreateFromMessage(ctx, msg)
		if errCreate != nil {
			switch {
			case errors.Is(errCreate, news.ErrMissingContent), errors.Is(errCreate, news.ErrMissingAuthor):
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusBadRequest, errCreate))
			case errors.Is(errCreate, database.ErrDuplicate):
				httphelper.SetError(ctx, httphelper.NewAPIErrorf(http.StatusConflict, database.ErrDuplicate,
					"Message already ingested: %s", msg.MessageID))
			default:
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errCreate, httphelper.ErrInternal)))
			}

			return
		}

		ctx.JSON(http.StatusOK, gin.H{"success": true, "id": article.NewsID})
	}
}

func (h webhookHandler) onPostStats() gin.HandlerFunc {
	type statsRequest struct {
		MemberCount int `json:"memberCount" binding:"required"`
	}

	return func(ctx *gin.Context) {
		var req statsRequest
		if !httphelper.Bind(ctx, &req) {
			return
		}

		h.stats.SetMemberCount(req.MemberCount)

		ctx.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func (h webhookHandler) onGetStats() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		count, updatedOn := h.stats.MemberCount()

		ctx.JSON(http.StatusOK, gin.H{"memberCount": count, "updatedOn": updatedOn})
	}
}
