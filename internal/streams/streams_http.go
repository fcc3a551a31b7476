package streams

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type streamsHandler struct {
	monitor *Monitor
}

func NewStreamsHandler(engine *gin.Engine, monitor *Monitor) {
	handler := streamsHandler{monitor: monitor}

	engine.GET("/api/livestream", handler.onLiveStream())
	engine.GET("/api/streams/community", handler.onCommunity())
}

func (h streamsHandler) onLiveStream() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, h.monitor.Official())
	}
}

func (h streamsHandler) onCommunity() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, h.monitor.Community())
	}
}
