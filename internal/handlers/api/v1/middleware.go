package v1

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d20tracker/d20-api/internal/auth/telegram"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	userIDKey       = "user_id"
)

func (h *Handler) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = h.requestIDs.Generate()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		status := c.Writer.Status()
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		slog.Log(c.Request.Context(), level, "HTTP request",
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"route", c.FullPath(),
			"status", status,
			"duration", time.Since(start),
			"user_id", c.GetInt64(userIDKey),
		)
	}
}

// authenticate resolves the Telegram user from "Authorization: tma <initData>"
func (h *Handler) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		initData, err := telegram.ParseAuthorization(c.GetHeader("Authorization"))
		if err != nil {
			renderError(c, err)
			return
		}
		user, err := h.verifier.Verify(initData)
		if err != nil {
			renderError(c, err)
			return
		}
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

func userID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
