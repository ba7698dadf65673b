package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
)

type contextKey string

const (
	loggerKey = contextKey("logger")
	actorKey  = contextKey("actor")
)

// ActorHeader is the header the upstream gateway uses to convey the acting
// user. Authentication itself happens before requests reach this service.
const ActorHeader = "X-Actor-ID"

// GetLoggerFromCtx retrieves the request-scoped logger from a plain context.
// Falls back to the default logger when none was injected.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// ActorMiddleware pulls the acting user id off the request headers and stores
// it in the request context for handlers.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader(ActorHeader)
		if actor == "" {
			actor = "system"
		}
		ctx := context.WithValue(c.Request.Context(), actorKey, actor)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetActorFromContext returns the acting user id for the request.
func GetActorFromContext(c *gin.Context) string {
	if actor, ok := c.Request.Context().Value(actorKey).(string); ok && actor != "" {
		return actor
	}
	return "system"
}
