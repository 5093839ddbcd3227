package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agrigpt/services"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propagates the caller's X-Request-ID, or assigns a new one, and
// stores it on the request context for the services layer.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		ctx.Set("request_id", id)
		ctx.Request = ctx.Request.WithContext(services.WithRequestID(ctx.Request.Context(), id))
		ctx.Header(RequestIDHeader, id)
		ctx.Next()
	}
}
