package middlewares

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// PreflightHeaders answers CORS preflights from origin and allows whatever
// request headers the browser asks for. Everything else falls through to
// the regular cors middleware.
func PreflightHeaders(origin string, methods []string, maxAge time.Duration) gin.HandlerFunc {
	allowMethods := strings.Join(methods, ",")
	age := strconv.FormatInt(int64(maxAge/time.Second), 10)
	return func(ctx *gin.Context) {
		req := ctx.Request
		if req.Method != http.MethodOptions ||
			req.Header.Get("Access-Control-Request-Method") == "" ||
			!strings.EqualFold(req.Header.Get("Origin"), origin) {
			ctx.Next()
			return
		}

		h := ctx.Writer.Header()
		h.Add("Vary", "Origin")
		h.Add("Vary", "Access-Control-Request-Method")
		h.Add("Vary", "Access-Control-Request-Headers")
		h.Set("Access-Control-Allow-Origin", req.Header.Get("Origin"))
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Methods", allowMethods)
		if requested := req.Header.Get("Access-Control-Request-Headers"); requested != "" {
			h.Set("Access-Control-Allow-Headers", requested)
		}
		h.Set("Access-Control-Max-Age", age)
		ctx.AbortWithStatus(http.StatusNoContent)
	}
}
