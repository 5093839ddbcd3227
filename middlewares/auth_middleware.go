package middlewares

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"agrigpt/utils"
)

// AuthMiddleware requires a Bearer token signed with secret.
func AuthMiddleware(secret, issuer string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
			return
		}

		subject, err := utils.ParseJWT(secret, issuer, strings.TrimSpace(token))
		if err != nil {
			slog.Debug("rejected token", "error", err)
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
			return
		}
		ctx.Set("subject", subject)
		ctx.Next()
	}
}
