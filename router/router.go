package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"agrigpt/controllers"
	"agrigpt/middlewares"
)

var corsMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

const corsMaxAge = 12 * time.Hour

type Options struct {
	AllowOrigin string
	RateLimit   float64
	RateBurst   int
	JWTSecret   string
	JWTIssuer   string
	// UI, when set, is mounted at /ui.
	UI *controllers.UIController
}

func SetupRouter(answerer controllers.Answerer, opts Options) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger(), gin.Recovery(), middlewares.RequestID())

	// cors.Config only takes a fixed header list; preflights echo the
	// requested headers instead.
	r.Use(middlewares.PreflightHeaders(opts.AllowOrigin, corsMethods, corsMaxAge))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{opts.AllowOrigin},
		AllowMethods:     corsMethods,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middlewares.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middlewares.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}))

	r.NoMethod(controllers.MethodNotAllowed)
	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})

	r.GET("/", controllers.Root)

	ask := controllers.NewAskController(answerer)
	askHandlers := []gin.HandlerFunc{}
	if opts.RateLimit > 0 {
		askHandlers = append(askHandlers, middlewares.RateLimit(opts.RateLimit, opts.RateBurst))
	}
	if opts.JWTSecret != "" {
		askHandlers = append(askHandlers, middlewares.AuthMiddleware(opts.JWTSecret, opts.JWTIssuer))
	}
	askHandlers = append(askHandlers, ask.Ask)
	r.POST("/ask", askHandlers...)

	r.GET("/ask", controllers.MethodNotAllowed)
	r.PUT("/ask", controllers.MethodNotAllowed)
	r.DELETE("/ask", controllers.MethodNotAllowed)

	if opts.UI != nil {
		opts.UI.Register(r, "/ui")
	}
	return r
}
