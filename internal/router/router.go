package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/cooking-assistant/backend/internal/api"
	"github.com/pageza/cooking-assistant/backend/internal/middleware"
	"github.com/pageza/cooking-assistant/backend/internal/service"
)

// Options holds what SetupRouter wires into the routes
type Options struct {
	Auth        service.IAuthService
	Recipes     service.IRecipeService
	Limiter     *middleware.RateLimiter
	CORSOrigins []string
	Logger      *zap.Logger
}

// SetupRouter configures the application routes
func SetupRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(opts.Logger),
		middleware.ErrorHandler(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
	)

	router.GET("/health", api.HealthCheck)

	authHandler := api.NewAuthHandler(opts.Auth, opts.Logger)
	recipeHandler := api.NewRecipeHandler(opts.Recipes, opts.Logger)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	recipes := v1.Group("/recipes")
	recipes.Use(middleware.AuthMiddleware(opts.Auth))
	{
		recipes.GET("/history", recipeHandler.History)

		// Routes that call the generation service
		generate := recipes.Group("")
		if opts.Limiter != nil {
			generate.Use(opts.Limiter.RateLimitMiddleware())
		}
		generate.POST("/generate", recipeHandler.Generate)
		generate.POST("/ideas", recipeHandler.Ideas)
		generate.POST("/ideas/expand", recipeHandler.ExpandIdea)
	}

	return router
}
