package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/tripmap-backend-go/internal/config"
	"github.com/jengzang/tripmap-backend-go/internal/handler"
	"github.com/jengzang/tripmap-backend-go/internal/middleware"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	Search   *handler.SearchHandler
	Route    *handler.RouteHandler
	Favorite *handler.FavoriteHandler
	Admin    *handler.AdminHandler
	Auth     *handler.AuthHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateLimitWindow))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Tripmap Backend API is running",
		})
	})

	r.POST("/api/auth/login", h.Auth.Login)

	// API 路由组
	api := r.Group("/api/v1")
	{
		api.GET("/search", h.Search.Search)

		locations := api.Group("/locations")
		{
			locations.GET("/:id", h.Search.GetLocation)
			locations.POST("/sort", h.Route.SortLocations)
		}

		api.POST("/routes", h.Route.PlanRoute)

		// 用户收藏接口
		users := api.Group("/users/:userId")
		{
			users.GET("/favorites", h.Favorite.ListFavorites)
			users.GET("/favorites/count", h.Favorite.CountFavorites)
			users.POST("/favorites/:postId", h.Favorite.AddFavorite)
			users.DELETE("/favorites/:postId", h.Favorite.RemoveFavorite)
		}
	}

	// 管理接口,需要 JWT
	admin := r.Group("/api/admin")
	admin.Use(middleware.Auth(cfg.JWTSecret))
	{
		places := admin.Group("/places")
		{
			places.POST("/import", h.Admin.ImportPlaces)
			places.POST("/export", h.Admin.ExportPlaces)
			places.DELETE("", h.Admin.DeletePlaces)
		}

		posts := admin.Group("/posts")
		{
			posts.POST("/import", h.Admin.ImportPosts)
			posts.POST("/export", h.Admin.ExportPosts)
			posts.DELETE("", h.Admin.DeletePosts)
		}

		mappings := admin.Group("/mappings")
		{
			mappings.POST("/import", h.Admin.ImportMappings)
			mappings.POST("/export", h.Admin.ExportMappings)
		}
	}

	return r
}
