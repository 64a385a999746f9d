package router

import (
	"time"

	"menushot/internal/auth"
	"menushot/internal/config"
	"menushot/internal/dish"
	"menushot/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config, handler *dish.Handler, tokens *auth.TokenManager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ───────────────────────── PUBLIC ─────────────────────────
	r.GET("/styles", handler.ListStyles)
	r.POST("/sessions", handler.CreateSession)

	// ───────────────────────── SESSION ROUTES ─────────────────────────
	sessions := r.Group("/sessions/:session_id")
	sessions.Use(middleware.SessionAuth(tokens))
	{
		sessions.DELETE("", handler.DeleteSession)
		sessions.GET("/dishes", handler.ListDishes)
		sessions.POST("/menu", handler.ParseMenu)
		sessions.POST("/generate", handler.GenerateAll)
		sessions.POST("/dishes/:dish_id/regenerate", handler.RegenerateOne)
	}

	return r
}
