package router

import (
	"net/http"
	"time"

	"github.com/charfaouimohammed/Atend-X/internal/config"
	"github.com/charfaouimohammed/Atend-X/internal/face"
	"github.com/charfaouimohammed/Atend-X/internal/handler"
	"github.com/charfaouimohammed/Atend-X/internal/middleware"
	"github.com/charfaouimohammed/Atend-X/internal/session"
	"github.com/charfaouimohammed/Atend-X/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires handlers, middleware and routes on a Gin engine.
func SetupRouter(cfg *config.Config, stores *store.Stores) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	if len(cfg.CORS.Origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.Origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	embedder := face.NewClient(cfg.Face.BaseURL, cfg.Face.Model, cfg.Face.Timeout())
	ranker := face.NewRanker(cfg.Face.Threshold)
	sessions := session.NewService(stores)

	authHandler := handler.NewAuthHandler(stores.Admins, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TokenTTL(), cfg.Security.BcryptCost)
	studentHandler := handler.NewStudentHandler(stores.Students, embedder, cfg.Security.EncryptionKey)
	sessionHandler := handler.NewSessionHandler(sessions, cfg.Security.EncryptionKey)
	recognizeHandler := handler.NewRecognizeHandler(stores.Students, embedder, ranker, cfg.Security.EncryptionKey)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Attendance System API"})
	})

	// authentication endpoints (no token required)
	r.POST("/token", authHandler.Token)
	r.POST("/register", authHandler.Register)

	// admin-scoped endpoints
	protected := r.Group("")
	protected.Use(
		middleware.AuthMiddleware(cfg.JWT.Secret, stores.Admins),
		middleware.AuditMiddleware(stores.Audit),
	)

	protected.POST("/students/", studentHandler.Create)
	protected.GET("/students/", studentHandler.List)
	protected.GET("/students/:id", studentHandler.Get)

	protected.GET("/attendance/stats", sessionHandler.Stats)

	protected.POST("/sessions/start", sessionHandler.Start)
	protected.GET("/sessions/current", sessionHandler.Current)
	protected.POST("/sessions/:id/mark-attendance", sessionHandler.Mark)
	protected.POST("/sessions/:id/end", sessionHandler.End)
	protected.GET("/sessions/:id/export", sessionHandler.ExportXLSX)

	protected.POST("/recognize", recognizeHandler.Recognize)

	return r
}
