package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"herbalog/internal/api"
	"herbalog/internal/authz"
	"herbalog/internal/config"
	"herbalog/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	if err := model.SeedProductCategories(context.Background(), repo); err != nil {
		logrus.WithError(err).Warn("failed to seed product categories")
	}

	if users, err := repo.CountUsers(context.Background()); err != nil {
		logrus.WithError(err).Warn("failed to count users")
	} else {
		logrus.WithField("users", users).Info("repository ready")
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	// expired sessions are invisible to reads; purging is hygiene only
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			purged, err := httpHandler.Sessions().PurgeExpired(ctx)
			cancel()
			if err != nil {
				logrus.WithError(err).Warn("failed to purge expired sessions")
				continue
			}
			if purged > 0 {
				logrus.WithField("purged", purged).Info("purged expired sessions")
			}
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	apiGroup := r.Group("/api")

	apiGroup.POST("/register", httpHandler.Register)
	apiGroup.POST("/login", httpHandler.Login)
	apiGroup.POST("/logout", httpHandler.Logout)

	protected := apiGroup.Group("")
	protected.Use(httpHandler.AuthMiddleware())
	protected.GET("/user", httpHandler.Me)
	protected.GET("/admin-activities", httpHandler.ListAdminActivities)

	protected.GET("/categories", httpHandler.ListCategories)
	protected.GET("/categories/check-name", httpHandler.CheckCategoryName)
	protected.GET("/products", httpHandler.ListProducts)
	protected.GET("/products/:id/prices", httpHandler.ListProductPrices)

	manage := protected.Group("")
	manage.Use(httpHandler.RequireFeature(authz.FeatureManageProducts))
	manage.POST("/categories", httpHandler.CreateCategory)
	manage.DELETE("/categories/:id", httpHandler.DeleteCategory)
	manage.POST("/products", httpHandler.CreateProduct)
	manage.PATCH("/products/:id", httpHandler.UpdateProduct)
	manage.POST("/products/:id/prices", httpHandler.SetProductPrice)

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logger.WithField("host", serverHost).Info("server starting")
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("server failed to start")
	}
}

// CORSMiddleware handles cross-origin requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware records one structured line per request.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
