package routes

import (
	"net/http"
	"time"

	"gradehub/internal/auth"
	"gradehub/internal/grades"
	"gradehub/internal/notifications"
	"gradehub/internal/shared/config"
	"gradehub/internal/shared/database"
	"gradehub/internal/shared/middleware"
	"gradehub/internal/submissions"
	"gradehub/internal/tasks"
	"gradehub/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config        *config.Config
	db            *database.DB
	notifications *notifications.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, notif *notifications.Service) *Router {
	return &Router{
		config:        cfg,
		db:            db,
		notifications: notif,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) error {
	r.setupHealthRoutes(engine)

	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	codec := auth.NewTokenCodec(r.config.Auth)
	hasher := auth.NewHasher(r.config.Auth.BcryptCost)
	authService := auth.NewService(authRepo, codec, hasher)
	authController := auth.NewController(authService, r.config)
	authRouter := auth.NewRouter(authController)

	authmw := middleware.NewAuth(codec, authRepo)

	cacheService := cache.NewService(r.db.GetRedisClient())

	taskRepo := tasks.NewRepository(r.db.GetPostgreSQL())
	taskService := tasks.NewService(taskRepo, cacheService, r.config.Redis.CacheTTL)
	taskController := tasks.NewController(taskService)

	storage, err := submissions.NewDiskStorage(r.config.Upload.Path, r.config.Upload.MaxSize)
	if err != nil {
		return err
	}
	submissionRepo := submissions.NewRepository(r.db.GetPostgreSQL())
	submissionService := submissions.NewService(submissionRepo, taskService, authRepo, storage)
	submissionController := submissions.NewController(submissionService)

	gradeRepo := grades.NewRepository(r.db.GetPostgreSQL())
	gradeService := grades.NewService(gradeRepo, submissionRepo, authRepo, taskService, r.notifications.Producer)
	gradeController := grades.NewController(gradeService)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		authRouter.SetupRoutes(api)
		tasks.SetupRoutes(api, taskController, authmw)
		submissions.SetupRoutes(api, submissionController, submissionService, authmw)
		grades.SetupRoutes(api, gradeController, submissionService, authmw)
	}

	return nil
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "gradehub-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "gradehub-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}
