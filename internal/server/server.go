package server

import (
	"log"
	"os"
	"strings"
	"time"

	"anoa.com/desainhub/internal/middleware"
	"anoa.com/desainhub/pkg/storage"

	notifHttp "anoa.com/desainhub/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/desainhub/internal/modules/notification/repository"
	notifService "anoa.com/desainhub/internal/modules/notification/service"

	paymentHttp "anoa.com/desainhub/internal/modules/payment/delivery/http"
	paymentRepo "anoa.com/desainhub/internal/modules/payment/repository"
	paymentService "anoa.com/desainhub/internal/modules/payment/service"

	projectHttp "anoa.com/desainhub/internal/modules/project/delivery/http"
	projectRepo "anoa.com/desainhub/internal/modules/project/repository"
	projectService "anoa.com/desainhub/internal/modules/project/service"

	searchService "anoa.com/desainhub/internal/modules/search/service"

	userHttp "anoa.com/desainhub/internal/modules/user/delivery/http"
	userRepo "anoa.com/desainhub/internal/modules/user/repository"
	userService "anoa.com/desainhub/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(db *gorm.DB, redisClient *redis.Client) *Server {
	users := userRepo.NewUserRepository(db)
	fileStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	// Initialize Meilisearch
	meiliHost := os.Getenv("MEILISEARCH_HOST")
	if meiliHost == "" {
		meiliHost = "http://localhost:7700"
	}
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}

	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(os.Getenv("MEILI_MASTER_KEY")))
	searchSvc := searchService.NewSearchService(meiliClient)

	authSvc := userService.NewAuthService(users, fileStorage)
	authHandler := userHttp.NewAuthHandler(authSvc)

	// Notification Module
	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notificationRepository, redisClient)
	notificationHandler := notifHttp.NewNotificationHandler(notificationSvc, redisClient)

	projects := projectRepo.NewProjectRepository(db)
	projectSvc := projectService.NewService(projects, users, notificationSvc, searchSvc, fileStorage, redisClient)
	projectHandler := projectHttp.NewProjectHandler(projectSvc)

	payments := paymentRepo.NewPaymentRepository(db)
	paymentSvc := paymentService.NewPaymentService(payments, projects, notificationSvc)
	paymentHandler := paymentHttp.NewPaymentHandler(paymentSvc)

	router := gin.Default()
	setupCORS(router)

	authMiddleware := middleware.NewAuthMiddleware(users)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		profile := protected.Group("/profile")
		{
			profile.PUT("", authHandler.UpdateProfile)
			profile.POST("/avatar", authHandler.UploadAvatar)
		}

		protected.POST("/projects", projectHandler.CreateProject)
		protected.GET("/projects", projectHandler.GetMyProjects)
		protected.GET("/projects/open", projectHandler.GetOpenProjects)
		protected.GET("/projects/search", projectHandler.SearchProjects)
		protected.GET("/projects/slug/:slug", projectHandler.GetProjectBySlug)
		protected.POST("/projects/:id/assign", projectHandler.AssignDesigner)
		protected.PATCH("/projects/:id/status", projectHandler.UpdateStatus)
		protected.POST("/projects/:id/deliver", authMiddleware.RequireDesainer(), projectHandler.Deliver)
		protected.DELETE("/projects/:id", projectHandler.DeleteProject)

		protected.POST("/projects/:id/payment", paymentHandler.CreateForProject)
		protected.POST("/payments/:id/confirm", paymentHandler.Confirm)
		protected.GET("/payments", paymentHandler.ListMine)
		protected.GET("/payments/summary", paymentHandler.Summary)

		admin := protected.Group("/admin")
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.POST("/notifications", notificationHandler.SendSystemNotification)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.GET("/ws", notificationHandler.HandleWebSocket)
			notifications.PATCH("/read-all", notificationHandler.MarkAllAsRead)
			notifications.PATCH("/:id/read", notificationHandler.MarkAsRead)
			notifications.DELETE("/read", notificationHandler.DeleteAllRead)
			notifications.DELETE("/:id", notificationHandler.DeleteNotification)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine) {
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
