package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kannan-2002/Assessment-Management-System/api"
	"github.com/kannan-2002/Assessment-Management-System/config"
	"github.com/kannan-2002/Assessment-Management-System/database"
	"github.com/kannan-2002/Assessment-Management-System/middleware"
	"github.com/kannan-2002/Assessment-Management-System/models"
	"github.com/kannan-2002/Assessment-Management-System/repository"
	"github.com/kannan-2002/Assessment-Management-System/services"
)

func main() {
	// Load application configuration
	config.LoadConfig()

	// Initialize database connection
	db, err := database.Init()
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to initialize database: %v", err)
	}

	// Auto-migrate database schema
	runMigrations(db)

	// Initialize Repositories
	store := repository.NewSnapshotStore(db)
	assessmentRepo, err := repository.NewAssessmentRepository(store)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to load assessment data: %v", err)
	}
	userRepo := repository.NewUserRepository(db)
	log.Println("INFO: [Main] Repositories initialized.")

	// Seed the built-in assessment templates on first run.
	if err := assessmentRepo.SeedAssessmentTypes(models.BuiltinAssessmentTypes()); err != nil {
		log.Fatalf("FATAL: [Main] Failed to seed built-in assessment types: %v", err)
	}

	// Initialize Services
	tokenTTL := time.Duration(config.AppConfig.Auth.TokenTTLHours) * time.Hour
	authService := services.NewAuthService(userRepo, config.AppConfig.Auth.JWTSecret, tokenTTL)
	if err := authService.SeedDemoUsers(); err != nil {
		log.Fatalf("FATAL: [Main] Failed to seed demo users: %v", err)
	}
	assessmentService := services.NewAssessmentService(assessmentRepo)
	insightService := services.NewInsightService()
	log.Println("INFO: [Main] Services initialized.")

	// Initialize API Handler with all dependencies
	apiHandler := api.NewAPIHandler(assessmentService, insightService, authService, assessmentRepo)
	log.Println("INFO: [Main] API Handler initialized.")

	// Create Gin engine
	r := gin.Default()
	r.SetTrustedProxies(nil)

	// Register middlewares
	r.Use(middleware.Logger())
	r.Use(middleware.Cors())
	log.Println("INFO: [Main] Middlewares registered.")

	// Register routes
	registerRoutes(r, apiHandler, authService)
	log.Println("INFO: [Main] Routes registered.")

	// Start the server
	serverPort := ":" + config.AppConfig.Server.Port
	if config.AppConfig.Server.Port == "" {
		log.Println("WARN: [Main] Server port not configured, using default :8080.")
		serverPort = ":8080"
	}
	log.Printf("INFO: [Main] Starting server on port %s", serverPort)
	if err := r.Run(serverPort); err != nil {
		log.Fatalf("FATAL: [Main] Server failed to start: %v", err)
	}
}

func runMigrations(db *gorm.DB) {
	log.Println("INFO: [Main] Running database migrations...")
	err := db.AutoMigrate(
		&models.AssessmentType{},
		&models.AssessmentResponse{},
		&models.User{},
	)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to auto-migrate database: %v", err)
	}
	log.Println("INFO: [Main] Database migration completed.")
}

func registerRoutes(r *gin.Engine, handler *api.APIHandler, authService services.AuthService) {
	// API route group
	apiGroup := r.Group("/api")
	{
		// Auth endpoints (no token required)
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/login", handler.LoginHandler)
			authGroup.POST("/register", handler.RegisterHandler)
		}

		// Everything else requires a valid bearer token.
		protected := apiGroup.Group("")
		protected.Use(middleware.Auth(authService))
		{
			assessments := protected.Group("/assessments")
			{
				assessments.GET("", handler.ListAssessmentTypesHandler)
				assessments.POST("", handler.CreateAssessmentTypeHandler)
				assessments.GET("/:id", handler.GetAssessmentTypeHandler)
				assessments.PUT("/:id", handler.UpdateAssessmentTypeHandler)
				assessments.DELETE("/:id", handler.DeleteAssessmentTypeHandler)
				assessments.POST("/:id/responses", handler.SubmitResponseHandler)
			}

			protected.GET("/responses/:id", handler.GetResponseHandler)
			protected.GET("/users/me/responses", handler.MyResponsesHandler)
			protected.GET("/dashboard/stats", handler.DashboardStatsHandler)
		}
	}
}
