package main

import (
	_ "adminbase/api/swagger" // swagger docs
	"adminbase/internal/database"
	"adminbase/internal/handler"
	"adminbase/internal/mailer"
	"adminbase/internal/middleware"
	"adminbase/internal/repository"
	"adminbase/internal/service"
	"adminbase/internal/websocket"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// @title           SaaS Admin API
// @version         1.0
// @description     Authentication, role-based access control, user invitations, settings, and audit logging.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "postgres")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up the admin activity feed
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	accountRepo := repository.NewAccountRepository(db)
	userRoleRepo := repository.NewUserRoleRepository(db)
	metadataRepo := repository.NewUserMetadataRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	txManager := repository.NewTransactionManager(db)

	orgName := envOr("ORG_NAME", "Adminbase")
	fromAddress := envOr("MAIL_FROM", "no-reply@localhost")
	sender := mailer.NewResendSender(os.Getenv("RESEND_API_KEY"))

	authzService := service.NewAuthzService(userRoleRepo)
	auditService := service.NewAuditService(auditRepo, authzService, wsHub)
	authService := service.NewAuthService(accountRepo, userRoleRepo, metadataRepo, txManager, auditService)
	invitationService := service.NewInvitationService(
		userRoleRepo, accountRepo, metadataRepo, txManager,
		authzService, auditService, sender,
		service.InvitationConfig{
			BaseURL:     envOr("APP_BASE_URL", "http://localhost:5173"),
			FromAddress: fromAddress,
			OrgName:     orgName,
		},
	)
	userAdminService := service.NewUserAdminService(userRoleRepo, accountRepo, metadataRepo, txManager, authzService, auditService)
	settingsService := service.NewSettingsService(settingRepo, authzService, auditService)
	emailService := service.NewEmailService(authzService, auditService, sender, fromAddress, orgName)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService)
	invitationHandler := handler.NewInvitationHandler(invitationService)
	adminUserHandler := handler.NewAdminUserHandler(userAdminService)
	settingsHandler := handler.NewSettingsHandler(settingsService, emailService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{envOr("APP_BASE_URL", "http://localhost:5173")}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// Admin activity feed
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	invitationHandler.RegisterRoutes(router.Group(""))
	adminUserHandler.RegisterRoutes(router.Group(""))
	settingsHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := envOr("PORT", "8080")

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
