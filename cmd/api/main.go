package main

import (
	"context"
	"log"
	"os"

	_ "mobileopsconnect/api/swagger" // swagger docs
	"mobileopsconnect/internal/database"
	"mobileopsconnect/internal/handler"
	"mobileopsconnect/internal/mailer"
	"mobileopsconnect/internal/middleware"
	"mobileopsconnect/internal/notify"
	"mobileopsconnect/internal/repository"
	"mobileopsconnect/internal/service"
	"mobileopsconnect/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           MobileOpsConnect API
// @version         1.0
// @description     Role-scoped administration, leave and purchase order workflows for MobileOps Hardware.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	if err := database.Seed(db); err != nil {
		log.Fatalf("Database seeding failed: %v", err)
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Background dispatcher for push and email delivery
	dispatcher := notify.NewDispatcher(context.Background(), 4)

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	deviceTokenRepo := repository.NewDeviceTokenRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	accountingRepo := repository.NewAccountingRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	auditService := service.NewAuditService(auditRepo)
	notificationService := service.NewNotificationService(
		deviceTokenRepo, userRepo, notify.NewFCMClient(), mailer.NewFromEnv(), dispatcher)
	authService := service.NewAuthService(userRepo, refreshTokenRepo, auditService)
	userService := service.NewUserService(userRepo, leaveRepo, auditService)
	leaveService := service.NewLeaveService(leaveRepo, auditService, notificationService, wsHub)
	orderService := service.NewOrderService(orderRepo, productRepo, accountingRepo, auditService, notificationService, wsHub)
	inventoryService := service.NewInventoryService(productRepo, settingsRepo, auditService, wsHub)
	accountingService := service.NewAccountingService(accountingRepo, auditService)
	payrollService := service.NewPayrollService(userRepo, settingsRepo, auditService)
	settingsService := service.NewSettingsService(settingsRepo, auditService)
	dashboardService := service.NewDashboardService(leaveRepo, orderRepo, productRepo, settingsRepo)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService, notificationService)
	userHandler := handler.NewUserHandler(userService)
	leaveHandler := handler.NewLeaveHandler(leaveService)
	orderHandler := handler.NewOrderHandler(orderService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	accountingHandler := handler.NewAccountingHandler(accountingService)
	payrollHandler := handler.NewPayrollHandler(payrollService)
	settingsHandler := handler.NewSettingsHandler(settingsService, dashboardService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
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

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	api := router.Group("")
	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)
	leaveHandler.RegisterRoutes(api)
	orderHandler.RegisterRoutes(api)
	inventoryHandler.RegisterRoutes(api)
	accountingHandler.RegisterRoutes(api)
	payrollHandler.RegisterRoutes(api)
	settingsHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
