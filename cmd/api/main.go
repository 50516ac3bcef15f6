package main

import (
	"context"
	"log"
	"os"
	"time"

	_ "github.com/ajedamilola/pharmalink/api/swagger" // swagger docs
	"github.com/ajedamilola/pharmalink/internal/database"
	"github.com/ajedamilola/pharmalink/internal/handler"
	"github.com/ajedamilola/pharmalink/internal/middleware"
	"github.com/ajedamilola/pharmalink/internal/repository"
	"github.com/ajedamilola/pharmalink/internal/service"
	"github.com/ajedamilola/pharmalink/internal/websocket"
	"github.com/ajedamilola/pharmalink/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           PharmaLink API
// @version         1.0
// @description     Pharmacy supply-chain backend: inventory and expiry tracking, buy-back marketplace, wallet, POS and orders.
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
		dbName = "pharmalink"
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

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Repositories
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	pharmacyRepo := repository.NewPharmacyRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	drugRepo := repository.NewDrugRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)
	listingRepo := repository.NewListingRepository(db)
	buybackRepo := repository.NewBuybackRepository(db)
	walletRepo := repository.NewTransactionRepository(db)
	posRepo := repository.NewPOSRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	disputeRepo := repository.NewDisputeRepository(db)
	configRepo := repository.NewConfigRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, pharmacyRepo, vendorRepo, auditRepo, txManager)
	inventoryService := service.NewInventoryService(inventoryRepo, pharmacyRepo, drugRepo, auditRepo, txManager, wsHub)
	buybackService := service.NewBuybackService(buybackRepo, inventoryRepo, listingRepo, pharmacyRepo, userRepo, notifRepo, auditRepo, txManager, wsHub)
	marketplaceService := service.NewMarketplaceService(listingRepo, orderRepo, drugRepo, pharmacyRepo, vendorRepo, walletRepo, configRepo, notifRepo, auditRepo, txManager, wsHub)
	walletService := service.NewWalletService(pharmacyRepo, walletRepo, txManager)
	restockService := service.NewRestockService(inventoryRepo, poRepo, pharmacyRepo, notifRepo, auditRepo, txManager, wsHub)
	posService := service.NewPOSService(posRepo, inventoryRepo, pharmacyRepo, walletRepo, txManager, restockService, wsHub)
	orderService := service.NewOrderService(orderRepo, poRepo, inventoryRepo, pharmacyRepo, vendorRepo, disputeRepo, userRepo, notifRepo, auditRepo, txManager, wsHub)
	vendorService := service.NewVendorService(vendorRepo, drugRepo, listingRepo, userRepo, notifRepo, txManager, wsHub)
	pharmacyService := service.NewPharmacyService(pharmacyRepo)
	notificationService := service.NewNotificationService(notifRepo)
	adminService := service.NewAdminService(db, pharmacyRepo, vendorRepo, drugRepo, orderRepo, disputeRepo, configRepo, auditRepo, notifRepo, txManager, wsHub)

	if err := adminService.SeedDefaults(context.Background()); err != nil {
		log.Fatalf("Failed to seed platform config: %v", err)
	}

	// Background auto-restock sweep
	restockWorker := worker.NewRestockWorker(restockService, 5*time.Minute)
	go restockWorker.Run(context.Background())

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	buybackHandler := handler.NewBuybackHandler(buybackService)
	marketplaceHandler := handler.NewMarketplaceHandler(marketplaceService)
	walletHandler := handler.NewWalletHandler(walletService)
	posHandler := handler.NewPOSHandler(posService)
	orderHandler := handler.NewOrderHandler(orderService)
	vendorHandler := handler.NewVendorHandler(vendorService)
	pharmacyHandler := handler.NewPharmacyHandler(pharmacyService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	adminHandler := handler.NewAdminHandler(adminService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"}
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
	root := router.Group("")
	authHandler.RegisterRoutes(root)
	inventoryHandler.RegisterRoutes(root)
	buybackHandler.RegisterRoutes(root)
	marketplaceHandler.RegisterRoutes(root)
	walletHandler.RegisterRoutes(root)
	posHandler.RegisterRoutes(root)
	orderHandler.RegisterRoutes(root)
	vendorHandler.RegisterRoutes(root)
	pharmacyHandler.RegisterRoutes(root)
	notificationHandler.RegisterRoutes(root)
	adminHandler.RegisterRoutes(root)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
