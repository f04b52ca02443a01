package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"insurance-service/config"
	"insurance-service/internal/database"
	"insurance-service/internal/handlers"
	"insurance-service/internal/services"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	// Initialize Database
	database.Connect()
	database.Migrate()
	db := database.DB

	// Redis/Asynq Client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer asynqClient.Close()

	// Init Services
	insuranceService := services.NewInsuranceService(db)
	payuService := services.NewPayUService(cfg)
	reconcileService := services.NewReconcileService(db, insuranceService, payuService, asynqClient)

	// Handlers
	insuranceHandler := handlers.NewInsuranceHandler(insuranceService)
	paymentHandler := handlers.NewPaymentHandler(payuService, reconcileService, cfg.BaseURL, cfg.FrontendBaseURL)

	// Initialize Gin
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// Ping endpoint
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Welcome to the insurance service",
		})
	})

	// Insurance Routes
	insurance := r.Group("/api/insurance")
	{
		insurance.POST("/submit", insuranceHandler.Submit)
		insurance.GET("/all", insuranceHandler.GetAll)
		insurance.GET("/user/:mobileNumber", insuranceHandler.GetByMobile)
		insurance.POST("/update-status", insuranceHandler.UpdateStatus)
	}

	// Payment Routes
	payu := r.Group("/api/payu")
	{
		payu.POST("/initiate-payment", paymentHandler.Initiate)
		payu.POST("/initiatePayment", paymentHandler.Initiate)
		payu.GET("/verify/:id", paymentHandler.Verify)
		payu.POST("/verify/:id", paymentHandler.Verify)
		payu.GET("/redirect/:id", paymentHandler.Redirect)
	}

	// Start Cron Scheduler
	reconcileService.StartScheduler()

	log.Printf("HTTP Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
