package main

import (
	"log"

	"github.com/hibiken/asynq"

	"insurance-service/config"
	"insurance-service/internal/consumers"
	"insurance-service/internal/database"
	"insurance-service/internal/services"
	"insurance-service/internal/worker"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	// Connect DB
	database.Connect()
	database.Migrate()
	db := database.DB

	// Init Services
	insuranceService := services.NewInsuranceService(db)

	// Processor
	processor := consumers.NewReconcileProcessor(db, insuranceService)

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr}

	log.Println("Starting Asynq Worker...")
	worker.StartWorker(redisOpt, processor)
}
