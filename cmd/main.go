package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"interview-prep/config"
	"interview-prep/infrastructure"
	"interview-prep/interfaces"
	"interview-prep/services"
)

func main() {
	// Load .env
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Connect DB
	db := infrastructure.NewMySQLConnection(cfg)

	// Connect RabbitMQ (optional)
	rmq := infrastructure.NewRabbitMQ(cfg)
	defer rmq.Close()

	// AI clients
	ai := infrastructure.NewOpenRouterClient(cfg)
	transcriber := infrastructure.NewWhisperTranscriber(cfg)

	interview := services.NewInterviewService(db, ai, transcriber, infrastructure.ExtractResumeText, rmq)

	// Setup Gin router
	router := gin.Default()
	interfaces.NewHTTPHandler(router, interview)

	log.Printf("🚀 Server running on http://localhost:%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
