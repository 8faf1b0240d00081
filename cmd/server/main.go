package main

import (
	"context"
	"log"
	"os"

	"mortgage-office-api/config"
	"mortgage-office-api/internal/auth"
	"mortgage-office-api/internal/content"
	"mortgage-office-api/internal/docs"
	"mortgage-office-api/internal/logs"
	"mortgage-office-api/internal/monday"
	"mortgage-office-api/internal/pipeline"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"google.golang.org/genai"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.LoadConfig()

	dsn := "host=" + cfg.DBHost +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" port=" + cfg.DBPort +
		" sslmode=disable"

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	logService := &logs.LogService{DB: db}
	logs.RegisterRoutes(r, logService)

	authService := &auth.AuthService{DB: db, CFG: &cfg}
	auth.RegisterRoutes(r, authService)

	pipelineService := &pipeline.PipelineService{DB: db}
	pipeline.RegisterRoutes(r, pipelineService)

	syncService := monday.NewSyncService(db, &cfg, monday.NewClient(), authService, authService, logService)
	monday.RegisterRoutes(r, syncService)

	documentService := &docs.DocumentService{DB: db, Store: &docs.GCSStore{Bucket: cfg.GCSBucket}}
	docs.RegisterRoutes(r, documentService)

	ctx := context.Background()
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  os.Getenv("GCP_PROJECT"),
		Location: "global",
	})
	if err != nil {
		log.Printf("genai client unavailable, content generation disabled: %v", err)
	} else {
		contentService := &content.ContentService{DB: db, Client: genaiClient}
		content.RegisterRoutes(r, contentService)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on 0.0.0.0:%s ...", port)
	log.Fatal(r.Run("0.0.0.0:" + port))
}
