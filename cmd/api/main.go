package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"task-management/backend/internal/database"
	"task-management/backend/internal/logging"
	"task-management/backend/internal/routes"
)

func main() {
	// .env が無い環境 (本番など) では環境変数をそのまま使う
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logging.InitLogger()

	db, err := database.InitDB()
	if err != nil {
		logging.Logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	r := routes.SetupRouter(db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logging.Logger.Infof("Server listening on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		logging.Logger.Fatalf("Server failed: %v", err)
	}
}
