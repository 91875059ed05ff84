// Package routesはroutingを行います。
package routes

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"task-management/backend/internal/handlers"
	"task-management/backend/internal/repositories"
	"task-management/backend/internal/services"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(db *sql.DB) *gin.Engine {
	// assigneeId のような非正規のフィールド名を黙って受け入れず、拒否する
	gin.EnableJsonDecoderDisallowUnknownFields()

	r := gin.Default()
	r.Use(RequestIDMiddleware())

	// CORS対策。プリフライト (OPTIONS) は認証なしで204を返す
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{frontendURL}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = true
	r.Use(cors.New(config))

	// リポジトリ
	taskRepo := repositories.NewMySQLTaskRepository(db)
	userRepo := repositories.NewMySQLUserRepository(db)

	// サービス
	taskService := services.NewTaskService(taskRepo)
	authService := services.NewAuthService(userRepo)
	jwtService := services.NewJWTService()

	// ハンドラー
	authHandler := handlers.NewAuthHandler(authService, jwtService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// ルーティング
	r.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database connection failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Database connection is healthy"})
	})
	r.POST("/login", authHandler.LoginHandler)

	authorized := r.Group("/")
	authorized.Use(AuthMiddleware(jwtService))
	{
		authorized.GET("/users", authHandler.GetUsersHandler)
		authorized.GET("/tasks", taskHandler.GetTasksHandler)
		authorized.GET("/tasks/:id", taskHandler.GetTaskByIDHandler)
		authorized.POST("/tasks", taskHandler.CreateTaskHandler)
		authorized.PUT("/tasks/:id", taskHandler.UpdateTaskHandler)
		authorized.DELETE("/tasks/:id", taskHandler.DeleteTaskHandler)
	}

	return r
}
