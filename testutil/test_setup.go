// Package testutil はハンドラーテスト用のルーターとインメモリリポジトリを提供します。
// 本番コードはストアのみを信頼する設計のため、インメモリ実装はテスト専用です。
package testutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"task-management/backend/internal/handlers"
	"task-management/backend/internal/models"
	"task-management/backend/internal/repositories"
	"task-management/backend/internal/routes"
	"task-management/backend/internal/services"
)

// FakeTaskRepository はTaskRepositoryのインメモリ実装です。
// MySQL実装と同じ契約 (id昇順、省略フィールド保持、未存在はErrTaskNotFound) に従います。
type FakeTaskRepository struct {
	mu    sync.Mutex
	seq   int64
	tasks map[int64]*models.Task
}

// NewFakeTaskRepository は新しいFakeTaskRepositoryを作成します。
func NewFakeTaskRepository() *FakeTaskRepository {
	return &FakeTaskRepository{tasks: make(map[int64]*models.Task)}
}

func cloneTask(t *models.Task) *models.Task {
	clone := *t
	if t.AssigneeID != nil {
		v := *t.AssigneeID
		clone.AssigneeID = &v
	}
	if t.Deadline != nil {
		v := *t.Deadline
		clone.Deadline = &v
	}
	return &clone
}

// Create はタスクを保存し、IDとタイムスタンプを設定して返します。
func (r *FakeTaskRepository) Create(t *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	now := time.Now()
	stored := cloneTask(t)
	stored.ID = r.seq
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.tasks[stored.ID] = stored
	return cloneTask(stored), nil
}

// FindAll はすべてのタスクをid昇順で返します。
func (r *FakeTaskRepository) FindAll() ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := []*models.Task{}
	for _, t := range r.tasks {
		tasks = append(tasks, cloneTask(t))
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// FindByID は指定IDのタスクを返します。
func (r *FakeTaskRepository) FindByID(id int64) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

// Update は省略されていないフィールドのみ上書きし、updated_atを進めます。
func (r *FakeTaskRepository) Update(id int64, u *models.TaskUpdate) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrTaskNotFound
	}
	if u.AssigneeID != nil {
		v := *u.AssigneeID
		t.AssigneeID = &v
	}
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Deadline != nil {
		v := *u.Deadline
		t.Deadline = &v
	}
	t.UpdatedAt = time.Now()
	return cloneTask(t), nil
}

// Delete は指定IDのタスクを削除します。
func (r *FakeTaskRepository) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return repositories.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

// FakeUserRepository はUserRepositoryのインメモリ実装です。
// デモデータと同じ alice (id=1) と bob (id=2) をシードします。
type FakeUserRepository struct {
	users []*models.User
}

// NewFakeUserRepository は新しいFakeUserRepositoryを作成します。
func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{
		users: []*models.User{
			{ID: 1, Username: "alice"},
			{ID: 2, Username: "bob"},
		},
	}
}

// FindAll はすべてのユーザーを返します。
func (r *FakeUserRepository) FindAll() ([]*models.User, error) {
	users := make([]*models.User, len(r.users))
	copy(users, r.users)
	return users, nil
}

// FindByUsername はユーザー名で検索します。
func (r *FakeUserRepository) FindByUsername(username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

// SetupTestRouter はテスト用のGinルーターとインメモリリポジトリをセットアップします。
func SetupTestRouter(t *testing.T) (*gin.Engine, *FakeTaskRepository, *FakeUserRepository) {
	gin.SetMode(gin.TestMode)
	gin.EnableJsonDecoderDisallowUnknownFields()

	if os.Getenv("JWT_SECRET") == "" {
		t.Setenv("JWT_SECRET", "test-secret-key")
	}

	// リポジトリ
	taskRepo := NewFakeTaskRepository()
	userRepo := NewFakeUserRepository()

	// サービス
	taskService := services.NewTaskService(taskRepo)
	authService := services.NewAuthService(userRepo)
	jwtService := services.NewJWTService()

	// ハンドラー
	authHandler := handlers.NewAuthHandler(authService, jwtService)
	taskHandler := handlers.NewTaskHandler(taskService)

	r := gin.New()
	r.Use(routes.RequestIDMiddleware())

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"http://localhost:3000"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	r.POST("/login", authHandler.LoginHandler)

	authorized := r.Group("/")
	authorized.Use(routes.AuthMiddleware(jwtService))
	{
		authorized.GET("/users", authHandler.GetUsersHandler)
		authorized.GET("/tasks", taskHandler.GetTasksHandler)
		authorized.GET("/tasks/:id", taskHandler.GetTaskByIDHandler)
		authorized.POST("/tasks", taskHandler.CreateTaskHandler)
		authorized.PUT("/tasks/:id", taskHandler.UpdateTaskHandler)
		authorized.DELETE("/tasks/:id", taskHandler.DeleteTaskHandler)
	}

	return r, taskRepo, userRepo
}

// LoginAndGetToken はログインしてアクセストークンを取得します。
func LoginAndGetToken(t *testing.T, router *gin.Engine, username string) (string, error) {
	loginPayload := map[string]string{"username": username}
	body, _ := json.Marshal(loginPayload)

	req, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %s", resp.Code, resp.Body.String())
	}

	var loginRes map[string]interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &loginRes); err != nil {
		return "", fmt.Errorf("failed to unmarshal login response: %w", err)
	}

	token, ok := loginRes["access_token"].(string)
	if !ok {
		return "", errors.New("access_token not found or not a string in login response")
	}
	return token, nil
}

// CreateTestTask はテスト用のタスクを作成します。
func CreateTestTask(t *testing.T, router *gin.Engine, token, title string) int64 {
	taskPayload := map[string]interface{}{
		"user_id": 1,
		"title":   title,
	}
	body, _ := json.Marshal(taskPayload)

	req, _ := http.NewRequest(http.MethodPost, "/tasks", bytes.NewBuffer(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code, "タスク作成に失敗しました: %s", resp.Body.String())

	var created map[string]int64
	err := json.Unmarshal(resp.Body.Bytes(), &created)
	require.NoError(t, err)
	require.NotZero(t, created["task_id"])
	return created["task_id"]
}
