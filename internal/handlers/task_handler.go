package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"task-management/backend/internal/logging"
	"task-management/backend/internal/models"
	"task-management/backend/internal/repositories"
	"task-management/backend/internal/services"
)

// TaskHandler はタスク関連のハンドラーを管理します。
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler は新しいTaskHandlerを作成します。
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// handleTaskError はサービス層のエラーをHTTPレスポンスに変換します。
// ストア由来のエラー詳細はログにのみ残し、クライアントへは返しません。
func handleTaskError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Code, "message": validationErr.Message})
		return
	}
	if errors.Is(err, repositories.ErrTaskNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Task not found"})
		return
	}
	logging.Logger.Errorf("Task operation failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Internal server error"})
}

// parseTaskID はパスパラメータからタスクIDを取得します。
func parseTaskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id", "message": "Invalid ID format"})
		return 0, false
	}
	return id, true
}

// GetTasksHandler はタスク一覧を取得します。
func (h *TaskHandler) GetTasksHandler(c *gin.Context) {
	tasks, err := h.taskService.GetTasks()
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTaskByIDHandler は指定IDのタスクを取得します。
func (h *TaskHandler) GetTaskByIDHandler(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTaskByID(id)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTaskHandler は新しいタスクを作成します。
func (h *TaskHandler) CreateTaskHandler(c *gin.Context) {
	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	task, err := h.taskService.CreateTask(&req)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task_id": task.ID})
}

// UpdateTaskHandler は指定IDのタスクを更新します。
// ボディで省略されたフィールドは既存の値を保持します。
func (h *TaskHandler) UpdateTaskHandler(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	var update models.TaskUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	task, err := h.taskService.UpdateTask(id, &update)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task_id": task.ID})
}

// DeleteTaskHandler は指定IDのタスクを削除します。
// 削除されたIDを返すため、2回目の呼び出しは404になります。
func (h *TaskHandler) DeleteTaskHandler(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(id); err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task_id": id})
}
