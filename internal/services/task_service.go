package services

import (
	"strings"

	"task-management/backend/internal/models"
	"task-management/backend/internal/repositories"
)

// TaskService はタスク関連のビジネスロジックを扱います。
type TaskService struct {
	taskRepo repositories.TaskRepository
}

// NewTaskService は新しいTaskServiceを作成します。
func NewTaskService(taskRepo repositories.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// CreateTask は検証済みのタスクを作成して返します。
// 検証に失敗した場合は行を作らずValidationErrorを返します。
func (s *TaskService) CreateTask(req *models.CreateTaskRequest) (*models.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Code: "empty_title", Message: "title must not be empty"}
	}
	if req.UserID <= 0 {
		return nil, &ValidationError{Code: "missing_user_id", Message: "user_id is required"}
	}

	status := req.Status
	if status == "" {
		status = models.StatusPending // デフォルトステータス
	}
	if !status.Valid() {
		return nil, &ValidationError{Code: "invalid_status", Message: "status must be one of pending, in_progress, completed"}
	}

	task := &models.Task{
		UserID:      req.UserID,
		AssigneeID:  req.AssigneeID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Deadline:    req.Deadline,
	}
	return s.taskRepo.Create(task)
}

// GetTasks はすべてのタスクを返します。
func (s *TaskService) GetTasks() ([]*models.Task, error) {
	return s.taskRepo.FindAll()
}

// GetTaskByID は指定IDのタスクを返します。
func (s *TaskService) GetTaskByID(id int64) (*models.Task, error) {
	return s.taskRepo.FindByID(id)
}

// UpdateTask は指定IDのタスクを更新して返します。
// 省略されたフィールドは既存の値を保持します。
func (s *TaskService) UpdateTask(id int64, u *models.TaskUpdate) (*models.Task, error) {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return nil, &ValidationError{Code: "empty_title", Message: "title must not be empty"}
	}
	if u.Status != nil && !u.Status.Valid() {
		return nil, &ValidationError{Code: "invalid_status", Message: "status must be one of pending, in_progress, completed"}
	}
	return s.taskRepo.Update(id, u)
}

// DeleteTask は指定IDのタスクを削除します。
func (s *TaskService) DeleteTask(id int64) error {
	return s.taskRepo.Delete(id)
}
