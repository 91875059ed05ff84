// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"task-management/backend/internal/logging"
	"task-management/backend/internal/models"
)

// ErrTaskNotFound はタスクが見つからない場合のエラーです。
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository はタスクの永続化操作を定義します。
type TaskRepository interface {
	Create(t *models.Task) (*models.Task, error)
	FindAll() ([]*models.Task, error)
	FindByID(id int64) (*models.Task, error)
	Update(id int64, u *models.TaskUpdate) (*models.Task, error)
	Delete(id int64) error
}

// MySQLTaskRepository はTaskRepositoryのMySQL実装です。
type MySQLTaskRepository struct {
	DB *sql.DB
}

// NewMySQLTaskRepository は新しいMySQLTaskRepositoryインスタンスを作成します。
func NewMySQLTaskRepository(db *sql.DB) *MySQLTaskRepository {
	return &MySQLTaskRepository{DB: db}
}

const taskColumns = "id, user_id, assignee_id, title, description, status, deadline, created_at, updated_at"

// scanTask は1行をTaskに変換します。assignee_idとdeadlineはNULL許容です。
func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	var t models.Task
	var assigneeID sql.NullInt64
	var deadline sql.NullTime
	var status string

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&assigneeID,
		&t.Title,
		&t.Description,
		&status,
		&deadline,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Status = models.TaskStatus(status)
	if assigneeID.Valid {
		t.AssigneeID = &assigneeID.Int64
	}
	if deadline.Valid {
		t.Deadline = &deadline.Time
	}
	return &t, nil
}

// Create は新しいタスクをデータベースに挿入します。
// created_at / updated_at はDB側で設定されるため、挿入後に再取得して返します。
func (r *MySQLTaskRepository) Create(t *models.Task) (*models.Task, error) {
	query := "INSERT INTO tasks (user_id, assignee_id, title, description, status, deadline) VALUES (?, ?, ?, ?, ?, ?)"

	result, err := r.DB.Exec(query, t.UserID, t.AssigneeID, t.Title, t.Description, string(t.Status), t.Deadline)
	if err != nil {
		logging.Logger.Errorf("Failed to insert task: %v", err)
		return nil, fmt.Errorf("could not insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}

	return r.FindByID(id)
}

// FindAll はすべてのタスクをid昇順で取得します。
func (r *MySQLTaskRepository) FindAll() ([]*models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks ORDER BY id ASC"

	rows, err := r.DB.Query(query)
	if err != nil {
		logging.Logger.Errorf("Failed to query tasks: %v", err)
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logging.Logger.Errorf("Failed to scan task: %v", err)
			return nil, fmt.Errorf("could not scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// FindByID は指定されたIDのタスクをデータベースから取得します。
func (r *MySQLTaskRepository) FindByID(id int64) (*models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE id = ?"

	t, err := scanTask(r.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		logging.Logger.Errorf("Failed to query task by ID: %v", err)
		return nil, fmt.Errorf("could not query task: %w", err)
	}

	return t, nil
}

// Update は指定されたIDのタスクを更新します。
// 省略されたフィールド (nil) はCOALESCEにより既存の値を保持します。
// 存在確認はUPDATE自体の一致行数で行い、別クエリでの事前チェックはしません
// (チェックと更新の間のレースを避けるため)。
func (r *MySQLTaskRepository) Update(id int64, u *models.TaskUpdate) (*models.Task, error) {
	query := `UPDATE tasks SET
		assignee_id = COALESCE(?, assignee_id),
		title = COALESCE(?, title),
		description = COALESCE(?, description),
		status = COALESCE(?, status),
		deadline = COALESCE(?, deadline),
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	var status *string
	if u.Status != nil {
		s := string(*u.Status)
		status = &s
	}

	result, err := r.DB.Exec(query, u.AssigneeID, u.Title, u.Description, status, u.Deadline, id)
	if err != nil {
		logging.Logger.Errorf("Failed to update task: %v", err)
		return nil, fmt.Errorf("could not update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrTaskNotFound
	}

	return r.FindByID(id)
}

// Delete は指定されたIDのタスクを削除します。
func (r *MySQLTaskRepository) Delete(id int64) error {
	query := "DELETE FROM tasks WHERE id = ?"

	result, err := r.DB.Exec(query, id)
	if err != nil {
		logging.Logger.Errorf("Failed to delete task: %v", err)
		return fmt.Errorf("could not delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}
