// Package modelsはTaskとUserを定義します。
package models

import "time"

// TaskStatus はタスクの進行状態を表します。
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Valid は定義済みのステータス値かどうかを返します。
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task はタスクのデータベース構造体を表します。
// JSONタグ: クライアントとの通信用
type Task struct {
	ID          int64      `json:"id,omitempty"`  // 主キー (DB側で自動採番)
	UserID      int64      `json:"user_id"`       // 作成ユーザーのID（必須）
	AssigneeID  *int64     `json:"assignee_id"`   // 担当者のID (未割り当てはnull)
	Title       string     `json:"title"`         // タスクのタイトル（必須）
	Description string     `json:"description"`   // 説明文
	Status      TaskStatus `json:"status"`        // 進行状態 (デフォルト: pending)
	Deadline    *time.Time `json:"deadline"`      // 締め切り (任意)
	CreatedAt   time.Time  `json:"created_at"`    // 作成日時 (DB側で設定)
	UpdatedAt   time.Time  `json:"updated_at"`    // 更新日時 (変更のたびにDB側で更新)
}

// CreateTaskRequest はタスク作成リクエストの構造体です。
type CreateTaskRequest struct {
	UserID      int64      `json:"user_id" binding:"required"`
	AssigneeID  *int64     `json:"assignee_id"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Deadline    *time.Time `json:"deadline"`
}

// TaskUpdate はタスク更新リクエストの構造体です。
// nil のフィールドは「省略された」とみなし、既存の値を保持します。
type TaskUpdate struct {
	AssigneeID  *int64      `json:"assignee_id"`
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Status      *TaskStatus `json:"status"`
	Deadline    *time.Time  `json:"deadline"`
}
