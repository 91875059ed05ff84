package repositories_test

import (
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-management/backend/internal/models"
	"task-management/backend/internal/repositories"
)

// setupTestDB はテスト用のデータベース接続を確立し、テーブルを作成し、テストデータを投入します。
// TEST_DB_HOST が未設定の環境ではスキップします。
func setupTestDB(t *testing.T) *sql.DB {
	_ = godotenv.Load("../../.env")

	dbUser := os.Getenv("TEST_DB_USER")
	dbPass := os.Getenv("TEST_DB_PASS")
	dbHost := os.Getenv("TEST_DB_HOST")
	dbPort := os.Getenv("TEST_DB_PORT")
	dbName := os.Getenv("TEST_DB_NAME")

	if dbHost == "" {
		t.Skip("TEST_DB_HOST not set; skipping MySQL integration tests")
	}

	// 本番と同じDSNパラメータを使う。特にclientFoundRowsはUpdateの存在確認に必要
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?parseTime=true&clientFoundRows=true&timeout=5s&readTimeout=5s&writeTimeout=5s",
		dbUser, dbPass, dbHost, dbPort, dbName,
	)

	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err, "Failed to open database connection")
	require.NoError(t, db.Ping(), "Failed to ping database")

	// 毎回クリーンな状態にする
	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS=0;"); err != nil {
		t.Fatalf("Failed to disable foreign key checks: %v", err)
	}
	db.Exec("TRUNCATE TABLE tasks")
	db.Exec("TRUNCATE TABLE users")
	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS=1;"); err != nil {
		t.Fatalf("Failed to enable foreign key checks: %v", err)
	}

	createUsersSQL := `
		CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(255) NOT NULL UNIQUE
		);`
	if _, err := db.Exec(createUsersSQL); err != nil {
		t.Fatalf("Failed to create users table: %v", err)
	}

	createTasksSQL := `
		CREATE TABLE IF NOT EXISTS tasks (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			assignee_id INT NULL,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			status ENUM('pending', 'in_progress', 'completed') NOT NULL DEFAULT 'pending',
			deadline DATETIME NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (assignee_id) REFERENCES users(id)
		);`
	if _, err := db.Exec(createTasksSQL); err != nil {
		t.Fatalf("Failed to create tasks table: %v", err)
	}

	// デモユーザーの投入
	if _, err := db.Exec("INSERT INTO users (id, username) VALUES (1, 'alice'), (2, 'bob')"); err != nil {
		t.Fatalf("Failed to seed users: %v", err)
	}

	return db
}

func TestMySQLTaskRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := repositories.NewMySQLTaskRepository(db)

	assignee := int64(2)
	deadline := time.Date(2026, 9, 30, 12, 0, 0, 0, time.UTC)
	created, err := repo.Create(&models.Task{
		UserID:      1,
		AssigneeID:  &assignee,
		Title:       "Write spec",
		Description: "First draft",
		Status:      models.StatusPending,
		Deadline:    &deadline,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.Before(created.CreatedAt))

	fetched, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, int64(1), fetched.UserID)
	require.NotNil(t, fetched.AssigneeID)
	assert.Equal(t, assignee, *fetched.AssigneeID)
	assert.Equal(t, "Write spec", fetched.Title)
	assert.Equal(t, "First draft", fetched.Description)
	assert.Equal(t, models.StatusPending, fetched.Status)
	require.NotNil(t, fetched.Deadline)
}

func TestMySQLTaskRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := repositories.NewMySQLTaskRepository(db)

	_, err := repo.FindByID(999)
	require.ErrorIs(t, err, repositories.ErrTaskNotFound)
}

func TestMySQLTaskRepository_FindAll_StableOrder(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := repositories.NewMySQLTaskRepository(db)

	for _, title := range []string{"first", "second", "third"} {
		_, err := repo.Create(&models.Task{UserID: 1, Title: title, Description: "", Status: models.StatusPending})
		require.NoError(t, err)
	}

	tasks, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	// id昇順で返ること
	assert.Equal(t, "first", tasks[0].Title)
	assert.Equal(t, "second", tasks[1].Title)
	assert.Equal(t, "third", tasks[2].Title)
	assert.Less(t, tasks[0].ID, tasks[1].ID)
	assert.Less(t, tasks[1].ID, tasks[2].ID)
}

func TestMySQLTaskRepository_Update_PreservesOmittedFields(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := repositories.NewMySQLTaskRepository(db)

	assignee := int64(2)
	created, err := repo.Create(&models.Task{
		UserID:      1,
		AssigneeID:  &assignee,
		Title:       "Write spec",
		Description: "First draft",
		Status:      models.StatusPending,
	})
	require.NoError(t, err)

	// DATETIMEは秒精度のため、updated_atの前進を確認するには1秒以上待つ
	time.Sleep(1100 * time.Millisecond)

	status := models.StatusCompleted
	updated, err := repo.Update(created.ID, &models.TaskUpdate{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, "Write spec", updated.Title, "省略されたタイトルは保持されること")
	assert.Equal(t, "First draft", updated.Description)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, assignee, *updated.AssigneeID)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "updated_atが進むこと")
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
}

func TestMySQLTaskRepository_Update_SameValues(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := repositories.NewMySQLTaskRepository(db)

	created, err := repo.Create(&models.Task{UserID: 1, Title: "same", Description: "", Status: models.StatusPending})
	require.NoError(t, err)

	// 値が変わらない更新でも404にならないこと (clientFoundRowsによる)
	title := "same"
	_, err = repo.Update(created.ID, &models.TaskUpdate{Title: &title})
	require.NoError(t, err)
}

func TestMySQLTaskRepository_Update_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := repositories.NewMySQLTaskRepository(db)

	title := "ghost"
	_, err := repo.Update(999, &models.TaskUpdate{Title: &title})
	require.ErrorIs(t, err, repositories.ErrTaskNotFound)
}

func TestMySQLTaskRepository_Delete_Twice(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := repositories.NewMySQLTaskRepository(db)

	created, err := repo.Create(&models.Task{UserID: 1, Title: "to delete", Description: "", Status: models.StatusPending})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(created.ID))
	require.ErrorIs(t, repo.Delete(created.ID), repositories.ErrTaskNotFound)

	_, err = repo.FindByID(created.ID)
	require.ErrorIs(t, err, repositories.ErrTaskNotFound)
}

func TestMySQLUserRepository(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := repositories.NewMySQLUserRepository(db)

	users, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)

	alice, err := repo.FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), alice.ID)

	_, err = repo.FindByUsername("mallory")
	require.ErrorIs(t, err, repositories.ErrUserNotFound)
}
