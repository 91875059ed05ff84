package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"task-management/backend/internal/logging"
	"task-management/backend/internal/models"
)

// ErrUserNotFound はユーザーが見つからない場合のエラーです。
var ErrUserNotFound = errors.New("user not found")

// UserRepository はユーザー参照データへの読み取り操作を定義します。
type UserRepository interface {
	FindAll() ([]*models.User, error)
	FindByUsername(username string) (*models.User, error)
}

// MySQLUserRepository はUserRepositoryのMySQL実装です。
type MySQLUserRepository struct {
	DB *sql.DB
}

// NewMySQLUserRepository は新しいMySQLUserRepositoryインスタンスを作成します。
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{DB: db}
}

// FindAll はすべてのユーザーをid昇順で取得します (アサイン先一覧用)。
func (r *MySQLUserRepository) FindAll() ([]*models.User, error) {
	query := "SELECT id, username FROM users ORDER BY id ASC"

	rows, err := r.DB.Query(query)
	if err != nil {
		logging.Logger.Errorf("Failed to query users: %v", err)
		return nil, fmt.Errorf("could not query users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			logging.Logger.Errorf("Failed to scan user: %v", err)
			return nil, fmt.Errorf("could not scan user: %w", err)
		}
		users = append(users, &u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// FindByUsername はユーザー名でユーザーを検索します。
func (r *MySQLUserRepository) FindByUsername(username string) (*models.User, error) {
	query := "SELECT id, username FROM users WHERE username = ?"

	var u models.User
	err := r.DB.QueryRow(query, username).Scan(&u.ID, &u.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logging.Logger.Errorf("Failed to query user by username: %v", err)
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	return &u, nil
}
