// Package database はデータベース接続の初期化を行います。
package database

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"task-management/backend/internal/logging"
)

// GetDSN は環境変数からMySQL接続文字列 (DSN) を構築します。
// clientFoundRows=true: UPDATEの影響行数を「一致した行数」にする。
// 値が変わらない更新でも存在確認ができるようにするため。
// timeout系: ストア障害時にハングせず即座に失敗させる。
func GetDSN() string {
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASS")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	name := os.Getenv("DB_NAME")

	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?parseTime=true&clientFoundRows=true&timeout=5s&readTimeout=5s&writeTimeout=5s",
		user, pass, host, port, name,
	)
}

// InitDB はデータベース接続を初期化します。
func InitDB() (*sql.DB, error) {
	dsn := GetDSN()
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logging.Logger.Info("Successfully connected to MySQL database")
	return db, nil
}
