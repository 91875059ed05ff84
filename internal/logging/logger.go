// Package logging はアプリ全体で共有するロガーを提供します。
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger はグローバルなLogrusインスタンスです。
var Logger = logrus.New()

var once sync.Once

// InitLogger はグローバルロガーを初期化します。
// LOG_FILE が設定されていればローテーション付きでファイルにも出力します。
func InitLogger() {
	once.Do(func() {
		out := io.Writer(os.Stdout)

		if logFile := os.Getenv("LOG_FILE"); logFile != "" {
			rotator := &lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
			out = io.MultiWriter(os.Stdout, rotator)
		}

		Logger.SetOutput(out)
		Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
		Logger.SetLevel(logrus.InfoLevel)
	})
}
