package models

// User はユーザーのデータベース構造体を表します。
// アサイン先の参照データであり、このアプリからは読み取り専用です。
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// LoginRequest はログインリクエストの構造体です。
// パスワード検証は行わない設計です (ユーザー存在確認のみ)。
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
}

// JWTClaims はトークンに含めるクレームを表します。
type JWTClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}
