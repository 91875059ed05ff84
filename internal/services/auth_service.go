package services

import (
	"task-management/backend/internal/models"
	"task-management/backend/internal/repositories"
)

// AuthService は認証関連のビジネスロジックを扱います。
type AuthService struct {
	userRepo repositories.UserRepository
}

// NewAuthService は新しいAuthServiceを作成します。
func NewAuthService(userRepo repositories.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Login はユーザー名の存在を確認し、ユーザーを返します。
// パスワード検証はこの設計では行いません (ユーザー存在のみでトークン発行)。
// 未知のユーザー名は repositories.ErrUserNotFound を返します。
func (s *AuthService) Login(username string) (*models.User, error) {
	return s.userRepo.FindByUsername(username)
}

// Users はアサイン先一覧用のユーザーリストを返します。
func (s *AuthService) Users() ([]*models.User, error) {
	return s.userRepo.FindAll()
}
