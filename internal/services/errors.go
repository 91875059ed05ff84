package services

// ValidationError は入力値の検証エラーを表します。
// Code は機械可読なエラーコード、Message は人間向けの説明です。
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
