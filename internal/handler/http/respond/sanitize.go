package respond

import (
	"regexp"
)

// データベースパスワードパターン（DSN内）
var dbPasswordPattern = regexp.MustCompile(`://([^:]+):([^@]+)@`)

// SanitizeError は機密情報をマスクしたエラーメッセージを返す
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	// DBパスワードのマスク
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")

	return msg
}
