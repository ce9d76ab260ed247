package route

import (
	"net/url"
	"strings"
)

// ShouldActivate はサービス申請ページかどうかを判定する。
// 小文字にしたパスに "/my" と "/services" の両方が含まれる必要がある
func ShouldActivate(path string) bool {
	p := strings.ToLower(path)
	return strings.Contains(p, "/my") && strings.Contains(p, "/services")
}

// ShouldActivateURL はURLのパスに対してShouldActivateを適用する
func ShouldActivateURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return ShouldActivate(u.Path)
}
