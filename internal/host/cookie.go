package host

import (
	"fmt"
	"net/http"
	"strings"
)

// NormalizeCookie はブラウザから貼り付けたCookieヘッダーを整形して検証する。
// "Cookie:" プレフィックスと空のセグメント (末尾の ";" など) を取り除く
func NormalizeCookie(raw string) (string, []*http.Cookie, error) {
	s := strings.TrimSpace(raw)
	if len(s) >= len("cookie:") && strings.EqualFold(s[:len("cookie:")], "cookie:") {
		s = s[len("cookie:"):]
	}

	var parts []string
	for _, p := range strings.Split(s, ";") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "", nil, fmt.Errorf("cookie cannot be empty")
	}

	normalized := strings.Join(parts, "; ")
	cookies, err := http.ParseCookie(normalized)
	if err != nil {
		return "", nil, fmt.Errorf("invalid session cookie: %w", err)
	}
	return normalized, cookies, nil
}
