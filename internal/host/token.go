package host

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// TokenFieldName はホストのフォームに埋め込まれたトークンのinput名
const TokenFieldName = "__RequestVerificationToken"

// ExtractToken はHTMLから input[name="__RequestVerificationToken"] の値を取り出す
func ExtractToken(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return "", ErrMissingToken
			}
			return "", fmt.Errorf("failed to parse page: %w", z.Err())
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "input" {
				continue
			}
			var name, value string
			for _, a := range tok.Attr {
				switch strings.ToLower(a.Key) {
				case "name":
					name = a.Val
				case "value":
					value = a.Val
				}
			}
			if name == TokenFieldName && value != "" {
				return value, nil
			}
		}
	}
}
