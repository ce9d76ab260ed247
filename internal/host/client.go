package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/oauth2"

	"github.com/tkc/slaguard/internal/domain"
)

// AssignmentsPath はホストのタスク割り当てAPI
const AssignmentsPath = "/api/internal/bpms/1.0/assignments"

// TokenHeader は偽造防止トークンを渡すヘッダー名
const TokenHeader = "RequestVerificationToken"

// エラー分類
var (
	ErrMissingToken = errors.New("anti-forgery token not found")
	ErrTransport    = errors.New("transport failure")
	ErrNonSuccess   = errors.New("non-success response")
	ErrDecode       = errors.New("undecodable response")
)

// Client はホストBPMSのHTTPクライアント
type Client struct {
	http     *http.Client
	origin   *url.URL
	pagePath string
	status   string
	pageSize int
	logger   *slog.Logger
}

// Options はClientの生成オプション
type Options struct {
	Origin        string
	PagePath      string
	SessionCookie string // "name=value; name2=value2"
	BearerToken   string // 空ならAuthorizationヘッダーを付けない
	Status        string
	PageSize      int
	Timeout       time.Duration
	Transport     http.RoundTripper // テスト用
	Logger        *slog.Logger
}

// NewClient は新しいClientを作成する
func NewClient(opt Options) (*Client, error) {
	origin, err := url.Parse(strings.TrimRight(opt.Origin, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid origin %q: %w", opt.Origin, err)
	}
	if origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("invalid origin %q: scheme and host are required", opt.Origin)
	}

	// ブラウザの credentials: 'include' に相当するCookieJar
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if opt.SessionCookie != "" {
		_, cookies, err := NormalizeCookie(opt.SessionCookie)
		if err != nil {
			return nil, err
		}
		jar.SetCookies(origin, cookies)
	}

	transport := opt.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if opt.BearerToken != "" {
		src := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: opt.BearerToken},
		)
		transport = &oauth2.Transport{Source: src, Base: transport}
	}

	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	pageSize := opt.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	status := opt.Status
	if status == "" {
		status = "Late"
	}

	return &Client{
		http: &http.Client{
			Jar:       jar,
			Transport: transport,
			Timeout:   opt.Timeout,
		},
		origin:   origin,
		pagePath: opt.PagePath,
		status:   status,
		pageSize: pageSize,
		logger:   logger,
	}, nil
}

// Origin はホストのオリジンを返す
func (c *Client) Origin() string {
	return c.origin.String()
}

// assignmentsResponse はAPIのレスポンス形式
type assignmentsResponse struct {
	Success *struct {
		Itens []domain.Task `json:"itens"`
	} `json:"success"`
}

// AssignmentsURL はキーワード検索用のURLを組み立てる
func (c *Client) AssignmentsURL(keyword string) string {
	u := *c.origin
	u.Path = AssignmentsPath
	q := url.Values{}
	q.Set("status", c.status)
	q.Set("length", strconv.Itoa(c.pageSize))
	q.Set("keyword", keyword)
	u.RawQuery = q.Encode()
	return u.String()
}

// FetchAssignments は1キーワード分の期限切れタスクを取得する
func (c *Client) FetchAssignments(ctx context.Context, token, keyword string) ([]domain.Task, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.AssignmentsURL(keyword), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set(TokenHeader, token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s", ErrNonSuccess, resp.Status)
	}

	var body assignmentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if body.Success == nil {
		return nil, nil
	}

	c.logger.Debug("assignments fetched", "keyword", keyword, "count", len(body.Success.Itens))
	return body.Success.Itens, nil
}

// ReadToken はホストのページから偽造防止トークンを読み込む
func (c *Client) ReadToken(ctx context.Context) (string, error) {
	u := *c.origin
	u.Path = c.pagePath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s", ErrNonSuccess, resp.Status)
	}

	return ExtractToken(resp.Body)
}
