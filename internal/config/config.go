package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config はアプリケーション設定
type Config struct {
	Origin          string        `yaml:"origin"`         // ホストのオリジン (https://acme.example.com)
	PagePath        string        `yaml:"page_path"`      // トークンを読み込むページ
	SessionCookie   string        `yaml:"session_cookie"` // ブラウザのセッションCookie
	BearerToken     string        `yaml:"bearer_token"`   // OAuthゲートウェイ用 (任意)
	Keywords        []string      `yaml:"keywords"`       // 検索キーワード (順序に意味がある)
	Status          string        `yaml:"status"`         // 期限切れステータス
	PageSize        int           `yaml:"page_size"`      // 1クエリあたりの最大件数
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	MetricsAddr     string        `yaml:"metrics_addr"` // 空なら無効
}

const (
	// DefaultPagePath はトークン取得に使うデフォルトページ
	DefaultPagePath = "/my/services"
	// DefaultStatus はホストAPIの期限切れステータス
	DefaultStatus = "Late"
	// DefaultPageSize はホストAPIの取得件数
	DefaultPageSize = 100
	// DefaultRefreshInterval は自動更新の間隔
	DefaultRefreshInterval = 30 * time.Second
	// DefaultRequestTimeout はHTTPリクエストのタイムアウト
	DefaultRequestTimeout = 20 * time.Second
)

// DefaultKeywords は修正系タスクを拾うためのキーワード
var DefaultKeywords = []string{"corrigir", "correção", "correcao", "ajuste", "ajustar"}

// 環境変数名
const (
	EnvOrigin      = "SLAGUARD_ORIGIN"
	EnvCookie      = "SLAGUARD_COOKIE"
	EnvBearerToken = "SLAGUARD_BEARER_TOKEN"
	EnvInterval    = "SLAGUARD_INTERVAL"
)

const (
	configFileName = "config.yaml"
	configDirName  = ".slaguard"
)

// Default はデフォルト値のみの設定を返す
func Default() *Config {
	return &Config{
		PagePath:        DefaultPagePath,
		Keywords:        append([]string(nil), DefaultKeywords...),
		Status:          DefaultStatus,
		PageSize:        DefaultPageSize,
		RefreshInterval: DefaultRefreshInterval,
		RequestTimeout:  DefaultRequestTimeout,
	}
}

// Load は設定ファイルを読み込む。ファイルがなければデフォルトを返す
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// LoadWithPrecedence はデフォルト < 設定ファイル < 環境変数 の順で設定を解決する
// path が空なら ~/.slaguard/config.yaml を使う
func LoadWithPrecedence(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvOrigin); ok && v != "" {
		c.Origin = v
	}
	if v, ok := lookup(EnvCookie); ok && v != "" {
		c.SessionCookie = v
	}
	if v, ok := lookup(EnvBearerToken); ok && v != "" {
		c.BearerToken = v
	}
	if v, ok := lookup(EnvInterval); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvInterval, err)
		}
		c.RefreshInterval = d
	}
	c.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	if c.PagePath == "" {
		c.PagePath = DefaultPagePath
	}
	if len(c.Keywords) == 0 {
		c.Keywords = append([]string(nil), DefaultKeywords...)
	}
	if c.Status == "" {
		c.Status = DefaultStatus
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = DefaultRefreshInterval
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	c.Origin = strings.TrimRight(c.Origin, "/")
}

// Save は設定ファイルを保存する
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	// ディレクトリ作成
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate は設定が有効かどうかを検証する
func (c *Config) Validate() error {
	if c.Origin == "" {
		return fmt.Errorf("origin is required. Run: slaguard config set-origin <url>")
	}
	if !strings.HasPrefix(c.Origin, "http://") && !strings.HasPrefix(c.Origin, "https://") {
		return fmt.Errorf("origin must start with http:// or https://: %s", c.Origin)
	}
	if c.SessionCookie == "" {
		return fmt.Errorf("session_cookie is required. Run: slaguard auth login")
	}
	return nil
}

// IsConfigured はホストへ接続できる状態かどうかを返す
func (c *Config) IsConfigured() bool {
	return c.Validate() == nil
}

// DefaultPath は設定ファイルのデフォルトパスを返す
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}
