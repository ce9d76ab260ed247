package discovery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tkc/slaguard/internal/domain"
	"github.com/tkc/slaguard/internal/host"
	"github.com/tkc/slaguard/internal/metrics"
)

// AssignmentFetcher は1キーワード分のクエリを発行する
type AssignmentFetcher interface {
	FetchAssignments(ctx context.Context, token, keyword string) ([]domain.Task, error)
}

// Report は1回の検索サイクルの結果
type Report struct {
	CycleID string
	Result  domain.DiscoveryResult
	Queried int
	Failed  int
	Skipped bool // トークンがなく何も問い合わせていない
}

// Blind は全クエリが失敗したかどうかを返す。この場合、空の結果は「タスクなし」を意味しない
func (r Report) Blind() bool {
	return r.Queried > 0 && r.Failed == r.Queried
}

// Service は期限切れの修正タスクを検索する
type Service struct {
	fetcher  AssignmentFetcher
	keywords []string
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// Option はServiceの設定
type Option func(*Service)

// WithLogger はロガーを設定する
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics はメトリクスを設定する
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService はキーワードを指定順に問い合わせるServiceを作成する
func NewService(fetcher AssignmentFetcher, keywords []string, opts ...Option) *Service {
	s := &Service{
		fetcher:  fetcher,
		keywords: append([]string(nil), keywords...),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Keywords は問い合わせ順のキーワード一覧を返す
func (s *Service) Keywords() []string {
	return append([]string(nil), s.keywords...)
}

// DiscoverOverdueTasks は重複を除いた期限切れタスクを返す。エラーは返さない
func (s *Service) DiscoverOverdueTasks(ctx context.Context, token string) domain.DiscoveryResult {
	return s.Discover(ctx, token).Result
}

// Discover は1サイクルを実行し、その結果を返す
func (s *Service) Discover(ctx context.Context, token string) Report {
	report := Report{
		CycleID: uuid.NewString(),
		Result:  domain.DiscoveryResult{},
	}
	log := s.logger.With("cycle", report.CycleID)

	if token == "" {
		report.Skipped = true
		s.metrics.RecordMissingToken()
		log.Debug("no anti-forgery token, skipping discovery")
		return report
	}

	started := s.now()
	batches := make([][]domain.Task, 0, len(s.keywords))
	for _, kw := range s.keywords {
		report.Queried++
		tasks, err := s.fetcher.FetchAssignments(ctx, token, kw)
		s.metrics.RecordQuery(kw, outcome(err))
		if err != nil {
			report.Failed++
			log.Debug("keyword query failed", "keyword", kw, "error", err)
			continue
		}
		batches = append(batches, tasks)
	}

	report.Result = domain.Merge(batches...)
	s.metrics.RecordDiscovery(len(report.Result), s.now().Sub(started))

	log.Info("discovery finished",
		"pending", len(report.Result),
		"queried", report.Queried,
		"failed", report.Failed,
	)
	if report.Blind() {
		log.Warn("every keyword query failed; overdue tasks may exist but are undiscoverable")
	}
	return report
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, host.ErrNonSuccess):
		return metrics.OutcomeStatus
	case errors.Is(err, host.ErrDecode):
		return metrics.OutcomeDecode
	default:
		return metrics.OutcomeTransport
	}
}

// TokenFunc は呼び出し時に偽造防止トークンを返す
type TokenFunc func(ctx context.Context) string

// StaticToken は常に同じトークンを返すTokenFuncを作る
func StaticToken(token string) TokenFunc {
	return func(context.Context) string { return token }
}

// Bound はServiceとトークンの取得元をまとめたもの
type Bound struct {
	svc   *Service
	token TokenFunc
}

// Bind はBoundを返す
func (s *Service) Bind(token TokenFunc) *Bound {
	return &Bound{svc: s, token: token}
}

// DiscoverOverdueTasks は紐づいたトークンで1サイクルを実行する
func (b *Bound) DiscoverOverdueTasks(ctx context.Context) domain.DiscoveryResult {
	return b.svc.DiscoverOverdueTasks(ctx, b.token(ctx))
}
