package modal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/tkc/slaguard/internal/domain"
	"github.com/tkc/slaguard/internal/metrics"
)

// DefaultInterval は自動更新の間隔
const DefaultInterval = 30 * time.Second

// WarningDuration は閉じる操作を拒否したときの警告の表示時間
const WarningDuration = 7 * time.Second

// 更新のきっかけ
const (
	TriggerTimer  = "timer"
	TriggerManual = "manual"
	TriggerAction = "action"
)

// Discoverer は1回分のタスク検索を行う
type Discoverer interface {
	DiscoverOverdueTasks(ctx context.Context) domain.DiscoveryResult
}

// DiscovererFunc は関数をDiscovererとして使うためのアダプタ
type DiscovererFunc func(ctx context.Context) domain.DiscoveryResult

func (f DiscovererFunc) DiscoverOverdueTasks(ctx context.Context) domain.DiscoveryResult {
	return f(ctx)
}

// Presenter は状態のスナップショットを表示する。状態が変わるたびに呼ばれる
type Presenter interface {
	Present(state domain.ModalState)
}

// PresenterFunc は関数をPresenterとして使うためのアダプタ
type PresenterFunc func(state domain.ModalState)

func (f PresenterFunc) Present(state domain.ModalState) { f(state) }

// Action は警告に付くアクション
type Action struct {
	Label string
	Run   func()
}

// Warning は閉じる操作が拒否されたときの警告
type Warning struct {
	Title    string
	Message  string
	Pending  int
	Duration time.Duration
	Action   Action
}

// Notifier は警告をユーザーに伝える
type Notifier interface {
	Warn(w Warning)
}

// NotifierFunc は関数をNotifierとして使うためのアダプタ
type NotifierFunc func(w Warning)

func (f NotifierFunc) Warn(w Warning) { f(w) }

// Ticker は定期更新のスケジュール
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Options はControllerの設定。ゼロ値ならデフォルトを使う
type Options struct {
	Interval  time.Duration
	Notifier  Notifier
	OnClose   func()
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Now       func() time.Time
	NewTicker func(time.Duration) Ticker
}

// Controller はブロッキングモーダルの状態機械。
// 更新中に要求された更新はスキップされる。
// タイマーの間隔は New を呼んだ時点から数える
type Controller struct {
	discoverer Discoverer
	presenter  Presenter
	notifier   Notifier
	onClose    func()
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
	newTicker  func(time.Duration) Ticker
	interval   time.Duration

	mu     sync.Mutex
	state  domain.ModalState
	ctx    context.Context
	ticker Ticker

	startOnce sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// New は初期スナップショットを持つ表示中のControllerを作成し、タイマーを起動する
func New(initial domain.DiscoveryResult, d Discoverer, p Presenter, opt Options) *Controller {
	c := &Controller{
		discoverer: d,
		presenter:  p,
		notifier:   opt.Notifier,
		onClose:    opt.OnClose,
		logger:     opt.Logger,
		metrics:    opt.Metrics,
		now:        opt.Now,
		newTicker:  opt.NewTicker,
		interval:   opt.Interval,
		ctx:        context.Background(),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.newTicker == nil {
		c.newTicker = newTimeTicker
	}
	if c.interval <= 0 {
		c.interval = DefaultInterval
	}
	if c.notifier == nil {
		c.notifier = NotifierFunc(func(Warning) {})
	}

	c.state = domain.ModalState{
		Tasks:           append(domain.DiscoveryResult{}, initial...),
		LastRefreshedAt: c.now(),
	}
	c.ticker = c.newTicker(c.interval)
	return c
}

// Start は初期状態を表示し、タイマーによる更新を開始する。
// 2回目以降の呼び出しは何もしない
func (c *Controller) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		c.mu.Lock()
		if c.state.Closed {
			c.mu.Unlock()
			return
		}
		c.ctx = ctx
		ticks := c.ticker.C()
		snap := c.state.Clone()
		c.mu.Unlock()

		c.logger.Debug("modal started", "pending", snap.Pending(), "interval", c.interval)
		c.presenter.Present(snap)
		go c.loop(ctx, ticks)
	})
}

func (c *Controller) loop(ctx context.Context, ticks <-chan time.Time) {
	for {
		select {
		case <-c.stop:
			return
		case <-ctx.Done():
			return
		case <-ticks:
			// 終了処理と競合したtickでは更新しない
			select {
			case <-c.stop:
				return
			default:
			}
			go c.refresh(ctx, TriggerTimer)
		}
	}
}

// Refresh はタスク検索を1回行い、結果が空でもそのまま反映する。
// スキップされた場合や、閉じた後に結果が届いた場合は false を返す
func (c *Controller) Refresh(ctx context.Context) bool {
	return c.refresh(ctx, TriggerManual)
}

func (c *Controller) refresh(ctx context.Context, trigger string) bool {
	c.mu.Lock()
	if c.state.Closed || c.state.IsRefreshing {
		c.mu.Unlock()
		c.logger.Debug("refresh skipped", "trigger", trigger)
		return false
	}
	c.state.IsRefreshing = true
	snap := c.state.Clone()
	c.mu.Unlock()

	c.metrics.RecordRefresh(trigger)
	c.presenter.Present(snap)

	result := c.discoverer.DiscoverOverdueTasks(ctx)

	c.mu.Lock()
	if c.state.Closed {
		c.mu.Unlock()
		c.logger.Debug("refresh result discarded after close", "trigger", trigger)
		return false
	}
	before := c.state.Phase()
	c.state.Tasks = append(domain.DiscoveryResult{}, result...)
	c.state.LastRefreshedAt = c.now()
	c.state.IsRefreshing = false
	snap = c.state.Clone()
	c.mu.Unlock()

	if after := snap.Phase(); after != before {
		c.logger.Info("modal phase changed", "from", before, "to", after, "pending", snap.Pending())
	}
	c.presenter.Present(snap)
	return true
}

// RequestClose は閉じる操作を判定する。
// 未完了タスクがあれば警告を出して拒否し、なければタイマーを止めて終了する
func (c *Controller) RequestClose() bool {
	c.mu.Lock()
	if c.state.Closed {
		c.mu.Unlock()
		return true
	}
	pending := c.state.Pending()
	if pending > 0 {
		ctx := c.ctx
		c.mu.Unlock()

		c.metrics.RecordClose(false)
		c.logger.Info("close rejected", "pending", pending)
		c.notifier.Warn(Warning{
			Title:    "Bloqueio de novas solicitações",
			Message:  fmt.Sprintf("Você ainda tem %d tarefa(s) pendente(s).", pending),
			Pending:  pending,
			Duration: WarningDuration,
			Action: Action{
				Label: "Atualizar agora",
				Run:   func() { c.refresh(ctx, TriggerAction) },
			},
		})
		return false
	}

	c.state.Closed = true
	c.state.IsRefreshing = false
	if c.ticker != nil {
		c.ticker.Stop()
	}
	close(c.stop)
	c.mu.Unlock()

	c.metrics.RecordClose(true)
	c.logger.Info("modal closed")
	close(c.done)
	if c.onClose != nil {
		c.onClose()
	}
	return true
}

// State は現在の状態のコピーを返す
func (c *Controller) State() domain.ModalState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Phase は現在のフェーズを返す
func (c *Controller) Phase() domain.Phase {
	return c.State().Phase()
}

// Done は閉じる操作が受け付けられるとcloseされる
func (c *Controller) Done() <-chan struct{} {
	return c.done
}
