package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/tkc/slaguard/internal/domain"
	"github.com/tkc/slaguard/internal/modal"
)

// Headless は状態の変化をログ行として出力する。
// 一覧が空になったら自分で閉じる操作を要求する
type Headless struct {
	mu      sync.Mutex
	w       io.Writer
	onClear func()
}

// NewHeadless は w に書き込むHeadlessを作成する
func NewHeadless(w io.Writer) *Headless {
	return &Headless{w: w}
}

// OnClear は更新中でなくタスクが0件になったときのコールバックを設定する
func (h *Headless) OnClear(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onClear = fn
}

// Present は modal.Presenter の実装
func (h *Headless) Present(s domain.ModalState) {
	h.mu.Lock()
	onClear := h.onClear
	stamp := s.LastRefreshedAt.Format(timeLayout)
	switch {
	case s.IsRefreshing:
		fmt.Fprintf(h.w, "[%s] 🔄 Refreshing...\n", stamp)
	case s.Pending() == 0:
		fmt.Fprintf(h.w, "[%s] ✅ Nenhuma pendência\n", stamp)
	default:
		fmt.Fprintf(h.w, "[%s] ⛔ %d pendente(s)\n", stamp, s.Pending())
		for _, t := range s.Tasks {
			fmt.Fprintf(h.w, "   • %-12s %-12s %s\n", t.TrackingCode, t.DueDisplay, t.Title)
		}
	}
	h.mu.Unlock()

	if !s.IsRefreshing && s.CanClose() && onClear != nil {
		onClear()
	}
}

// Warn は modal.Notifier の実装
func (h *Headless) Warn(w modal.Warning) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.w, "⚠️  %s: %s\n", w.Title, w.Message)
}
