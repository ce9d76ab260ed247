package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tkc/slaguard/internal/domain"
	"github.com/tkc/slaguard/internal/modal"
)

// Bridge はControllerの出力を実行中のbubbleteaプログラムへ転送する
type Bridge struct {
	mu      sync.Mutex
	program *tea.Program
}

// Attach はメッセージの送り先を設定する
func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.program = p
}

func (b *Bridge) send(msg tea.Msg) {
	b.mu.Lock()
	p := b.program
	b.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Present は modal.Presenter の実装
func (b *Bridge) Present(state domain.ModalState) {
	b.send(stateMsg(state))
}

// Warn は modal.Notifier の実装
func (b *Bridge) Warn(w modal.Warning) {
	b.send(warningMsg(w))
}

// Run は閉じる操作が受け付けられるかctxが終わるまでモーダルを表示する。
// ユーザーが閉じた場合は true を返す
func Run(ctx context.Context, ctrl Controls, bridge *Bridge, initial domain.ModalState) (bool, error) {
	m := NewModel(ctx, ctrl, initial)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(program)

	final, err := program.Run()
	bridge.Attach(nil)
	if err != nil {
		if ctx.Err() != nil {
			return false, nil
		}
		return false, err
	}
	if fm, ok := final.(Model); ok {
		return fm.Closed(), nil
	}
	return false, nil
}
