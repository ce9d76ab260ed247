package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tkc/slaguard/internal/domain"
	"github.com/tkc/slaguard/internal/modal"
)

// Controls は画面から操作するControllerの機能
type Controls interface {
	Refresh(ctx context.Context) bool
	RequestClose() bool
	Start(ctx context.Context)
}

type stateMsg domain.ModalState

type warningMsg modal.Warning

type clearWarningMsg struct{ id int }

type closeResultMsg struct{ accepted bool }

type startedMsg struct{}

// Model はブロッキングモーダルを描画するbubbleteaのモデル
type Model struct {
	ctx       context.Context
	ctrl      Controls
	keys      keyMap
	help      help.Model
	state     domain.ModalState
	warning   *modal.Warning
	warningID int
	width     int
	height    int
	closed    bool
}

// NewModel は新しいModelを作成する
func NewModel(ctx context.Context, ctrl Controls, initial domain.ModalState) Model {
	return Model{
		ctx:   ctx,
		ctrl:  ctrl,
		keys:  defaultKeyMap(),
		help:  help.New(),
		state: initial,
	}
}

// Init はプログラムのループ開始後にControllerを起動する
func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		m.ctrl.Start(m.ctx)
		return startedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case stateMsg:
		m.state = domain.ModalState(msg)
		if m.state.CanClose() {
			m.warning = nil
		}
	case warningMsg:
		w := modal.Warning(msg)
		m.warningID++
		m.warning = &w
		id := m.warningID
		return m, tea.Tick(w.Duration, func(time.Time) tea.Msg {
			return clearWarningMsg{id: id}
		})
	case clearWarningMsg:
		if msg.id == m.warningID {
			m.warning = nil
		}
	case closeResultMsg:
		if msg.accepted {
			m.closed = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		if m.warning != nil && m.warning.Action.Run != nil {
			run := m.warning.Action.Run
			m.warning = nil
			return m, func() tea.Msg {
				run()
				return nil
			}
		}
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.Close):
		return m, m.closeCmd()
	}
	return m, nil
}

func (m Model) refreshCmd() tea.Cmd {
	if m.state.IsRefreshing {
		return nil
	}
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		ctrl.Refresh(ctx)
		return nil
	}
}

// closeCmd は判定をUpdateの外で実行する。拒否時の警告はプログラム経由で届く
func (m Model) closeCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return closeResultMsg{accepted: ctrl.RequestClose()}
	}
}

// Closed はモーダルが閉じられたかどうかを返す
func (m Model) Closed() bool {
	return m.closed
}
