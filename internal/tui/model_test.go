package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkc/slaguard/internal/domain"
	"github.com/tkc/slaguard/internal/modal"
)

type fakeControls struct {
	mu        sync.Mutex
	refreshes int
	closes    int
	started   int
	accept    bool
}

func (f *fakeControls) Refresh(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return true
}

func (f *fakeControls) RequestClose() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return f.accept
}

func (f *fakeControls) Start(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
}

func pendingState(ids ...string) domain.ModalState {
	s := domain.ModalState{LastRefreshedAt: time.Date(2026, 3, 2, 14, 5, 9, 0, time.UTC)}
	for _, id := range ids {
		s.Tasks = append(s.Tasks, domain.Task{
			ID:           id,
			TrackingCode: "C-" + id,
			DueDisplay:   "3 dias",
			Title:        "Corrigir " + id,
			Link:         "https://bpms.example.com/t/" + id,
		})
	}
	return s
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestInit_StartsController(t *testing.T) {
	ctrl := &fakeControls{}
	m := NewModel(context.Background(), ctrl, pendingState("1"))

	msg := m.Init()()

	assert.IsType(t, startedMsg{}, msg)
	assert.Equal(t, 1, ctrl.started)
}

func TestView_PendingState(t *testing.T) {
	m := NewModel(context.Background(), &fakeControls{}, pendingState("1", "2"))

	out := m.View()

	assert.Contains(t, out, "Atenção – Tarefas de Correção")
	assert.Contains(t, out, "Última atualização: 14:05:09")
	assert.Contains(t, out, "2 pendente(s)")
	assert.Contains(t, out, "C-1")
	assert.Contains(t, out, "Corrigir 2")
	assert.Contains(t, out, "https://bpms.example.com/t/1")
	assert.Contains(t, out, "Pendente (2)")
	assert.Contains(t, out, "fechar")
	assert.NotContains(t, out, "Tudo em dia!")
}

func TestView_ClearState(t *testing.T) {
	m := NewModel(context.Background(), &fakeControls{}, pendingState())

	out := m.View()

	assert.Contains(t, out, "Nenhuma pendência")
	assert.Contains(t, out, "Tudo em dia!")
	assert.Contains(t, out, "OK")
	assert.NotContains(t, out, "Pendente (")
}

func TestView_Refreshing(t *testing.T) {
	s := pendingState("1")
	s.IsRefreshing = true
	m := NewModel(context.Background(), &fakeControls{}, s)

	assert.Contains(t, m.View(), "Atualizando...")
}

func TestUpdate_StateMsgReplacesState(t *testing.T) {
	m := NewModel(context.Background(), &fakeControls{}, pendingState("1"))

	m, _ = update(t, m, stateMsg(pendingState("1", "2", "3")))

	assert.Equal(t, 3, m.state.Pending())
}

func TestUpdate_CloseRejectedShowsWarning(t *testing.T) {
	ctrl := &fakeControls{accept: false}
	m := NewModel(context.Background(), ctrl, pendingState("1", "2"))

	m, cmd := update(t, m, keyPress("enter"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, 1, ctrl.closes)
	assert.False(t, m.Closed())

	actionRan := false
	m, tick := update(t, m, warningMsg(modal.Warning{
		Title:    "Bloqueio de novas solicitações",
		Message:  "Você ainda tem 2 tarefa(s) pendente(s).",
		Pending:  2,
		Duration: time.Millisecond,
		Action:   modal.Action{Label: "Atualizar agora", Run: func() { actionRan = true }},
	}))
	require.NotNil(t, tick)
	assert.Contains(t, m.View(), "Você ainda tem 2 tarefa(s) pendente(s).")
	assert.Contains(t, m.View(), "Atualizar agora")

	// r triggers the warning's inline action
	m, cmd = update(t, m, keyPress("r"))
	require.NotNil(t, cmd)
	cmd()
	assert.True(t, actionRan)
	assert.Nil(t, m.warning)
}

func TestUpdate_WarningExpires(t *testing.T) {
	m := NewModel(context.Background(), &fakeControls{}, pendingState("1"))

	m, _ = update(t, m, warningMsg(modal.Warning{Title: "a", Duration: time.Second}))
	m, _ = update(t, m, warningMsg(modal.Warning{Title: "b", Duration: time.Second}))

	// a stale timer from the first warning does not hide the second
	m, _ = update(t, m, clearWarningMsg{id: 1})
	require.NotNil(t, m.warning)
	assert.Equal(t, "b", m.warning.Title)

	m, _ = update(t, m, clearWarningMsg{id: 2})
	assert.Nil(t, m.warning)
}

func TestUpdate_CloseAcceptedQuits(t *testing.T) {
	ctrl := &fakeControls{accept: true}
	m := NewModel(context.Background(), ctrl, pendingState())

	m, cmd := update(t, m, keyPress("q"))
	require.NotNil(t, cmd)
	m, quit := update(t, m, cmd())

	assert.True(t, m.Closed())
	require.NotNil(t, quit)
	assert.IsType(t, tea.QuitMsg{}, quit())
	assert.Empty(t, m.View())
}

func TestUpdate_ManualRefresh(t *testing.T) {
	ctrl := &fakeControls{}
	m := NewModel(context.Background(), ctrl, pendingState("1"))

	_, cmd := update(t, m, keyPress("r"))
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, 1, ctrl.refreshes)
}

func TestUpdate_F5Refreshes(t *testing.T) {
	ctrl := &fakeControls{}
	m := NewModel(context.Background(), ctrl, pendingState("1"))

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyF5})
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, 1, ctrl.refreshes)
}

func TestUpdate_RefreshIgnoredWhileRefreshing(t *testing.T) {
	s := pendingState("1")
	s.IsRefreshing = true
	m := NewModel(context.Background(), &fakeControls{}, s)

	_, cmd := update(t, m, keyPress("r"))

	assert.Nil(t, cmd)
}

func TestBridge_NoProgramIsNoop(t *testing.T) {
	b := &Bridge{}

	assert.NotPanics(t, func() {
		b.Present(pendingState("1"))
		b.Warn(modal.Warning{})
	})
}
