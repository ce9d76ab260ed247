package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tkc/slaguard/internal/domain"
)

const timeLayout = "15:04:05"

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))

	closeEnabledStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	closeDisabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	pendingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160"))
	clearStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34"))
	dueStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160"))
	linkStyle    = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("33"))

	buttonStyle         = lipgloss.NewStyle().Padding(0, 2).Bold(true)
	buttonActiveStyle   = buttonStyle.Foreground(lipgloss.Color("231")).Background(lipgloss.Color("28"))
	buttonDisabledStyle = buttonStyle.Foreground(lipgloss.Color("244")).Background(lipgloss.Color("237"))
	refreshStyle        = buttonStyle.Foreground(lipgloss.Color("27")).Background(lipgloss.Color("189"))

	warningStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)
)

func (m Model) View() string {
	if m.closed {
		return ""
	}

	sections := []string{
		m.headerView(),
		m.statusView(),
		m.bodyView(),
		m.footerView(),
	}
	if m.warning != nil {
		sections = append(sections, m.warningView())
	}

	box := frameStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func (m Model) headerView() string {
	closeGlyph := closeEnabledStyle.Render("×")
	if !m.state.CanClose() {
		closeGlyph = closeDisabledStyle.Render("×")
	}
	return titleStyle.Render("Atenção – Tarefas de Correção") + "  " + closeGlyph + "\n"
}

func (m Model) statusView() string {
	last := mutedStyle.Render("Última atualização: " + m.state.LastRefreshedAt.Format(timeLayout))

	count := clearStyle.Render("Nenhuma pendência")
	if n := m.state.Pending(); n > 0 {
		count = pendingStyle.Render(fmt.Sprintf("%d pendente(s)", n))
	}

	refresh := refreshStyle.Render("[r] 🔄 Atualizar")
	if m.state.IsRefreshing {
		refresh = buttonDisabledStyle.Render("⏳ Atualizando...")
	}

	return strings.Join([]string{last, count, refresh}, "   ") + "\n"
}

func (m Model) bodyView() string {
	if m.state.Pending() == 0 {
		return lipgloss.JoinVertical(lipgloss.Center,
			"",
			"✅",
			clearStyle.Render("Tudo em dia!"),
			mutedStyle.Render("Não há tarefas de correção pendentes."),
			"",
		)
	}

	intro := "Conclua as tarefas abaixo antes de abrir novas solicitações:"
	return lipgloss.JoinVertical(lipgloss.Left, intro, "", taskTable(m.state.Tasks), "")
}

func taskTable(tasks domain.DiscoveryResult) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		code := t.TrackingCode
		if code == "" {
			code = t.ID
		}
		rows = append(rows, []string{code, t.DueDisplay, t.Title, t.Link})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("N° Tarefa", "Vencimento", "Nome da Tarefa", "Link").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return s.Bold(true)
			case col == 1:
				return s.Inherit(dueStyle)
			case col == 3:
				return s.Inherit(linkStyle)
			}
			return s
		}).
		String()
}

func (m Model) footerView() string {
	hint := m.help.View(m.keys)
	if n := m.state.Pending(); n > 0 {
		return hint + "   " + buttonDisabledStyle.Render(fmt.Sprintf("Pendente (%d)", n))
	}
	return hint + "   " + buttonActiveStyle.Render("OK")
}

func (m Model) warningView() string {
	w := m.warning
	lines := []string{pendingStyle.Render(w.Title), w.Message}
	if w.Action.Label != "" {
		lines = append(lines, refreshStyle.Render("[r] "+w.Action.Label))
	}
	return warningStyle.Render(strings.Join(lines, "\n"))
}
