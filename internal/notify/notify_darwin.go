//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
	"strings"
)

// Send sends a macOS notification using osascript
func Send(title, message string) error {
	script := fmt.Sprintf(`display notification "%s" with title "%s" sound name "Glass"`, escape(message), escape(title))
	cmd := exec.Command("osascript", "-e", script)
	return cmd.Run()
}

// SendPending announces that the blocking modal opened
func SendPending(pending int) error {
	title := "⛔ slaguard: Tarefas de correção"
	message := fmt.Sprintf("%d tarefa(s) de correção em atraso", pending)
	return Send(title, message)
}

// SendCloseRejected mirrors the in-terminal warning shown when closing is refused
func SendCloseRejected(title, message string) error {
	return Send("⚠️ "+title, truncate(message, 80))
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
