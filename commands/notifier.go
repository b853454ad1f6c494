package commands

import (
	"fmt"
	"io"
	"sync"

	"github.com/IrakliAvdulaj/trek-fleet-apply/views"
)

// consoleNotifier พิมพ์ข้อความแจ้งเตือนลง terminal
type consoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func newConsoleNotifier(out io.Writer) *consoleNotifier { return &consoleNotifier{out: out} }

func (n *consoleNotifier) Notify(title, message string, severity views.Severity) {
	icon := "ℹ️"
	switch severity {
	case views.SeveritySuccess:
		icon = "✅"
	case views.SeverityError:
		icon = "❌"
	case views.SeverityWarning:
		icon = "⚠️"
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "%s %s: %s\n", icon, title, message)
}
