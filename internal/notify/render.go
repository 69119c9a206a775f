package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/autopatch-project/autopatch-agent/internal/hostinfo"
)

// Subject renders the one-line headline for a run's notification.
func Subject(hostname, headline string) string {
	return fmt.Sprintf("[autopatch] %s: %s", hostname, headline)
}

// Body renders the notification body: a short host header followed by the
// detail the decision produced.
func Body(host hostinfo.Info, tool, summary, detail string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Host:    %s\n", host.Hostname)
	fmt.Fprintf(&b, "OS:      %s\n", host.OSName)
	fmt.Fprintf(&b, "Tool:    %s\n", tool)
	fmt.Fprintf(&b, "Time:    %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "\n%s\n", summary)
	if detail != "" {
		fmt.Fprintf(&b, "\n%s\n", detail)
	}
	return b.String()
}
