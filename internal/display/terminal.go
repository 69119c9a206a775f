package display

import (
	"fmt"
	"io"
	"time"

	"github.com/autopatch-project/autopatch-agent/internal/decision"
)

// Color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorBold   = "\033[1m"
)

// verdictColors maps verdict kinds to colors for check-only output.
var verdictColors = map[decision.Kind]string{
	decision.ProceedSimpleUpgrade: ColorGreen,
	decision.ProceedDistUpgrade:   ColorYellow,
	decision.Escalate:             ColorRed,
	decision.NoUpdatesAvailable:   ColorGreen,
	decision.DetectionFailed:      ColorRed,
}

// PrintVerdict renders a check-only verdict for a terminal. This is the one
// interactive surface the agent has; unattended runs write the log instead.
func PrintVerdict(w io.Writer, tool string, v decision.Verdict) {
	color := verdictColors[v.Kind]

	fmt.Fprintf(w, "%sautopatch check%s\n", ColorBold+ColorBlue, ColorReset)
	fmt.Fprintf(w, "Checked: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Backend: %s\n", tool)
	fmt.Fprintf(w, "Verdict: %s%s%s\n", ColorBold+color, v.Kind, ColorReset)

	if v.Reason != "" {
		fmt.Fprintf(w, "Reason:  %s\n", v.Reason)
	}
	if v.Detail != "" {
		fmt.Fprintf(w, "\n%s\n", v.Detail)
	}
}
