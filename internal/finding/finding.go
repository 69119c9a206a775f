// Package finding turns raw dry-run output from a package tool into the
// structured signal set the decision engine reasons over. All matching lives
// in per-family rule tables so new tool phrasings are added as rows, not as
// control flow.
package finding

import (
	"strings"

	"github.com/autopatch-project/autopatch-agent/internal/backend"
)

// detailLineCap bounds how much of a transcript is surfaced to a human in an
// escalation message.
const detailLineCap = 100

// Set is the structured result of parsing one dry-run transcript. An empty
// string means the signal is absent; a Set with all three signals absent is
// the one representation of "safe to auto-upgrade".
type Set struct {
	// PackagesToRemove holds the removal announcement block (apt) or the
	// matching lines (yum/dnf) when the tool would remove packages.
	PackagesToRemove string

	// PackagesHeldBack holds the kept-back block. Apt family only; the
	// concept does not exist for yum/dnf.
	PackagesHeldBack string

	// ManualSignal holds conflict/error/explicit-selection lines.
	ManualSignal string

	// RawDetail is the bounded portion of the transcript worth showing to
	// a human in an escalation message.
	RawDetail string

	// Matched reports whether any rule recognized the transcript at all,
	// including the tool's own all-clear summary. Strict mode refuses to
	// proceed when this is false.
	Matched bool
}

// Safe reports whether the set carries no removal, held-back, or manual
// intervention signal.
func (s Set) Safe() bool {
	return s.PackagesToRemove == "" && s.PackagesHeldBack == "" && s.ManualSignal == ""
}

// Parse classifies a dry-run transcript for the given family. It is a pure
// function: the same input always yields the same Set.
func Parse(family backend.Family, run backend.DryRun) Set {
	if family == backend.FamilyYumDnf {
		return parseYumDnf(run.Output)
	}
	return parseApt(run.Output)
}

// capLines truncates text to at most n lines.
func capLines(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= n {
		return strings.TrimRight(text, "\n")
	}
	return strings.Join(lines[:n], "\n")
}

func appendLine(block, line string) string {
	if block == "" {
		return line
	}
	return block + "\n" + line
}
