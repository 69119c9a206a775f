package finding

import "strings"

// The RedHat family gets no structured extraction: the tools vary too much
// between yum and dnf versions to carve out name blocks reliably, so presence
// of a marker anywhere in the transcript is the signal and the whole
// (bounded) transcript is the detail.

// yumRemovalMarkers flag a transaction that would remove packages.
var yumRemovalMarkers = []string{
	"removing",
}

// yumManualMarkers flag conflicts or resolution errors that need a human.
var yumManualMarkers = []string{
	"error",
	"warning",
	"conflict",
	"failed",
	"is needed by",
}

// yumRecognizedMarkers are benign lines that prove the transcript came from
// a dry-run the parser understands; they only feed Matched for strict mode.
var yumRecognizedMarkers = []string{
	"transaction summary",
	"operation aborted",
	"nothing to do",
	"dependencies resolved",
}

func parseYumDnf(output string) Set {
	var set Set
	lower := strings.ToLower(output)

	for _, line := range strings.Split(output, "\n") {
		lowerLine := strings.ToLower(line)
		if containsAny(lowerLine, yumRemovalMarkers) {
			set.PackagesToRemove = appendLine(set.PackagesToRemove, strings.TrimSpace(line))
		}
		if containsAny(lowerLine, yumManualMarkers) {
			set.ManualSignal = appendLine(set.ManualSignal, strings.TrimSpace(line))
		}
	}

	set.Matched = set.PackagesToRemove != "" || set.ManualSignal != "" ||
		containsAny(lower, yumRecognizedMarkers)
	set.RawDetail = capLines(output, detailLineCap)
	return set
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
