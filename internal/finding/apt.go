package finding

import (
	"regexp"
	"strings"
)

// aptBlockRule matches a header line that introduces an indented block of
// package names, e.g.
//
//	The following packages will be REMOVED:
//	  foo bar
//
// Names on the header line after the colon count as part of the block; apt
// keeps short lists on one line.
type aptBlockRule struct {
	name   string
	header *regexp.Regexp
	assign func(*Set, string)
}

var aptBlockRules = []aptBlockRule{
	{
		name:   "removal",
		header: regexp.MustCompile(`^The following packages will be REMOVED`),
		assign: func(s *Set, block string) { s.PackagesToRemove = block },
	},
	{
		name:   "held-back",
		header: regexp.MustCompile(`^The following packages have been kept back`),
		assign: func(s *Set, block string) { s.PackagesHeldBack = block },
	},
}

// aptSignalRule matches a single line that means the upgrade needs a human:
// dependency problems, apt errors, or a download large enough that someone
// should schedule it.
type aptSignalRule struct {
	name  string
	match *regexp.Regexp
}

var aptSignalRules = []aptSignalRule{
	{name: "unmet-dependencies", match: regexp.MustCompile(`have unmet dependencies`)},
	{name: "apt-error", match: regexp.MustCompile(`^E: `)},
	{name: "explicit-selection", match: regexp.MustCompile(`needs? to be explicitly selected`)},
	{name: "large-download", match: regexp.MustCompile(`Need to get .*\bGB of archives`)},
}

var (
	// "3 upgraded, 0 newly installed, 0 to remove and 0 not upgraded."
	aptSummaryLine = regexp.MustCompile(`^\d+ upgraded, \d+ newly installed`)

	// Any of apt's "The following ... packages ..." headers marks where
	// human-relevant detail begins.
	aptDetailHeader = regexp.MustCompile(`(?i)^The following .*packages`)
)

func parseApt(output string) Set {
	var set Set
	lines := strings.Split(output, "\n")

	detailStart := -1
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if detailStart < 0 && aptDetailHeader.MatchString(line) {
			detailStart = i
		}

		if blockRule := matchAptBlock(line); blockRule != nil {
			block, next := collectAptBlock(line, lines, i+1)
			blockRule.assign(&set, block)
			set.Matched = true
			i = next - 1
			continue
		}

		for _, rule := range aptSignalRules {
			if rule.match.MatchString(line) {
				set.ManualSignal = appendLine(set.ManualSignal, strings.TrimSpace(line))
				set.Matched = true
				break
			}
		}

		if aptSummaryLine.MatchString(line) {
			set.Matched = true
		}
	}

	if detailStart < 0 {
		set.RawDetail = capLines(output, detailLineCap)
	} else {
		set.RawDetail = capLines(strings.Join(lines[detailStart:], "\n"), detailLineCap)
	}
	return set
}

func matchAptBlock(line string) *aptBlockRule {
	for i := range aptBlockRules {
		if aptBlockRules[i].header.MatchString(line) {
			return &aptBlockRules[i]
		}
	}
	return nil
}

// collectAptBlock gathers the package names belonging to a header line:
// whatever follows the colon on the header itself, plus every subsequent
// indented line. It returns the block and the index of the first line after
// it.
func collectAptBlock(header string, lines []string, start int) (string, int) {
	var block string

	if idx := strings.Index(header, ":"); idx >= 0 {
		if rest := strings.TrimSpace(header[idx+1:]); rest != "" {
			block = rest
		}
	}

	i := start
	for ; i < len(lines); i++ {
		line := lines[i]
		if !strings.HasPrefix(line, " ") || strings.TrimSpace(line) == "" {
			break
		}
		block = appendLine(block, strings.TrimSpace(line))
	}
	return block, i
}
