package finding

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopatch-project/autopatch-agent/internal/backend"
)

// Transcripts below are captured from apt-get --simulate runs on Debian and
// Ubuntu hosts, trimmed to the lines that matter.

const aptCleanUpgrade = `Reading package lists...
Building dependency tree...
Reading state information...
Calculating upgrade...
The following packages will be upgraded:
  base-files libssl3 openssl
3 upgraded, 0 newly installed, 0 to remove and 0 not upgraded.
Inst base-files [12.4+deb12u4] (12.4+deb12u5 Debian:12.5/stable [amd64])
Conf base-files (12.4+deb12u5 Debian:12.5/stable [amd64])`

const aptRemovalUpgrade = `Reading package lists...
Building dependency tree...
Calculating upgrade...
The following packages will be REMOVED:
  foo bar
The following packages will be upgraded:
  libssl3
1 upgraded, 0 newly installed, 2 to remove and 0 not upgraded.`

const aptHeldBackInline = `Reading package lists...
Building dependency tree...
Calculating upgrade...
The following packages have been kept back: libssl1.1
0 upgraded, 0 newly installed, 0 to remove and 1 not upgraded.`

const aptHeldBackBlock = `Reading package lists...
Building dependency tree...
Calculating upgrade...
The following packages have been kept back:
  linux-generic linux-headers-generic
  linux-image-generic
0 upgraded, 0 newly installed, 0 to remove and 3 not upgraded.`

func TestParseAptCleanUpgradeIsSafe(t *testing.T) {
	set := Parse(backend.FamilyApt, backend.DryRun{Output: aptCleanUpgrade})

	assert.True(t, set.Safe())
	assert.True(t, set.Matched)
	assert.Empty(t, set.PackagesToRemove)
	assert.Empty(t, set.PackagesHeldBack)
	assert.Empty(t, set.ManualSignal)
	assert.True(t, strings.HasPrefix(set.RawDetail, "The following packages will be upgraded"),
		"detail should start at the first packages header, got %q", set.RawDetail)
}

func TestParseAptRemovalBlock(t *testing.T) {
	set := Parse(backend.FamilyApt, backend.DryRun{Output: aptRemovalUpgrade})

	assert.False(t, set.Safe())
	assert.Equal(t, "foo bar", set.PackagesToRemove)
	assert.Contains(t, set.RawDetail, "foo bar")
	assert.Contains(t, set.RawDetail, "The following packages will be REMOVED")
}

func TestParseAptHeldBack(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"inline list", aptHeldBackInline, "libssl1.1"},
		{"indented block", aptHeldBackBlock, "linux-generic linux-headers-generic\nlinux-image-generic"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			set := Parse(backend.FamilyApt, backend.DryRun{Output: tc.output})
			assert.Equal(t, tc.want, set.PackagesHeldBack)
			assert.Empty(t, set.PackagesToRemove)
			assert.Empty(t, set.ManualSignal)
		})
	}
}

func TestParseAptManualSignals(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"unmet dependencies", "The following packages have unmet dependencies:"},
		{"apt error", "E: Unable to correct problems, you have held broken packages."},
		{"explicit selection", "Package linux-image needs to be explicitly selected through apt."},
		{"huge download", "Need to get 2,113 MB/2.4 GB of archives."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			output := "Reading package lists...\n" + tc.line + "\n"
			set := Parse(backend.FamilyApt, backend.DryRun{Output: output})

			require.NotEmpty(t, set.ManualSignal)
			assert.Contains(t, set.ManualSignal, strings.TrimSpace(tc.line))
			assert.False(t, set.Safe())
		})
	}
}

func TestParseAptUnrecognizedOutput(t *testing.T) {
	set := Parse(backend.FamilyApt, backend.DryRun{Output: "something entirely unexpected\n"})

	// Nothing matched ⇒ no signals ⇒ nominally safe; Matched stays false so
	// strict mode can refuse it.
	assert.True(t, set.Safe())
	assert.False(t, set.Matched)
	assert.Equal(t, "something entirely unexpected", set.RawDetail)
}

func TestParseAptIsIdempotent(t *testing.T) {
	run := backend.DryRun{Output: aptRemovalUpgrade}
	first := Parse(backend.FamilyApt, run)
	second := Parse(backend.FamilyApt, run)
	assert.Equal(t, first, second)
}

func TestParseAptDetailIsCapped(t *testing.T) {
	var b strings.Builder
	b.WriteString("The following packages will be upgraded:\n")
	for i := 0; i < 400; i++ {
		fmt.Fprintf(&b, "  package-%d\n", i)
	}
	set := Parse(backend.FamilyApt, backend.DryRun{Output: b.String()})

	lines := strings.Split(set.RawDetail, "\n")
	assert.LessOrEqual(t, len(lines), detailLineCap)
}
