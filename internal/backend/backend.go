package backend

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/autopatch-project/autopatch-agent/internal/execcmd"
)

// Family identifies which package-manager family is in control for a run.
type Family string

const (
	FamilyApt    Family = "apt"
	FamilyYumDnf Family = "yum-dnf"
)

// UpgradeMode selects between the apt family's two upgrade actions. The
// yum/dnf family has a single mode and ignores it.
type UpgradeMode int

const (
	ModeSimple UpgradeMode = iota
	ModeDistUpgrade
)

func (m UpgradeMode) String() string {
	if m == ModeDistUpgrade {
		return "dist-upgrade"
	}
	return "upgrade"
}

// Availability is the result of the cheap update pre-check.
type Availability int

const (
	// AvailabilityUnknown means the family has no cheap check and the
	// caller must simulate to find out (apt).
	AvailabilityUnknown Availability = iota
	AvailabilityNone
	AvailabilityUpdates
)

// DryRun is the raw text captured from a simulate invocation plus its exit
// code. It is consumed immediately by the finding parser and never persisted.
type DryRun struct {
	Output   string
	ExitCode int
}

// Adapter is the contract over a host's package subsystem. Implementations
// must route every command through an execcmd.Runner so that no raw exit
// code escapes this package.
type Adapter interface {
	Family() Family

	// Tool names the concrete binary the adapter bound to (apt-get, dnf,
	// yum); used for logging and notification bodies.
	Tool() string

	// RefreshMetadata refreshes the package index. A non-zero exit is a
	// *RefreshError and fatal to the run.
	RefreshMetadata() error

	// SimulateUpgrade runs the family's dry-run upgrade and returns the
	// combined output with exit code. It must not mutate system state.
	// The returned error is reserved for "the tool could not be run at
	// all"; a non-zero exit still yields a DryRun.
	SimulateUpgrade(mode UpgradeMode) (DryRun, error)

	// CheckUpdates is the cheap pre-check. Only the yum/dnf family
	// implements it; apt reports AvailabilityUnknown.
	CheckUpdates() (Availability, error)

	// ApplyUpgrade performs the real mutating upgrade, non-interactively
	// and preserving existing configuration files on conflict. A non-zero
	// exit is an *ApplyError.
	ApplyUpgrade(mode UpgradeMode) error
}

// ErrNoBackend is returned by Detect when no supported package manager is
// on PATH.
var ErrNoBackend = errors.New("no supported package manager found on PATH")

// Detect picks the backend for this run. First match wins: apt before dnf
// before yum, reflecting deployment priority. Detection happens exactly once
// per run.
func Detect(runner execcmd.Runner) (Adapter, error) {
	switch {
	case runner.LookPath("apt-get"):
		return newApt(runner), nil
	case runner.LookPath("dnf"):
		return newYumDnf(runner, "dnf"), nil
	case runner.LookPath("yum"):
		return newYumDnf(runner, "yum"), nil
	}
	return nil, ErrNoBackend
}

// RefreshError reports a failed package-index refresh.
type RefreshError struct {
	Tool     string
	ExitCode int
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("%s metadata refresh failed with exit code %d", e.Tool, e.ExitCode)
}

// ApplyError reports a failed real upgrade. It is non-fatal to the process.
type ApplyError struct {
	Tool     string
	Mode     UpgradeMode
	ExitCode int
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("%s %s failed with exit code %d", e.Tool, e.Mode, e.ExitCode)
}

// CheckError reports a pre-check exit code outside the tool's documented
// convention.
type CheckError struct {
	Tool     string
	ExitCode int
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("%s check-update failed with exit code %d", e.Tool, e.ExitCode)
}
