package backend

import (
	"github.com/pkg/errors"

	"github.com/autopatch-project/autopatch-agent/internal/execcmd"
)

// checkUpdateAvailable is the documented yum/dnf convention: check-update
// exits 100 when updates are waiting and 0 when there are none.
const checkUpdateAvailable = 100

// yumDnfBackend drives the RedHat family. dnf and yum share a CLI surface
// for everything this agent does, so one implementation carries both, bound
// to whichever binary detection found.
type yumDnfBackend struct {
	runner execcmd.Runner
	tool   string
}

func newYumDnf(runner execcmd.Runner, tool string) *yumDnfBackend {
	return &yumDnfBackend{runner: runner, tool: tool}
}

func (b *yumDnfBackend) Family() Family { return FamilyYumDnf }
func (b *yumDnfBackend) Tool() string   { return b.tool }

func (b *yumDnfBackend) RefreshMetadata() error {
	res := b.runner.Run(b.tool, []string{"makecache"}, nil)
	if res.Err != nil {
		return errors.Wrapf(res.Err, "running %s makecache", b.tool)
	}
	if res.ExitCode != 0 {
		return &RefreshError{Tool: b.tool, ExitCode: res.ExitCode}
	}
	return nil
}

func (b *yumDnfBackend) CheckUpdates() (Availability, error) {
	res := b.runner.Run(b.tool, []string{"check-update"}, nil)
	if res.Err != nil {
		return AvailabilityUnknown, errors.Wrapf(res.Err, "running %s check-update", b.tool)
	}
	switch res.ExitCode {
	case 0:
		return AvailabilityNone, nil
	case checkUpdateAvailable:
		return AvailabilityUpdates, nil
	default:
		return AvailabilityUnknown, &CheckError{Tool: b.tool, ExitCode: res.ExitCode}
	}
}

// SimulateUpgrade answers "no" to the transaction prompt, which makes the
// tool print the full resolution and stop without touching the system.
func (b *yumDnfBackend) SimulateUpgrade(UpgradeMode) (DryRun, error) {
	res := b.runner.Run(b.tool, []string{"upgrade", "--assumeno"}, nil)
	if res.Err != nil {
		return DryRun{}, errors.Wrapf(res.Err, "running %s upgrade --assumeno", b.tool)
	}
	return DryRun{Output: string(res.Output), ExitCode: res.ExitCode}, nil
}

// ApplyUpgrade runs the single upgrade mode this family has; the mode
// argument only matters for apt.
func (b *yumDnfBackend) ApplyUpgrade(mode UpgradeMode) error {
	res := b.runner.Run(b.tool, []string{"upgrade", "-y"}, nil)
	if res.Err != nil {
		return errors.Wrapf(res.Err, "running %s upgrade", b.tool)
	}
	if res.ExitCode != 0 {
		return &ApplyError{Tool: b.tool, Mode: mode, ExitCode: res.ExitCode}
	}
	return nil
}
