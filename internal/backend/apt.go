package backend

import (
	"github.com/pkg/errors"

	"github.com/autopatch-project/autopatch-agent/internal/execcmd"
)

const aptBin = "apt-get"

// nonInteractiveEnv keeps dpkg from ever prompting during a real apply.
var nonInteractiveEnv = []string{"DEBIAN_FRONTEND=noninteractive"}

// aptBackend drives the Debian family through apt-get.
type aptBackend struct {
	runner execcmd.Runner
}

func newApt(runner execcmd.Runner) *aptBackend {
	return &aptBackend{runner: runner}
}

func (b *aptBackend) Family() Family { return FamilyApt }
func (b *aptBackend) Tool() string   { return aptBin }

func (b *aptBackend) RefreshMetadata() error {
	res := b.runner.Run(aptBin, []string{"update"}, nonInteractiveEnv)
	if res.Err != nil {
		return errors.Wrap(res.Err, "running apt-get update")
	}
	if res.ExitCode != 0 {
		return &RefreshError{Tool: aptBin, ExitCode: res.ExitCode}
	}
	return nil
}

func (b *aptBackend) SimulateUpgrade(mode UpgradeMode) (DryRun, error) {
	res := b.runner.Run(aptBin, []string{"--simulate", mode.String()}, nonInteractiveEnv)
	if res.Err != nil {
		return DryRun{}, errors.Wrapf(res.Err, "running apt-get --simulate %s", mode)
	}
	return DryRun{Output: string(res.Output), ExitCode: res.ExitCode}, nil
}

// CheckUpdates has no cheap apt equivalent; the caller always simulates.
func (b *aptBackend) CheckUpdates() (Availability, error) {
	return AvailabilityUnknown, nil
}

func (b *aptBackend) ApplyUpgrade(mode UpgradeMode) error {
	args := []string{"-y", "-o", "Dpkg::Options::=--force-confold", mode.String()}
	res := b.runner.Run(aptBin, args, nonInteractiveEnv)
	if res.Err != nil {
		return errors.Wrapf(res.Err, "running apt-get %s", mode)
	}
	if res.ExitCode != 0 {
		return &ApplyError{Tool: aptBin, Mode: mode, ExitCode: res.ExitCode}
	}
	return nil
}
