// Package decision holds the verdict engine. It is pure: no I/O, no state,
// just findings in and a verdict out, biased toward caution — the engine
// proceeds only when a simulation shows zero removal or conflict signals.
package decision

import "github.com/autopatch-project/autopatch-agent/internal/finding"

// Kind enumerates the terminal outcomes of evaluating a run.
type Kind int

const (
	ProceedSimpleUpgrade Kind = iota + 1
	ProceedDistUpgrade
	Escalate
	NoUpdatesAvailable
	DetectionFailed
)

func (k Kind) String() string {
	switch k {
	case ProceedSimpleUpgrade:
		return "proceed-simple-upgrade"
	case ProceedDistUpgrade:
		return "proceed-dist-upgrade"
	case Escalate:
		return "escalate"
	case NoUpdatesAvailable:
		return "no-updates-available"
	case DetectionFailed:
		return "detection-failed"
	}
	return "none"
}

// Escalation and failure reasons carried on a Verdict.
const (
	ReasonRemovalOrManual        = "removal-or-manual"
	ReasonDistUpgradeWouldRemove = "dist-upgrade-would-remove"
	ReasonRemovalOrConflict      = "removal-or-conflict"
	ReasonUnrecognizedOutput     = "unrecognized-output"
)

// Verdict is the engine's output for one run. Produced fresh each run and
// never persisted.
type Verdict struct {
	Kind   Kind
	Reason string
	Detail string
}

// Engine evaluates finding sets. Strict makes it escalate when a transcript
// matched no known rule instead of treating silence as safety.
type Engine struct {
	Strict bool
}

// EvaluateApt is the Debian-family first stage. When the only signal is
// held-back packages it cannot decide yet: needDistSim asks the caller for a
// dist-upgrade simulation to feed EvaluateAptDistStage.
func (e Engine) EvaluateApt(first finding.Set) (v Verdict, needDistSim bool) {
	if first.PackagesToRemove != "" || first.ManualSignal != "" {
		return Verdict{Kind: Escalate, Reason: ReasonRemovalOrManual, Detail: first.RawDetail}, false
	}
	if e.Strict && !first.Matched {
		return Verdict{Kind: Escalate, Reason: ReasonUnrecognizedOutput, Detail: first.RawDetail}, false
	}
	if first.PackagesHeldBack != "" {
		return Verdict{}, true
	}
	return Verdict{Kind: ProceedSimpleUpgrade}, false
}

// EvaluateAptDistStage decides the held-back case once the dist-upgrade
// simulation is in. A dist-upgrade that would itself remove packages
// escalates with both the held-back list and the second-stage detail.
func (e Engine) EvaluateAptDistStage(first, second finding.Set) Verdict {
	if second.PackagesToRemove != "" || second.ManualSignal != "" {
		detail := "Packages kept back:\n" + first.PackagesHeldBack +
			"\n\nDist-upgrade simulation:\n" + second.RawDetail
		return Verdict{Kind: Escalate, Reason: ReasonDistUpgradeWouldRemove, Detail: detail}
	}
	if e.Strict && !second.Matched {
		return Verdict{Kind: Escalate, Reason: ReasonUnrecognizedOutput, Detail: second.RawDetail}
	}
	return Verdict{Kind: ProceedDistUpgrade}
}

// EvaluateYumDnf is the RedHat-family single stage; the family has one
// upgrade mode, so a safe set always means a simple upgrade.
func (e Engine) EvaluateYumDnf(set finding.Set) Verdict {
	if set.PackagesToRemove != "" || set.ManualSignal != "" {
		return Verdict{Kind: Escalate, Reason: ReasonRemovalOrConflict, Detail: set.RawDetail}
	}
	if e.Strict && !set.Matched {
		return Verdict{Kind: Escalate, Reason: ReasonUnrecognizedOutput, Detail: set.RawDetail}
	}
	return Verdict{Kind: ProceedSimpleUpgrade}
}
