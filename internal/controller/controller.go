// Package controller drives one run end to end: backend detection, metadata
// refresh, simulation, decision, action, and outcome reporting. Every run
// terminates in exactly one RunOutcome and at most one notification.
package controller

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/autopatch-project/autopatch-agent/internal/backend"
	"github.com/autopatch-project/autopatch-agent/internal/decision"
	"github.com/autopatch-project/autopatch-agent/internal/display"
	"github.com/autopatch-project/autopatch-agent/internal/finding"
	"github.com/autopatch-project/autopatch-agent/internal/hostinfo"
	"github.com/autopatch-project/autopatch-agent/internal/logging"
	"github.com/autopatch-project/autopatch-agent/internal/notify"
)

// Controller sequences a single run. Construct one per invocation.
type Controller struct {
	Log      logging.Logger
	Notifier notify.Notifier
	Engine   decision.Engine
	Host     hostinfo.Info

	// Detect selects the backend for this run; overridable in tests.
	Detect func() (backend.Adapter, error)

	// CheckOnly makes the run stop after the decision: no mutating action,
	// no notification, verdict printed to CheckOut.
	CheckOnly bool
	CheckOut  io.Writer
}

// RunOutcome is the final state of one invocation. Its only durable traces
// are log lines and, conditionally, one sent notification.
type RunOutcome struct {
	Backend          backend.Family
	Tool             string
	Verdict          decision.Verdict
	ActionExitCode   int
	NotificationSent bool
	ExitCode         int
}

// Run executes the full sequence and returns the outcome. The exit-code
// contract: 0 means the run completed (update, no-op, or clean escalation);
// 1 means an operational failure (no backend, refresh failed, or the
// detection path itself broke).
func (c *Controller) Run() (outcome RunOutcome) {
	runID := uuid.NewString()
	c.Log.Infof("================ run %s started on %s ================", runID, c.Host.Hostname)
	defer func() {
		c.Log.WithField("verdict", outcome.Verdict.Kind.String()).
			WithField("exit_code", outcome.ExitCode).
			WithField("notified", outcome.NotificationSent).
			Infof("================ run %s finished ================", runID)
	}()

	adapter, err := c.Detect()
	if err != nil {
		outcome.Verdict = decision.Verdict{
			Kind:   decision.DetectionFailed,
			Reason: "no-backend",
			Detail: err.Error(),
		}
		outcome.ExitCode = 1
		c.Log.WithError(err).Error("backend detection failed")
		c.notify(&outcome, "backend detection failed",
			"No supported package manager was found; the host was not updated.", err.Error())
		return outcome
	}
	outcome.Backend = adapter.Family()
	outcome.Tool = adapter.Tool()
	c.Log.Infof("backend detected: %s (%s)", adapter.Family(), adapter.Tool())

	if err := adapter.RefreshMetadata(); err != nil {
		outcome.ExitCode = 1
		var refreshErr *backend.RefreshError
		if errors.As(err, &refreshErr) {
			c.Log.Errorf("metadata refresh failed with exit code %d", refreshErr.ExitCode)
		} else {
			c.Log.WithError(err).Error("metadata refresh failed")
		}
		c.notify(&outcome, "package index refresh failed",
			"Refreshing the package index failed; no update was attempted.", err.Error())
		return outcome
	}
	c.Log.Info("package index refreshed")

	outcome.Verdict = c.decide(adapter)
	c.Log.WithField("reason", outcome.Verdict.Reason).
		Infof("decision: %s", outcome.Verdict.Kind)

	if c.CheckOnly {
		display.PrintVerdict(c.CheckOut, adapter.Tool(), outcome.Verdict)
		if outcome.Verdict.Kind == decision.DetectionFailed {
			outcome.ExitCode = 1
		}
		return outcome
	}

	c.act(adapter, &outcome)
	return outcome
}

// decide runs the family's simulation path and consults the engine. The
// yum/dnf pre-check outcome is mapped here so the engine stays pure.
func (c *Controller) decide(adapter backend.Adapter) decision.Verdict {
	if adapter.Family() == backend.FamilyYumDnf {
		return c.decideYumDnf(adapter)
	}
	return c.decideApt(adapter)
}

func (c *Controller) decideApt(adapter backend.Adapter) decision.Verdict {
	run, err := adapter.SimulateUpgrade(backend.ModeSimple)
	if err != nil {
		return simulateFailed(err)
	}
	first := finding.Parse(adapter.Family(), run)

	verdict, needDistSim := c.Engine.EvaluateApt(first)
	if !needDistSim {
		return verdict
	}

	c.Log.Info("packages kept back; simulating dist-upgrade")
	distRun, err := adapter.SimulateUpgrade(backend.ModeDistUpgrade)
	if err != nil {
		return simulateFailed(err)
	}
	second := finding.Parse(adapter.Family(), distRun)
	return c.Engine.EvaluateAptDistStage(first, second)
}

func (c *Controller) decideYumDnf(adapter backend.Adapter) decision.Verdict {
	avail, err := adapter.CheckUpdates()
	if err != nil {
		return decision.Verdict{
			Kind:   decision.DetectionFailed,
			Reason: "check-update-failed",
			Detail: err.Error(),
		}
	}
	if avail == backend.AvailabilityNone {
		return decision.Verdict{Kind: decision.NoUpdatesAvailable}
	}

	run, err := adapter.SimulateUpgrade(backend.ModeSimple)
	if err != nil {
		return simulateFailed(err)
	}
	return c.Engine.EvaluateYumDnf(finding.Parse(adapter.Family(), run))
}

func simulateFailed(err error) decision.Verdict {
	return decision.Verdict{
		Kind:   decision.DetectionFailed,
		Reason: "simulate-failed",
		Detail: err.Error(),
	}
}

// act maps the verdict to its action and settles the exit code.
func (c *Controller) act(adapter backend.Adapter, outcome *RunOutcome) {
	switch outcome.Verdict.Kind {
	case decision.NoUpdatesAvailable:
		c.Log.Info("no updates available")

	case decision.DetectionFailed:
		outcome.ExitCode = 1
		c.Log.WithField("reason", outcome.Verdict.Reason).Error("update detection failed")
		c.notify(outcome, "update detection failed",
			fmt.Sprintf("Update detection failed (%s); the host was not updated.", outcome.Verdict.Reason),
			outcome.Verdict.Detail)

	case decision.Escalate:
		c.Log.WithField("reason", outcome.Verdict.Reason).Warn("escalating to operator")
		c.notify(outcome, fmt.Sprintf("manual intervention required (%s)", outcome.Verdict.Reason),
			"The pending update was not applied automatically; please review.",
			outcome.Verdict.Detail)

	case decision.ProceedSimpleUpgrade:
		c.apply(adapter, backend.ModeSimple, outcome)

	case decision.ProceedDistUpgrade:
		c.apply(adapter, backend.ModeDistUpgrade, outcome)
	}
}

// apply performs the real upgrade. Failure is reported but does not change
// the exit code: the run completed and a human has been told.
func (c *Controller) apply(adapter backend.Adapter, mode backend.UpgradeMode, outcome *RunOutcome) {
	c.Log.Infof("applying %s via %s", mode, adapter.Tool())
	err := adapter.ApplyUpgrade(mode)
	if err == nil {
		c.Log.Infof("%s completed successfully", mode)
		return
	}

	var applyErr *backend.ApplyError
	if errors.As(err, &applyErr) {
		outcome.ActionExitCode = applyErr.ExitCode
	} else {
		outcome.ActionExitCode = -1
	}
	c.Log.WithError(err).Errorf("%s failed", mode)
	c.notify(outcome, fmt.Sprintf("upgrade failed (%s)", mode),
		fmt.Sprintf("The %s command failed after a safe decision.", mode), err.Error())
}

// notify dispatches the run's single notification. Transport failures are
// logged and swallowed: there is nobody left to tell about a failure to
// tell somebody.
func (c *Controller) notify(outcome *RunOutcome, headline, summary, detail string) {
	if c.CheckOnly {
		return
	}
	subject := notify.Subject(c.Host.Hostname, headline)
	body := notify.Body(c.Host, outcome.Tool, summary, detail)

	if err := c.Notifier.Notify(subject, body); err != nil {
		c.Log.WithError(err).Error("notification dispatch failed")
		return
	}
	outcome.NotificationSent = true
	c.Log.Infof("notification sent to operator: %s", headline)
}
