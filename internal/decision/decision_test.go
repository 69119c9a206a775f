package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopatch-project/autopatch-agent/internal/finding"
)

func TestEvaluateAptProceedsWhenAllSignalsAbsent(t *testing.T) {
	set := finding.Set{RawDetail: "The following packages will be upgraded:\n  openssl", Matched: true}

	verdict, needDistSim := Engine{}.EvaluateApt(set)

	assert.False(t, needDistSim)
	assert.Equal(t, ProceedSimpleUpgrade, verdict.Kind)
}

func TestEvaluateAptEscalatesOnRemoval(t *testing.T) {
	set := finding.Set{
		PackagesToRemove: "foo bar",
		RawDetail:        "The following packages will be REMOVED:\n  foo bar",
		Matched:          true,
	}

	verdict, needDistSim := Engine{}.EvaluateApt(set)

	assert.False(t, needDistSim)
	require.Equal(t, Escalate, verdict.Kind)
	assert.Equal(t, ReasonRemovalOrManual, verdict.Reason)
	assert.Contains(t, verdict.Detail, "foo bar")
}

func TestEvaluateAptEscalatesOnManualSignal(t *testing.T) {
	set := finding.Set{
		ManualSignal: "E: Unable to correct problems",
		RawDetail:    "E: Unable to correct problems",
		Matched:      true,
	}

	verdict, _ := Engine{}.EvaluateApt(set)

	require.Equal(t, Escalate, verdict.Kind)
	assert.Equal(t, ReasonRemovalOrManual, verdict.Reason)
}

func TestEvaluateAptRemovalWinsOverHeldBack(t *testing.T) {
	set := finding.Set{
		PackagesToRemove: "foo",
		PackagesHeldBack: "libssl1.1",
		Matched:          true,
	}

	verdict, needDistSim := Engine{}.EvaluateApt(set)

	assert.False(t, needDistSim)
	assert.Equal(t, Escalate, verdict.Kind)
}

func TestEvaluateAptHeldBackRequestsDistStage(t *testing.T) {
	set := finding.Set{PackagesHeldBack: "libssl1.1", Matched: true}

	_, needDistSim := Engine{}.EvaluateApt(set)

	assert.True(t, needDistSim)
}

func TestEvaluateAptDistStage(t *testing.T) {
	first := finding.Set{PackagesHeldBack: "libssl1.1", Matched: true}

	t.Run("clean dist-upgrade proceeds", func(t *testing.T) {
		second := finding.Set{RawDetail: "1 upgraded, 0 newly installed", Matched: true}

		verdict := Engine{}.EvaluateAptDistStage(first, second)

		assert.Equal(t, ProceedDistUpgrade, verdict.Kind)
	})

	t.Run("dist-upgrade removal escalates with combined detail", func(t *testing.T) {
		second := finding.Set{
			PackagesToRemove: "old-kernel",
			RawDetail:        "The following packages will be REMOVED:\n  old-kernel",
			Matched:          true,
		}

		verdict := Engine{}.EvaluateAptDistStage(first, second)

		require.Equal(t, Escalate, verdict.Kind)
		assert.Equal(t, ReasonDistUpgradeWouldRemove, verdict.Reason)
		assert.Contains(t, verdict.Detail, "libssl1.1")
		assert.Contains(t, verdict.Detail, "old-kernel")
	})
}

func TestEvaluateYumDnf(t *testing.T) {
	t.Run("safe set proceeds with the single mode", func(t *testing.T) {
		set := finding.Set{RawDetail: "Transaction Summary", Matched: true}

		verdict := Engine{}.EvaluateYumDnf(set)

		assert.Equal(t, ProceedSimpleUpgrade, verdict.Kind)
	})

	t.Run("removal escalates", func(t *testing.T) {
		set := finding.Set{PackagesToRemove: "Removing:", RawDetail: "Removing:\n systemd-compat", Matched: true}

		verdict := Engine{}.EvaluateYumDnf(set)

		require.Equal(t, Escalate, verdict.Kind)
		assert.Equal(t, ReasonRemovalOrConflict, verdict.Reason)
	})

	t.Run("conflict escalates with raw detail", func(t *testing.T) {
		set := finding.Set{
			ManualSignal: "Error: conflicting requests",
			RawDetail:    "Error: conflicting requests",
			Matched:      true,
		}

		verdict := Engine{}.EvaluateYumDnf(set)

		require.Equal(t, Escalate, verdict.Kind)
		assert.Contains(t, verdict.Detail, "Error: conflicting requests")
	})
}

func TestStrictModeEscalatesUnrecognizedOutput(t *testing.T) {
	unmatched := finding.Set{RawDetail: "plain nonsense", Matched: false}

	t.Run("default treats silence as safe", func(t *testing.T) {
		verdict, needDistSim := Engine{}.EvaluateApt(unmatched)
		assert.False(t, needDistSim)
		assert.Equal(t, ProceedSimpleUpgrade, verdict.Kind)

		assert.Equal(t, ProceedSimpleUpgrade, Engine{}.EvaluateYumDnf(unmatched).Kind)
	})

	t.Run("strict refuses to proceed", func(t *testing.T) {
		verdict, needDistSim := Engine{Strict: true}.EvaluateApt(unmatched)
		assert.False(t, needDistSim)
		require.Equal(t, Escalate, verdict.Kind)
		assert.Equal(t, ReasonUnrecognizedOutput, verdict.Reason)

		yum := Engine{Strict: true}.EvaluateYumDnf(unmatched)
		assert.Equal(t, Escalate, yum.Kind)
		assert.Equal(t, ReasonUnrecognizedOutput, yum.Reason)
	})

	t.Run("strict also guards the dist stage", func(t *testing.T) {
		first := finding.Set{PackagesHeldBack: "libssl1.1", Matched: true}
		verdict := Engine{Strict: true}.EvaluateAptDistStage(first, unmatched)
		assert.Equal(t, Escalate, verdict.Kind)
	})
}
