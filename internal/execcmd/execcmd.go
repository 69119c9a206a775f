package execcmd

import (
	"bytes"
	"os/exec"
)

// Result captures everything the rest of the agent is allowed to know about
// an external command: its combined output and its exit code. Callers never
// inspect *exec.ExitError themselves.
type Result struct {
	Output   []byte
	ExitCode int
	Err      error
}

// Ok reports whether the command ran and exited zero.
func (r Result) Ok() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Runner runs external commands. The concrete implementation shells out;
// tests substitute a recording fake.
type Runner interface {
	// Run executes name with args, optionally with extra environment
	// entries appended to the current process environment, and returns the
	// combined stdout+stderr with the exit code.
	Run(name string, args []string, extraEnv []string) Result

	// LookPath reports whether name resolves on PATH.
	LookPath(name string) bool
}

// System is the Runner backed by os/exec.
type System struct{}

func (System) Run(name string, args []string, extraEnv []string) Result {
	cmd := exec.Command(name, args...)
	if len(extraEnv) > 0 {
		cmd.Env = append(cmd.Environ(), extraEnv...)
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	return Result{
		Output:   out.Bytes(),
		ExitCode: exitCode(err),
		Err:      runErr(err),
	}
}

func (System) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// exitCode extracts the exit code from an exec error. A command that could
// not be started at all reports -1.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

// runErr keeps only the "could not run at all" class of error. A non-zero
// exit is carried by ExitCode, not Err, so callers interpret it per their
// tool's convention (dnf check-update exits 100 on success-with-updates).
func runErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*exec.ExitError); ok {
		return nil
	}
	return err
}
