package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/autopatch-project/autopatch-agent/internal/backend"
	"github.com/autopatch-project/autopatch-agent/internal/config"
	"github.com/autopatch-project/autopatch-agent/internal/controller"
	"github.com/autopatch-project/autopatch-agent/internal/decision"
	"github.com/autopatch-project/autopatch-agent/internal/execcmd"
	"github.com/autopatch-project/autopatch-agent/internal/hostinfo"
	"github.com/autopatch-project/autopatch-agent/internal/logging"
	"github.com/autopatch-project/autopatch-agent/internal/notify"
)

const AgentVersion = "0.1.0"

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the agent config file")
	checkOnly := flag.Bool("check", false, "Decide only: print the verdict, apply nothing, notify nobody")
	strict := flag.Bool("strict", false, "Escalate when dry-run output matches no known pattern")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("autopatch-agent %s\n", AgentVersion)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}
	if !*checkOnly {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
			os.Exit(1)
		}
		logging.ToFile(cfg.LogFilePath)
	}

	runner := execcmd.System{}
	ctl := &controller.Controller{
		Log:      logging.New("controller"),
		Notifier: notify.NewMailer(cfg),
		Engine:   decision.Engine{Strict: cfg.StrictParse || *strict},
		Host:     hostinfo.Describe(),
		Detect: func() (backend.Adapter, error) {
			return backend.Detect(runner)
		},
		CheckOnly: *checkOnly,
		CheckOut:  os.Stdout,
	}

	outcome := ctl.Run()
	os.Exit(outcome.ExitCode)
}
