package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/nstehr/bastion/agent"
	"github.com/nstehr/bastion/config"
	"github.com/nstehr/bastion/ipc"
	"github.com/nstehr/bastion/journal"
	"github.com/nstehr/bastion/logging"
)

const banner = `
██████╗  █████╗ ███████╗████████╗██╗ ██████╗ ███╗   ██╗
██╔══██╗██╔══██╗██╔════╝╚══██╔══╝██║██╔═══██╗████╗  ██║
██████╔╝███████║███████╗   ██║   ██║██║   ██║██╔██╗ ██║
██╔══██╗██╔══██║╚════██║   ██║   ██║██║   ██║██║╚██╗██║
██████╔╝██║  ██║███████║   ██║   ██║╚██████╔╝██║ ╚████║
╚═════╝ ╚═╝  ╚═╝╚══════╝   ╚═╝   ╚═╝ ╚═════╝ ╚═╝  ╚═══╝

Turn-Based Tower Defense Intelligence`

func main() {
	configDir := flag.String("config", ".", "directory containing bastion.cfg.yaml or bastion.cfg.json")
	flag.Parse()

	if err := run(*configDir); err != nil {
		slog.Error("bastion stopped", "error", err)
		os.Exit(1)
	}
}

// run plays one match over stdin/stdout. Everything else goes to stderr.
func run(configDir string) error {
	settings, err := config.Load(configDir)
	if err != nil {
		return err
	}

	var logFile *os.File
	if settings.LogFile != "" {
		logFile, err = os.OpenFile(settings.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer logFile.Close()
	}
	if logFile != nil {
		logging.Setup(os.Stderr, settings.LogLevel, logFile)
	} else {
		logging.Setup(os.Stderr, settings.LogLevel, nil)
	}

	fmt.Fprintln(os.Stderr, banner)

	profile, err := settings.ResolveProfile()
	if err != nil {
		return err
	}

	seed := settings.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1))

	matchID := time.Now().UTC().Format("20060102T150405Z")
	var recorder agent.Recorder
	if settings.Journal.Enabled {
		j, err := journal.Open(settings.Journal.Path, matchID)
		if err != nil {
			return err
		}
		defer j.Close()
		recorder = j
	}

	slog.Info("starting bastion", "profile", profile.Name, "seed", seed, "match", matchID, "journal", settings.Journal.Enabled)

	conn := ipc.NewConnection(os.Stdin, os.Stdout, nil)
	a := agent.New(profile, rng, recorder)
	a.Register(conn)
	return conn.ReadLoop()
}
