package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	pullrefresh "github.com/agiangrant/pullrefresh"
	"github.com/agiangrant/pullrefresh/internal/logging"
	"github.com/agiangrant/pullrefresh/internal/script"
)

// ErrExpectationsFailed is returned when a replayed script's expectations do not hold.
var ErrExpectationsFailed = errors.New("expectations failed")

// Replay implements the 'ptr replay' command
func Replay(args []string) error {
	return replay(args, os.Stdout)
}

func replay(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	configPath := fs.String("config", pullrefresh.DefaultConfigFile, "Path to the config file")
	logFile := fs.String("debug", "", "Write debug logs to file")
	density := fs.Float64("density", 0, "Display density (default: from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("usage: ptr replay [options] <script.yaml>...")
	}

	cleanup, err := logging.Setup(*logFile)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer cleanup()

	config, err := pullrefresh.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *density > 0 {
		config.Display.Density = *density
	}

	runner := script.NewRunner(config, logging.Printf(*logFile != ""))
	failed := 0
	for i, path := range fs.Args() {
		s, err := script.Load(path)
		if err != nil {
			return err
		}
		trace, err := runner.Run(s)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := trace.Write(out); err != nil {
			return err
		}
		if trace.Failed() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scripts: %w", failed, fs.NArg(), ErrExpectationsFailed)
	}
	return nil
}
