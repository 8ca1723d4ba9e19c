package commands

import (
	"flag"
	"fmt"
	"log"

	pullrefresh "github.com/agiangrant/pullrefresh"
	"github.com/agiangrant/pullrefresh/internal/demo"
	"github.com/agiangrant/pullrefresh/internal/logging"
	"github.com/agiangrant/pullrefresh/refresh"
	tea "github.com/charmbracelet/bubbletea"
)

// Demo implements the 'ptr demo' command
func Demo(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	configPath := fs.String("config", pullrefresh.DefaultConfigFile, "Path to the config file")
	logFile := fs.String("debug", "", "Write debug logs to file")
	style := fs.String("style", "", "Indicator style: contained or uncontained (default: from config)")
	fs.Parse(args)

	cleanup, err := logging.Setup(*logFile)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer cleanup()

	config, err := pullrefresh.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *style != "" {
		if _, err := refresh.ParseStyle(*style); err != nil {
			return err
		}
		config.Indicator.Style = *style
	}

	m, err := demo.New(config, demo.WithLogf(logging.Printf(*logFile != "")))
	if err != nil {
		return err
	}

	log.Println("ptr demo: started")
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run(); err != nil {
		log.Printf("tea program error: %v", err)
		return err
	}
	log.Printf("ptr demo: exited after %d refreshes", m.Refreshes())
	return nil
}
