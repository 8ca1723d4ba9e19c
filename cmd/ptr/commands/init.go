package commands

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	pullrefresh "github.com/agiangrant/pullrefresh"
)

// Init implements the 'ptr init' command
func Init(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	configPath := fs.String("config", pullrefresh.DefaultConfigFile, "Path of the config file to write")
	density := fs.Float64("density", 1, "Display density (pixels per dp)")
	style := fs.String("style", "contained", "Indicator style: contained or uncontained")
	scriptDir := fs.String("scripts", "scripts", "Directory for the example replay script")
	force := fs.Bool("force", false, "Overwrite existing files")
	fs.Parse(args)

	return initProject(*configPath, *scriptDir, *density, *style, *force)
}

func initProject(configPath, scriptDir string, density float64, style string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}

	config := pullrefresh.DefaultConfig()
	config.Display.Density = density
	config.Indicator.Style = style

	// Reject values the container would refuse before writing anything
	if _, err := config.Options(staticContent{}); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if err := pullrefresh.SaveConfig(configPath, config); err != nil {
		return err
	}
	fmt.Printf("  ✓ Created %s\n", configPath)

	if err := os.MkdirAll(scriptDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", scriptDir, err)
	}
	examplePath := filepath.Join(scriptDir, "pull.yaml")
	if _, err := os.Stat(examplePath); os.IsNotExist(err) || force {
		if err := os.WriteFile(examplePath, []byte(exampleScript), 0644); err != nil {
			return fmt.Errorf("failed to create %s: %w", examplePath, err)
		}
		fmt.Printf("  ✓ Created %s\n", examplePath)
	}

	fmt.Println("")
	fmt.Println("Next steps:")
	fmt.Println("  ptr demo                    # Try the gesture in the terminal")
	fmt.Printf("  ptr replay %s   # Print a frame trace\n", examplePath)
	return nil
}

// staticContent is a content stub used to validate settings.
type staticContent struct{}

func (staticContent) CanScrollUp() bool { return false }

const exampleScript = `# Pull-to-refresh replay script
# Touch y values are in pixels; waits advance the simulated clock.
name: pull past the threshold and finish
content:
  viewport: 600
  height: 3000
steps:
  - action: down
    y: 100
  - action: wait
    duration: 50ms
  - action: move
    y: 200
  - action: move
    y: 700
  - action: up
    y: 700
  - action: expect
    expect:
      refreshing: true
      refreshes: 1
  - action: wait
    duration: 1s
  - action: finish
  - action: wait
    duration: 300ms
  - action: expect
    expect:
      phase: idle
      offset: 0
`
