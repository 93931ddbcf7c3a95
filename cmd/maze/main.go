// maze is a first-person text-mode maze, drawn with a ray caster.
//
// Usage:
//
//	maze list              - List available maps
//	maze play <map>        - Play a map
//	maze menu              - Pick maps interactively
//	maze scores <map>      - Show the best runs on a map
//	maze serve             - Start SSH server for remote play
//	maze gen               - Generate a random maze map file
//
// Global flags:
//
//	--config <path>  - Engine config YAML
//	--maps <dir>     - Extra directory of map files
//	--db <path>      - Set database path (default: ~/.maze/runs.db)
//	--debug          - Verbose logging
package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-maze/internal/config"
	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/maps"
	"github.com/vovakirdan/tui-maze/internal/storage"
)

var (
	// Global flags
	flagConfig  string
	flagMapsDir string
	flagDBPath  string
	flagDebug   bool
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "maze",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "maze",
	Short: "Maze - find the exit in a first-person text maze",
	Long: `Maze draws a first-person view of a grid maze with plain characters,
using a ray caster. Walk around until you find the exit.

Available commands:
  list     - Show all available maps
  play     - Play a specific map directly
  menu     - Interactive map picker
  scores   - View the best runs on a map
  serve    - Start SSH server for remote play
  gen      - Generate a random maze map file

Examples:
  maze list
  maze play classic
  maze play courtyard --line
  maze menu
  maze serve --ssh :2222
  maze gen --width 21 --height 15 --out ~/.maze/maps/big.yaml`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagDebug {
			logger.SetLevel(log.DebugLevel)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to engine config YAML")
	rootCmd.PersistentFlags().StringVar(&flagMapsDir, "maps", "", "Extra directory of map files")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.maze/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(genCmd)
}

// fatalf prints an error and exits.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadEngine loads the engine config or exits.
func loadEngine() config.Engine {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatalf("%v", err)
	}
	logger.Debug("engine config loaded",
		"screen", fmt.Sprintf("%dx%d", cfg.Screen.Width, cfg.Screen.Height),
		"fov", cfg.Camera.FOV,
		"max_depth", cfg.Camera.MaxDepth,
	)
	return cfg
}

// loadMaps returns every loadable map. Broken map files are logged and skipped.
func loadMaps() []*maps.Map {
	all, err := maps.DefaultCatalog(flagMapsDir).LoadAll()
	if err != nil {
		logger.Warn("some map files were skipped", "error", err)
	}
	return all
}

// findMap returns the map with the given ID or exits.
func findMap(id string) *maps.Map {
	m, err := maps.DefaultCatalog(flagMapsDir).Get(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'maze list' to see available maps.")
		os.Exit(1)
	}
	return m
}

// completeMapIDs offers map IDs for shell completion of the first argument.
func completeMapIDs(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return maps.DefaultCatalog(flagMapsDir).IDs(), cobra.ShellCompDirectiveNoFileComp
}

// openStore opens the runs database. Play goes on without history when it
// cannot be opened, so failures only warn and return nil.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// runtimeConfig returns the terminal size and the local player name.
func runtimeConfig(engine config.Engine) core.RuntimeConfig {
	rc := core.DefaultConfig()
	rc.ScreenW, rc.ScreenH = engine.Screen.Width, engine.Screen.Height
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rc.ScreenW, rc.ScreenH = w, h
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		rc.Player = u.Username
	}
	return rc
}
