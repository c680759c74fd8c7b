package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentlens/agentlens/internal/core/stream"
	"github.com/agentlens/agentlens/internal/core/watch"
	"github.com/agentlens/agentlens/internal/data/logfile"
	"github.com/agentlens/agentlens/internal/presentation/tui"
	"github.com/agentlens/agentlens/internal/util"
)

var (
	debug   bool
	dataDir string

	rootCmd = &cobra.Command{
		Use:   "agentlens",
		Short: "Interactive viewer for Claude Code session logs",
		Long: `agentlens browses the JSONL session logs Claude Code writes under its
project directory. It pages through session events newest-first, follows
log files as they grow, searches full logs with AND/OR queries, and opens
sub-agent timelines next to the session that launched them.

Examples:
  agentlens                                  # Browse projects interactively
  agentlens --dir /path/to/claude/projects   # Use a different data directory
  agentlens sessions                         # List projects and sessions
  agentlens events <project> <session>       # Dump one event page as JSON
  agentlens search <project> <session> <q>   # One-shot full-log search`,
		RunE: runViewer,
	}
)

const (
	defaultLogFile = "~/.agentlens/logs/app.log"
	defaultDataDir = "~/.claude/projects"
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", defaultDataDir,
		"Claude project directory path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

// setup initializes logging and opens the event store. Every subcommand
// routes through it.
func setup() (*logfile.Store, error) {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := util.ExpandPath(defaultLogFile)
	if err := util.EnsureDir(filepath.Dir(logFile)); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	// Debug output goes to the log file only; the terminal belongs to the UI
	util.InitLogger(logLevel, logFile, false)

	dataDir = util.ExpandPath(dataDir)
	store, err := logfile.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory %s: %w", dataDir, err)
	}
	return store, nil
}

func runViewer(cmd *cobra.Command, args []string) error {
	store, err := setup()
	if err != nil {
		return err
	}

	bus := watch.NewBus()
	watcher := watch.NewWatcher(store, bus)
	defer watcher.Close()

	ctrl := stream.NewController(store, watcher, bus, stream.TimelineConfig{})
	defer ctrl.Close()

	return tui.Run(ctrl, store)
}

func Execute() error {
	return rootCmd.Execute()
}
