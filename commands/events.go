package commands

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/agentlens/agentlens/internal/core/model"
)

var (
	eventsOffset int
	eventsLimit  int
	eventsAgent  string

	eventsCmd = &cobra.Command{
		Use:   "events <project-path> <session-id>",
		Short: "Dump one page of session events as JSON",
		Long: `Dump one page of session events as JSON, newest-first. The reported
offset is the value to pass for the next page.`,
		Args: cobra.ExactArgs(2),
		RunE: runEvents,
	}
)

func init() {
	eventsCmd.Flags().IntVar(&eventsOffset, "offset", 0, "Events already consumed from the newest end")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 0, "Page size (0 = default)")
	eventsCmd.Flags().StringVar(&eventsAgent, "agent", "", "Read a sub-agent log instead of the session log")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	store, err := setup()
	if err != nil {
		return err
	}

	scope := model.SessionScope(args[0], args[1])
	if eventsAgent != "" {
		scope = model.AgentScope(args[0], eventsAgent)
	}

	page, err := store.ListEvents(context.Background(), scope, eventsOffset, eventsLimit)
	if err != nil {
		return err
	}

	data, err := sonic.MarshalIndent(page, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
