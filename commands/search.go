package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentlens/agentlens/internal/core/model"
)

var (
	searchMax   int
	searchAgent string

	searchCmd = &cobra.Command{
		Use:   "search <project-path> <session-id> <query>",
		Short: "Search a full session log",
		Long: `Search every event of a session log with a boolean query. Terms are
case-insensitive substrings; adjacent terms are AND, OR alternates, and
AND binds tighter than OR.`,
		Args: cobra.ExactArgs(3),
		RunE: runSearch,
	}
)

func init() {
	searchCmd.Flags().IntVar(&searchMax, "max", 0, "Maximum results (0 = default)")
	searchCmd.Flags().StringVar(&searchAgent, "agent", "", "Search a sub-agent log instead of the session log")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	store, err := setup()
	if err != nil {
		return err
	}

	scope := model.SessionScope(args[0], args[1])
	if searchAgent != "" {
		scope = model.AgentScope(args[0], searchAgent)
	}

	resp, err := store.Search(context.Background(), scope, args[2], searchMax)
	if err != nil {
		return err
	}

	for _, match := range resp.Matches {
		fmt.Printf("#%d  %s\n", match.Sequence, match.Snippet)
	}
	fmt.Printf("\n%d matches in %d events", len(resp.Matches), resp.TotalSearched)
	if resp.Truncated {
		fmt.Print(" (truncated)")
	}
	fmt.Println()
	return nil
}
