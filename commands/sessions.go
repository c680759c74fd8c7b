package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions [project-path]",
	Short: "List projects and their session logs",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	store, err := setup()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		sessions := store.Sessions(args[0])
		if len(sessions) == 0 {
			fmt.Println("no sessions found")
			return nil
		}
		for _, s := range sessions {
			fmt.Printf("%s  %s  %d bytes\n",
				s.ModifiedAt.Format("2006-01-02 15:04:05"), s.SessionID, s.SizeBytes)
		}
		return nil
	}

	projects := store.Projects()
	if len(projects) == 0 {
		fmt.Println("no projects found")
		return nil
	}
	for _, p := range projects {
		fmt.Printf("%s  %d sessions  last %s\n",
			p.Path, p.SessionCount, p.LastActivity.Format("2006-01-02 15:04:05"))
	}
	return nil
}
