package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/D0ntPanic/tpscube"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and session status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	app, err := tpscube.Open(cfg())
	if err != nil {
		return err
	}
	defer app.Close()

	fmt.Println("tpscube status")
	fmt.Println("==============")

	sessions := app.History().Sessions()
	fmt.Printf("Sessions: %d\n", len(sessions))
	for _, s := range sessions {
		name := s.ID.String()
		if s.Name != nil {
			name = *s.Name
		}
		stats := app.History().Stats(s.ID)
		fmt.Printf("  %s: %d solves\n", name, stats.Count)
	}

	current, ok, err := app.History().CurrentSession()
	if err != nil {
		return fmt.Errorf("load current session: %w", err)
	}
	if ok {
		fmt.Printf("Current session: %s\n", current)
	} else {
		fmt.Println("No current session set")
	}

	needsSync, err := app.History().NeedsSync()
	if err != nil {
		return fmt.Errorf("check sync status: %w", err)
	}
	if needsSync {
		fmt.Println("Pending changes not yet synced")
	} else {
		fmt.Println("Nothing pending sync")
	}
	return nil
}
