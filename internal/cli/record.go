package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/D0ntPanic/tpscube"
	"github.com/D0ntPanic/tpscube/internal/tui"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Show a live status view while solving with a connected smart cube",
	RunE:  runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	app, err := tpscube.Open(cfg())
	if err != nil {
		return err
	}
	defer app.Close()

	c, err := app.Cube()
	if err != nil {
		return fmt.Errorf("bluetooth not available: %w", err)
	}

	model := tui.New(c)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("run status view: %w", err)
	}
	return nil
}
