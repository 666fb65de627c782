package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/D0ntPanic/tpscube"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise local solve history with the configured sync endpoint",
	RunE:  runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	app, err := tpscube.Open(cfg())
	if err != nil {
		return err
	}
	defer app.Close()

	err = app.Sync(context.Background())
	switch {
	case err == nil:
		fmt.Println("Sync complete")
		return nil
	case errors.Is(err, tpscube.ErrAPIVersionMismatch):
		return fmt.Errorf("sync: server speaks an incompatible protocol version; upgrade this client")
	default:
		return fmt.Errorf("sync: %w", err)
	}
}
