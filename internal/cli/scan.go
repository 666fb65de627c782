package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/D0ntPanic/tpscube"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for nearby Bluetooth smart cubes",
	RunE:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	app, err := tpscube.Open(cfg())
	if err != nil {
		return err
	}
	defer app.Close()

	c, err := app.Cube()
	if err != nil {
		return fmt.Errorf("bluetooth not available: %w", err)
	}

	fmt.Println("Scanning for 5 seconds...")
	time.Sleep(5 * time.Second)

	devices, err := c.AvailableDevices()
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	if len(devices) == 0 {
		fmt.Println("No smart cubes found")
		return nil
	}
	for _, d := range devices {
		fmt.Printf("  %s  %s  (%s)\n", d.Address, d.Name, d.Vendor)
	}
	return nil
}
