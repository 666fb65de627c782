// Package cli implements the command-line interface for tpscube.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/D0ntPanic/tpscube/internal/config"
)

const version = "0.1.0"

var (
	dbPath       string
	syncEndpoint string
	logLevel     string
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:     "tpscube",
	Short:   "Speedcubing companion CLI",
	Version: version,
	Long: `tpscube - a speedcubing companion: scramble generation, a two-phase
solver, live Bluetooth smart-cube tracking, and a durable,
multi-device-synchronised solve history.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file path (default: ~/.tpscube/tpscube.db)")
	rootCmd.PersistentFlags().StringVar(&syncEndpoint, "sync-endpoint", "", "sync server URL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// cfg assembles the resolved config from persistent flags and the environment.
func cfg() config.Config {
	return config.Config{DBPath: dbPath, SyncEndpoint: syncEndpoint, LogLevel: logLevel}.FromEnvironment()
}
