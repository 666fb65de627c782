package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/D0ntPanic/tpscube"
	"github.com/D0ntPanic/tpscube/internal/cube"
)

var scrambleTwoByTwo bool

var scrambleCmd = &cobra.Command{
	Use:   "scramble",
	Short: "Generate a WCA-style random-state scramble",
	RunE:  runScramble,
}

func init() {
	scrambleCmd.Flags().BoolVar(&scrambleTwoByTwo, "2x2", false, "generate a 2x2x2 scramble instead of 3x3x3")
	rootCmd.AddCommand(scrambleCmd)
}

func runScramble(cmd *cobra.Command, args []string) error {
	app, err := tpscube.Open(cfg())
	if err != nil {
		return err
	}
	defer app.Close()

	var moves []cube.Move
	if scrambleTwoByTwo {
		moves, err = app.Scramble2x2x2()
	} else {
		moves, err = app.Scramble3x3x3()
	}
	if err != nil {
		return fmt.Errorf("generate scramble: %w", err)
	}

	fmt.Println(cube.FormatMoves(moves))
	return nil
}
