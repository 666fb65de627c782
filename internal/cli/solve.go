package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/D0ntPanic/tpscube"
	"github.com/D0ntPanic/tpscube/internal/cube"
)

var solveTwoByTwo bool

var solveCmd = &cobra.Command{
	Use:   "solve [scramble...]",
	Short: "Solve a scramble given in standard notation",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().BoolVar(&solveTwoByTwo, "2x2", false, "solve as a 2x2x2")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	app, err := tpscube.Open(cfg())
	if err != nil {
		return err
	}
	defer app.Close()

	notation := ""
	for i, a := range args {
		if i > 0 {
			notation += " "
		}
		notation += a
	}
	moves := cube.ParseMoves(notation)

	if solveTwoByTwo {
		c := cube.NewCube2x2x2()
		for _, m := range moves {
			c.Apply(m)
		}
		solution, err := app.Solver().Solve2x2x2(c)
		if err != nil {
			return fmt.Errorf("solve: %w", err)
		}
		fmt.Println(cube.FormatMoves(solution))
		return nil
	}

	c := cube.NewCube3x3x3()
	for _, m := range moves {
		c.Apply(m)
	}
	solution, err := app.Solver().Solve(c)
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}
	fmt.Println(cube.FormatMoves(solution))
	return nil
}
