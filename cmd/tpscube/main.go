// Command tpscube is the CLI entry point for the speedcubing companion.
package main

import "github.com/D0ntPanic/tpscube/internal/cli"

func main() {
	cli.Execute()
}
