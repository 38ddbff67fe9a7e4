// Command tessera drives the scheduling and tolerance-stackup engines
// from YAML project fixtures.
package main

import (
	"fmt"
	"os"

	"tessera/internal/cliapp"
)

func main() {
	app := cliapp.New()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "tessera: %v\n", err)
		os.Exit(1)
	}
}
