// Command ww-mapgen generates and inspects freeserf-style maps from the
// command line.
package main

import (
	"fmt"
	"os"

	"github.com/freeserf/freeserf-sub004/cmd/mapgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
