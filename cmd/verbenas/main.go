// Command verbenas is the command-line companion to the Verbenas API:
// continuity checks, Carnival dates and demo data straight from the
// SQLite database.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
