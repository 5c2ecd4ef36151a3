// main is the entry point for the provscope CLI.
package main

import (
	"fmt"
	"os"

	"github.com/provscope/provscope/cmd"
)

func main() {
	os.Exit(run())
}

// run executes the CLI and returns the process exit code. Deferred cleanup
// must happen before os.Exit, hence the indirection.
func run() int {
	defer cmd.CloseStore()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
