// Command tsh is a tiny shell with job control.
package main

import (
	"fmt"
	"os"

	"tsh/internal/shell"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		// The read loop reports fatal errors itself.
		if !shell.IsFatal(err) {
			fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		}
		os.Exit(1)
	}
}
