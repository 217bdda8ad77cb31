// main is the entry point for the srnav CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joonpark/srnav/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
