// ABOUTME: Entry point for readerctl, the reader pipeline command line tool
// ABOUTME: Renders pages, ingests feeds and drives the load state machine offline

package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
