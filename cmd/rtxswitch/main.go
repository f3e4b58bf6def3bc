// Package main provides the entry point for the rtxswitch CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/rtxswitch/cmd/rtxswitch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
