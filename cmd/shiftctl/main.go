package main

import (
	"os"

	"github.com/wardshift/backend/cmd/shiftctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
