package main

import (
	"os"

	"postvault/internal/logging"
)

func main() {
	log := logging.New()
	defer func() { _ = log.Sync() }()

	if err := newRootCommand(log).Execute(); err != nil {
		os.Exit(1)
	}
}
