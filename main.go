package main

import (
	"os"

	"github.com/Eursukkul/regdesk/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
