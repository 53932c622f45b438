package main

import (
	"os"

	"github.com/deskd-dev/deskd/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
