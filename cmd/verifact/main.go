package main

import (
	"os"

	"github.com/ppiankov/verifact/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
