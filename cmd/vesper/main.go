package main

import (
	"os"

	"github.com/vesper-lang/vesper/cmd/vesper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
