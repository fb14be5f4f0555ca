package main

import (
	"os"

	"github.com/rustyeddy/tradeops/cmd/tradeops/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
