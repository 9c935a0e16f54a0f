package main

import (
	"os"

	"github.com/hikconnect-io/hikconnect/cmd/cli"
)

func main() {
	if err := cli.GetCommandOptions().Execute(); err != nil {
		os.Exit(1)
	}
}
