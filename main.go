// main is the entry point of the bountyviz CLI.
package main

import (
	"github.com/huangsam/bountyviz/cmd"
	"github.com/huangsam/bountyviz/internal/contract"
)

func main() {
	err := cmd.Execute()
	if closeErr := cmd.Close(); closeErr != nil {
		contract.LogWarn("Failed to close bounty store", closeErr)
	}
	if err != nil {
		contract.LogFatal("bountyviz failed", err)
	}
}
