package main

import (
	"os"

	"github.com/cyberquestjr/cyberquest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
