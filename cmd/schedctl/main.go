package main

import (
	"os"

	"github.com/msto63/schedclients/cmd/schedctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
