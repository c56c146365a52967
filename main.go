package main

import (
	"os"

	"github.com/dynamic-shelf-pricer/console/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
