package main

import (
	"os"

	"github.com/kerhervel/parkplan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
