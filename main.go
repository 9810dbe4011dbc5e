package main

import (
	"os"

	"github.com/emarine/cellfit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
