package main

import (
	"os"

	"github.com/syedshahzad7/diabetes-visualization/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
