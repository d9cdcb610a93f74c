package main

import (
	"os"

	"github.com/codekitchen-community/pages/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
