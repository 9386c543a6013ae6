package main

import (
	"os"

	"github.com/wallpix/backend/cmd/wallctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
