package main

import (
	"os"

	"github.com/scholarai/scholar/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
