package main

import (
	"os"

	"github.com/marquee-app/marquee/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
