package main

import (
	"os"

	"github.com/dori/donelist/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
