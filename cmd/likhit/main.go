package main

import (
	"os"

	"github.com/mgpai22/likhit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
