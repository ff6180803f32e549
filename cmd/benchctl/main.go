package main

import (
	"os"

	"docbench/internal/cli"
)

func main() {
	if err := cli.Execute(os.Stdout); err != nil {
		os.Exit(1)
	}
}
