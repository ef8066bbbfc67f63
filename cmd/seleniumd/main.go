package main

import (
	"os"

	"seleniumd/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
