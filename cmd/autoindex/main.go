package main

import (
	"os"

	"go-autoindex/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
