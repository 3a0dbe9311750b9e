package main

import (
	"os"

	"github.com/sadopc/tomato/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
