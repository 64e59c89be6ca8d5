package main

import (
	"os"

	"github.com/mcoffin/waystt-wrapper/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
