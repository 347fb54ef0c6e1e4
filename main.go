package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

var version = "dev"

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("contact-form"),
		kong.Description("Keep a small list of contacts and export it to CSV or JSON."),
		kong.Vars{"version": version},
	)

	cli.Globals.out = os.Stdout
	if err := ctx.Run(&cli.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
