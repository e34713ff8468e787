// Package main is the entry point for the crmctl admin binary.
package main

import (
	"os"

	cli "visacrm/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
