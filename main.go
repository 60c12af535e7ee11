// Package main is the entry point for the Accessgate CLI application.
package main

import (
	"accessgate/cli/cmd"
)

func main() {
	cmd.Execute()
}
