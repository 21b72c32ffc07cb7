// Package main is the entry point for the snowflip CLI application.
// It provides convenient access to Flipside Crypto datasets via Snowflake.
package main

import (
	"snowflip/cli/cmd"
)

// main initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
