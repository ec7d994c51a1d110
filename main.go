package main

import (
	"rx2kit/cmd"
)

func main() {
	// Cobra owns exit codes: Execute calls os.Exit itself on failure.
	cmd.Execute()
}
