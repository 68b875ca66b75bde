package main

import (
	"fmt"
	"os"

	"github.com/barysiuk/agentkit/cmd/agentkit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if advice := cmd.Advice(err); advice != "" {
			fmt.Fprintln(os.Stderr, advice)
		}
		os.Exit(1)
	}
}
