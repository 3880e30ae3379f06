package main

import (
	"fmt"
	"os"

	"github.com/Vaibhavs10/model-info-extractor/cmd/model-info-extractor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
