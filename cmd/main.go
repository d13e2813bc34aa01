package main

import (
	"os"

	"github.com/soundprediction/burstgraph/cmd/burstgraph"
)

func main() {
	if err := burstgraph.Execute(); err != nil {
		os.Exit(1)
	}
}
