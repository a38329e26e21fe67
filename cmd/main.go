package main

import (
	"os"

	"github.com/soundprediction/wikibio/cmd/wikibio"
)

func main() {
	if err := wikibio.Execute(); err != nil {
		os.Exit(1)
	}
}
