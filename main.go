package main

import (
	"log"

	"github.com/enertrack/meterd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("meterd: %v", err)
	}
}
