package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/itqanlabs/itqan/cmd"
)

func main() {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
