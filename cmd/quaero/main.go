package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/ferrule-labs/quaero/internal/adapters/driving/cli"
)

func main() {
	// Optional .env in the working directory; absence is fine.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
