package main

import (
	"github.com/KaramelBytes/vibewriter/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env with VIBEWRITER_* overrides.
	_ = godotenv.Load()
	cmd.Execute()
}
