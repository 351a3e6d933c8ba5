/*
Copyright © 2025 lawai
*/
package main

import (
	"github.com/joho/godotenv"
	"github.com/lawai/lawai-be/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// .env is optional, API keys may already be in the environment.
	godotenv.Load()
}
