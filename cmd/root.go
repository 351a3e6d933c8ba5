/*
Copyright © 2025 lawai
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lawai-be",
	Short: "Legal assistant backend",
	Long: `Backend for a retrieval-augmented legal assistant. It answers
natural-language questions from a fixed corpus of statute sections and
contract clauses, with multi-turn conversation support and streaming
responses.

Use "start" to run the API server and "build-index" to build a domain's
vector snapshot from a corpus file.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "config file")
}
