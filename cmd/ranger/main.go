package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "ranger",
	Short: "National Parks chatbot server and CLI",
	Long: `ranger answers questions about U.S. National Parks: hours, alerts,
campgrounds, fees, events, and trip planning. It serves a conversational
HTTP API backed by the National Park Service data API and a language
model, plus an MCP interface over stdio.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ranger version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ranger version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(parksCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
