package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/assistant"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of assistant",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("assistant version %s\n", assistant.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
