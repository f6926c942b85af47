package main

import (
	"github.com/go-pancake/pancake/pkg/version"
	"github.com/spf13/cobra"
)

/**
 * @file: main.go
 * @description: cli program
 */

var rootCmd = &cobra.Command{
	Use:   "pancake-cli",
	Short: "pancake cli is a command line tool",
	Long:  "pancake cli is a command line tool",
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			return
		}
	},
}

func init() {
	rootCmd.AddCommand(version.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
