package main

import (
	"fmt"
	"os"

	"github.com/ryzerecruiting/api/cmd/configure/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "ryze-configure",
		Short: "Configuration tool for the Ryze Recruiting API",
		Long:  "CLI tool for managing CORS, rate limit, and admin account settings",
	}

	rootCmd.AddCommand(commands.NewCorsCmd())
	rootCmd.AddCommand(commands.NewRatelimitCmd())
	rootCmd.AddCommand(commands.NewAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
