package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "punchcard",
		Short:   "Punchcard - personal billable time tracking",
		Version: Version,
	}

	rootCmd.AddCommand(trackCmd())
	rootCmd.AddCommand(stopCmd())
	rootCmd.AddCommand(discardCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(idleCheckCmd())
	rootCmd.AddCommand(idleCmd())
	rootCmd.AddCommand(entriesCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
