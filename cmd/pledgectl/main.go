package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:          "pledgectl",
		Short:        "Operate on donations and payments without the HTTP server",
		Version:      Version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(collectCmd())
	rootCmd.AddCommand(cancelCmd())
	rootCmd.AddCommand(refundCmd())
	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(reconcilePendingCmd())
	rootCmd.AddCommand(collectCampaignCmd())
	rootCmd.AddCommand(summaryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
