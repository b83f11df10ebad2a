package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gstbill-admin",
	Short: "Operator tooling for the GST billing service",
	Long: `gstbill-admin runs one-off operations against the billing database:
schema migrations, overdue scans, tenant provisioning and admin password hashing.

Configuration is read the same way as the server, from config.yaml and
GSTBILL_ prefixed environment variables.`,
	SilenceUsage: true,
}

func init() {
	time.Local = time.UTC

	rootCmd.AddCommand(migrateCmd, hashPasswordCmd, scanOverdueCmd, createTenantCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
