package main

import (
	"fmt"
	"time"

	"github.com/flexprice/gstbill/internal/service"
	"github.com/spf13/cobra"
)

var scanOverdueCmd = &cobra.Command{
	Use:   "scan-overdue",
	Short: "Mark every unpaid invoice past its due date as overdue",
	Example: `  gstbill-admin scan-overdue
  gstbill-admin scan-overdue --as-of 2026-03-31`,
	RunE: runScanOverdue,
}

func init() {
	scanOverdueCmd.Flags().String("as-of", "", "Scan as of this date (YYYY-MM-DD, default: now)")
}

func runScanOverdue(cmd *cobra.Command, _ []string) error {
	asOf, _ := cmd.Flags().GetString("as-of")

	now := time.Now().UTC()
	if asOf != "" {
		parsed, err := time.Parse(time.DateOnly, asOf)
		if err != nil {
			return fmt.Errorf("invalid --as-of date, use YYYY-MM-DD: %w", err)
		}
		// the whole day has passed
		now = parsed.Add(24*time.Hour - time.Second)
	}

	e, err := openServices()
	if err != nil {
		return err
	}
	defer e.close()

	resp, err := service.NewOverdueService(e.params).ScanOverdue(cmd.Context(), now)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "tenants scanned: %d, invoices marked: %d, failures: %d, skipped: %t\n",
		resp.TenantsScanned, resp.InvoicesMarked, resp.Failures, resp.Skipped)
	return nil
}
