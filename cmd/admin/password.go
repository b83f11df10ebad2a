package main

import (
	"fmt"

	"github.com/flexprice/gstbill/internal/auth"
	"github.com/spf13/cobra"
)

var hashPasswordCmd = &cobra.Command{
	Use:     "hash-password <password>",
	Short:   "Print a bcrypt hash for admin.password_hash",
	Args:    cobra.ExactArgs(1),
	Example: `  GSTBILL_ADMIN_PASSWORD_HASH=$(gstbill-admin hash-password 's3cret')`,
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}
