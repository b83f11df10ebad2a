package main

import (
	"fmt"

	"github.com/flexprice/gstbill/internal/api/dto"
	"github.com/flexprice/gstbill/internal/service"
	"github.com/spf13/cobra"
)

var createTenantCmd = &cobra.Command{
	Use:   "create-tenant",
	Short: "Register a business and its owner account",
	Example: `  gstbill-admin create-tenant --business "Acme Traders" --owner "Asha Rao" \
    --email owner@acme.in --password 's3cret-pass' --gstin 29ABCDE1234F1Z5`,
	RunE: runCreateTenant,
}

func init() {
	f := createTenantCmd.Flags()
	f.String("business", "", "Business name")
	f.String("owner", "", "Owner name")
	f.String("email", "", "Owner email, used to sign in")
	f.String("password", "", "Owner password")
	f.String("phone", "", "Business phone")
	f.String("gstin", "", "Business GSTIN")
	f.String("state-code", "", "Two digit GST state code")

	for _, name := range []string{"business", "owner", "email", "password"} {
		_ = createTenantCmd.MarkFlagRequired(name)
	}
}

func runCreateTenant(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	req := dto.RegisterRequest{}
	req.BusinessName, _ = f.GetString("business")
	req.OwnerName, _ = f.GetString("owner")
	req.Email, _ = f.GetString("email")
	req.Password, _ = f.GetString("password")
	req.Phone, _ = f.GetString("phone")
	req.GSTIN, _ = f.GetString("gstin")
	req.StateCode, _ = f.GetString("state-code")

	e, err := openServices()
	if err != nil {
		return err
	}
	defer e.close()

	resp, err := service.NewAuthService(e.params).Register(cmd.Context(), req)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created tenant %s (%s)\n", resp.Tenant.ID, resp.Tenant.BusinessName)
	return nil
}
