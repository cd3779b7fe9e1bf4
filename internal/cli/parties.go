package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andy/gstbill/internal/domain"
)

// newPartyCmd builds the customers or vendors command tree. Both share one
// table layout, so one builder serves both.
func newPartyCmd(vendors bool) *cobra.Command {
	kind, plural, title := domain.PartyCustomer, "customers", "Customer"
	if vendors {
		kind, plural, title = domain.PartyVendor, "vendors", "Vendor"
	}

	root := &cobra.Command{
		Use:   plural,
		Short: "Manage " + plural,
		Long:  fmt.Sprintf("List, add, update, and delete %s.", plural),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all " + plural,
		RunE: func(cmd *cobra.Command, args []string) error {
			parties, err := appInstance.Parties(vendors).List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", plural, err)
			}

			if len(parties) == 0 {
				fmt.Printf("No %s found\n", plural)
				return nil
			}

			fmt.Printf("%-5s %-30s %-16s %-15s %-25s\n", "ID", "Name", "GSTIN", "Phone", "Email")
			fmt.Println("---------------------------------------------------------------------------------------------")
			for _, p := range parties {
				fmt.Printf("%-5d %-30s %-16s %-15s %-25s\n",
					p.ID,
					truncate(p.Name, 30),
					orDash(p.GSTIN),
					truncate(orDash(p.Phone), 15),
					truncate(orDash(p.Email), 25),
				)
			}

			fmt.Printf("\nTotal: %d %s(s)\n", len(parties), kind)
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a new " + string(kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gstin, _ := cmd.Flags().GetString("gstin")
			p := domain.NewParty(kind, args[0], gstin)
			p.Address, _ = cmd.Flags().GetString("address")
			p.Phone, _ = cmd.Flags().GetString("phone")
			p.Email, _ = cmd.Flags().GetString("email")

			if err := p.Validate(); err != nil {
				return fmt.Errorf("invalid %s: %w", kind, err)
			}
			if err := appInstance.Parties(vendors).Create(context.Background(), p); err != nil {
				return fmt.Errorf("failed to create %s: %w", kind, err)
			}

			fmt.Printf("✓ %s created: %s (ID: %d)\n", title, p.Name, p.ID)
			if p.GSTIN != "" {
				fmt.Printf("  GSTIN: %s\n", p.GSTIN)
			}
			return nil
		},
	}

	update := &cobra.Command{
		Use:   "update [id]",
		Short: "Update an existing " + string(kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := parseID(args[0], string(kind))
			if err != nil {
				return err
			}

			repo := appInstance.Parties(vendors)
			p, err := repo.GetByID(ctx, id)
			if err != nil {
				return err
			}

			for flag, field := range map[string]*string{
				"name":    &p.Name,
				"gstin":   &p.GSTIN,
				"address": &p.Address,
				"phone":   &p.Phone,
				"email":   &p.Email,
			} {
				if cmd.Flags().Changed(flag) {
					*field, _ = cmd.Flags().GetString(flag)
				}
			}
			if err := p.Validate(); err != nil {
				return fmt.Errorf("invalid %s: %w", kind, err)
			}
			if err := repo.Update(ctx, p); err != nil {
				return fmt.Errorf("failed to update %s: %w", kind, err)
			}

			fmt.Printf("✓ %s updated: %s\n", title, p.Name)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a " + string(kind) + " with no invoices or purchases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := parseID(args[0], string(kind))
			if err != nil {
				return err
			}

			repo := appInstance.Parties(vendors)
			p, err := repo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if err := repo.Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete %s: %w", kind, err)
			}

			fmt.Printf("✓ %s deleted: %s\n", title, p.Name)
			return nil
		},
	}

	for _, c := range []*cobra.Command{add, update} {
		c.Flags().String("gstin", "", "15 character GSTIN")
		c.Flags().String("address", "", "Postal address")
		c.Flags().String("phone", "", "Phone number")
		c.Flags().String("email", "", "Email address")
	}
	update.Flags().String("name", "", "New name")

	root.AddCommand(list, add, update, del)
	return root
}
