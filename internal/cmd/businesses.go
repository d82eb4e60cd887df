package cmd

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paddle-billing/paddle-cli/internal/api"
)

func newBusinessesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "businesses",
		Aliases: []string{"business", "biz"},
		Short:   "Manage customer businesses",
		Long:    "Businesses belong to a customer; every subcommand needs --customer.",
	}

	cmd.AddCommand(newBusinessesListCmd())
	cmd.AddCommand(newBusinessesGetCmd())
	cmd.AddCommand(newBusinessesCreateCmd())
	cmd.AddCommand(newBusinessesUpdateCmd())

	return cmd
}

func newBusinessesListCmd() *cobra.Command {
	var customerID, search string

	cmd := NewListCommand(ListConfig[api.Business]{
		Use:        "list",
		Short:      "List a customer's businesses",
		Collection: "businesses",
		Example: strings.TrimSpace(`
  paddle businesses list --customer ctm_01h8441jn5pcwrfhwh78jqt8hk
`),
		EmptyMessage: "No businesses found",
		Fetch: func(ctx context.Context, client *api.Client, req ListRequest) (*api.ListResponse[api.Business], error) {
			return client.Businesses().List(ctx, customerID, api.ListBusinessesParams{
				ListParams: req.ListParams,
				IDs:        req.IDs,
				Status:     req.Status,
				Search:     search,
				Filters:    req.Filters,
			})
		},
		Headers: []string{"ID", "NAME", "COMPANY NUMBER", "TAX ID", "CONTACTS", "STATUS"},
		RowFunc: func(b api.Business) []string {
			return []string{b.ID, truncate(b.Name, 30), orDash(deref(b.CompanyNumber)), orDash(deref(b.TaxIdentifier)), fmt.Sprintf("%d", len(b.Contacts)), string(b.Status)}
		},
	})

	addCustomerFlag(cmd, &customerID)
	cmd.Flags().StringVar(&search, "search", "", "Search business fields")
	return cmd
}

func newBusinessesGetCmd() *cobra.Command {
	var customerID string

	cmd := NewGetCommand(GetConfig[api.Business]{
		Use:      "get <id> [id...]",
		Short:    "Get business details",
		Resource: "business",
		Fetch: func(ctx context.Context, client *api.Client, id string, _ api.Includes) (*api.Response[api.Business], error) {
			return client.Businesses().Get(ctx, customerID, id)
		},
		Render: renderBusiness,
	})
	addCustomerFlag(cmd, &customerID)
	return cmd
}

func renderBusiness(cmd *cobra.Command, b api.Business) {
	fields := []field{
		{"Customer", b.CustomerID},
		{"Name", b.Name},
		{"Company number", deref(b.CompanyNumber)},
		{"Tax identifier", deref(b.TaxIdentifier)},
		{"Status", string(b.Status)},
		{"Custom data", formatCustomData(b.CustomData)},
		{"Created", formatTimestamp(b.CreatedAt)},
	}
	for _, c := range b.Contacts {
		fields = append(fields, field{"Contact", formatContact(c)})
	}
	printDetail(cmd, "Business "+b.ID, fields)
}

func formatContact(c api.Contact) string {
	if c.Name == "" {
		return c.Email
	}
	return fmt.Sprintf("%s <%s>", c.Name, c.Email)
}

// parseContacts reads contacts given as "Name <email>" or a bare email.
func parseContacts(values []string) ([]api.Contact, error) {
	contacts := make([]api.Contact, 0, len(values))
	for _, v := range values {
		addr, err := mail.ParseAddress(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid --contact %q: must be an email or \"Name <email>\"", v)
		}
		contacts = append(contacts, api.Contact{Name: addr.Name, Email: addr.Address})
	}
	return contacts, nil
}

// businessFlags holds the flags shared by business create and update.
type businessFlags struct {
	customerID    string
	name          string
	companyNumber string
	taxID         string
	contacts      []string
	customData    string
	data          string
}

func (f *businessFlags) register(cmd *cobra.Command) {
	addCustomerFlag(cmd, &f.customerID)
	cmd.Flags().StringVar(&f.name, "name", "", "Business name")
	cmd.Flags().StringVar(&f.companyNumber, "company-number", "", "Company number")
	cmd.Flags().StringVar(&f.taxID, "tax-identifier", "", "Tax or VAT number")
	cmd.Flags().StringArrayVar(&f.contacts, "contact", nil, "Contact as \"Name <email>\" (repeatable)")
	cmd.Flags().StringVar(&f.customData, "custom-data", "", "Custom data as a JSON object (or @file, -)")
	cmd.Flags().StringVar(&f.data, "data", "", "Request body as JSON (or @file, -); flags override fields")
	flagAlias(cmd.Flags(), "tax-identifier", "vat")
}

func newBusinessesCreateCmd() *cobra.Command {
	var f businessFlags

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"mk"},
		Short:   "Create a business for a customer",
		Example: strings.TrimSpace(`
  paddle businesses create --customer ctm_01h8441jn5pcwrfhwh78jqt8hk --name "ChatApp Inc." --contact "Parker Jones <parker@example.com>"
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			var body api.CreateBusinessRequest
			if err := loadBody(cmd, f.data, &body); err != nil {
				return err
			}
			if flagOrAliasChanged(cmd, "name") {
				body.Name = strings.TrimSpace(f.name)
			}
			if p := stringPtrIfChanged(cmd, "company-number", f.companyNumber); p != nil {
				body.CompanyNumber = p
			}
			if p := stringPtrIfChanged(cmd, "tax-identifier", f.taxID); p != nil {
				body.TaxIdentifier = p
			}
			if flagOrAliasChanged(cmd, "contact") {
				contacts, err := parseContacts(f.contacts)
				if err != nil {
					return err
				}
				body.Contacts = contacts
			}
			cd, err := parseCustomData(cmd, f.customData)
			if err != nil {
				return err
			}
			if cd != nil {
				body.CustomData = cd
			}
			if body.Name == "" {
				return fmt.Errorf("--name is required")
			}

			return runMutation(cmd, "Created", "business",
				func(ctx context.Context, client *api.Client) (*api.Response[api.Business], error) {
					return client.Businesses().Create(ctx, f.customerID, body)
				},
				func(b api.Business) (string, string) { return b.ID, b.Name })
		}),
	}

	f.register(cmd)
	return cmd
}

func newBusinessesUpdateCmd() *cobra.Command {
	var f businessFlags
	var status string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a customer's business",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			var body api.UpdateBusinessRequest
			if err := loadBody(cmd, f.data, &body); err != nil {
				return err
			}
			if p := stringPtrIfChanged(cmd, "name", f.name); p != nil {
				body.Name = p
			}
			if p := stringPtrIfChanged(cmd, "company-number", f.companyNumber); p != nil {
				body.CompanyNumber = p
			}
			if p := stringPtrIfChanged(cmd, "tax-identifier", f.taxID); p != nil {
				body.TaxIdentifier = p
			}
			if flagOrAliasChanged(cmd, "contact") {
				contacts, err := parseContacts(f.contacts)
				if err != nil {
					return err
				}
				body.Contacts = contacts
			}
			st, err := statusPtrIfChanged(cmd, status)
			if err != nil {
				return err
			}
			if st != nil {
				body.Status = st
			}
			cd, err := parseCustomData(cmd, f.customData)
			if err != nil {
				return err
			}
			if cd != nil {
				body.CustomData = cd
			}

			return runMutation(cmd, "Updated", "business",
				func(ctx context.Context, client *api.Client) (*api.Response[api.Business], error) {
					return client.Businesses().Update(ctx, f.customerID, args[0], body)
				},
				func(b api.Business) (string, string) { return b.ID, b.Name })
		}),
	}

	f.register(cmd)
	cmd.Flags().StringVar(&status, "status", "", "Status: active, archived")
	return cmd
}
