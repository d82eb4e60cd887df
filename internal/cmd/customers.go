package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paddle-billing/paddle-cli/internal/api"
	"github.com/paddle-billing/paddle-cli/internal/validation"
)

func newCustomersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer", "ctm"},
		Short:   "Manage customers",
	}

	cmd.AddCommand(newCustomersListCmd())
	cmd.AddCommand(newCustomersGetCmd())
	cmd.AddCommand(newCustomersCreateCmd())
	cmd.AddCommand(newCustomersUpdateCmd())
	cmd.AddCommand(newArchiveCmd("customer", func(ctx context.Context, client *api.Client, id string, status api.Status) (*api.Response[api.Customer], error) {
		return client.Customers().Update(ctx, id, api.UpdateCustomerRequest{Status: &status})
	}, func(c api.Customer) (string, string) { return c.ID, c.Email }))

	return cmd
}

func newCustomersListCmd() *cobra.Command {
	var emails []string
	var search string

	cmd := NewListCommand(ListConfig[api.Customer]{
		Use:        "list",
		Short:      "List customers",
		Collection: "customers",
		Example: strings.TrimSpace(`
  paddle customers list --search sam
  paddle customers list --email sam@example.com -o json
`),
		EmptyMessage: "No customers found",
		Fetch: func(ctx context.Context, client *api.Client, req ListRequest) (*api.ListResponse[api.Customer], error) {
			return client.Customers().List(ctx, api.ListCustomersParams{
				ListParams: req.ListParams,
				IDs:        req.IDs,
				Emails:     emails,
				Status:     req.Status,
				Search:     search,
				Filters:    req.Filters,
			})
		},
		Headers: []string{"ID", "EMAIL", "NAME", "LOCALE", "STATUS", "CREATED"},
		RowFunc: func(c api.Customer) []string {
			return []string{c.ID, c.Email, orDash(deref(c.Name)), c.Locale, string(c.Status), formatTimestamp(c.CreatedAt)}
		},
	})

	cmd.Flags().StringSliceVar(&emails, "email", nil, "Filter by email address")
	cmd.Flags().StringVar(&search, "search", "", "Search by ID, name, or email")
	return cmd
}

func newCustomersGetCmd() *cobra.Command {
	return NewGetCommand(GetConfig[api.Customer]{
		Use:      "get <id> [id...]",
		Short:    "Get customer details",
		Resource: "customer",
		Fetch: func(ctx context.Context, client *api.Client, id string, _ api.Includes) (*api.Response[api.Customer], error) {
			return client.Customers().Get(ctx, id)
		},
		Render: renderCustomer,
	})
}

func renderCustomer(cmd *cobra.Command, c api.Customer) {
	printDetail(cmd, "Customer "+c.ID, []field{
		{"Email", c.Email},
		{"Name", deref(c.Name)},
		{"Status", string(c.Status)},
		{"Locale", c.Locale},
		{"Marketing", fmt.Sprintf("%t", c.MarketingConsent)},
		{"Custom data", formatCustomData(c.CustomData)},
		{"Created", formatTimestamp(c.CreatedAt)},
		{"Updated", formatTimestamp(c.UpdatedAt)},
	})
}

func newCustomersCreateCmd() *cobra.Command {
	var email, name, locale, customData, data string

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"mk"},
		Short:   "Create a customer",
		Example: strings.TrimSpace(`
  paddle customers create --email sam@example.com --name "Sam Miller"
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			var body api.CreateCustomerRequest
			if err := loadBody(cmd, data, &body); err != nil {
				return err
			}
			if flagOrAliasChanged(cmd, "email") {
				e, err := validation.Email(email)
				if err != nil {
					return fmt.Errorf("invalid --email %q: %w", email, err)
				}
				body.Email = e
			}
			if p := stringPtrIfChanged(cmd, "name", name); p != nil {
				body.Name = p
			}
			if p := stringPtrIfChanged(cmd, "locale", locale); p != nil {
				body.Locale = p
			}
			cd, err := parseCustomData(cmd, customData)
			if err != nil {
				return err
			}
			if cd != nil {
				body.CustomData = cd
			}
			if body.Email == "" {
				return fmt.Errorf("--email is required")
			}

			return runMutation(cmd, "Created", "customer",
				func(ctx context.Context, client *api.Client) (*api.Response[api.Customer], error) {
					return client.Customers().Create(ctx, body)
				},
				func(c api.Customer) (string, string) { return c.ID, c.Email })
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&locale, "locale", "", "Locale, e.g. en or fr")
	cmd.Flags().StringVar(&customData, "custom-data", "", "Custom data as a JSON object (or @file, -)")
	cmd.Flags().StringVar(&data, "data", "", "Request body as JSON (or @file, -); flags override fields")
	return cmd
}

func newCustomersUpdateCmd() *cobra.Command {
	var email, name, locale, status, customData, data string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a customer",
		Example: strings.TrimSpace(`
  paddle customers update ctm_01h8441jn5pcwrfhwh78jqt8hk --name "Sam Miller-Jones"
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			var body api.UpdateCustomerRequest
			if err := loadBody(cmd, data, &body); err != nil {
				return err
			}
			if flagOrAliasChanged(cmd, "email") {
				e, err := validation.Email(email)
				if err != nil {
					return fmt.Errorf("invalid --email %q: %w", email, err)
				}
				body.Email = &e
			}
			if p := stringPtrIfChanged(cmd, "name", name); p != nil {
				body.Name = p
			}
			if p := stringPtrIfChanged(cmd, "locale", locale); p != nil {
				body.Locale = p
			}
			st, err := statusPtrIfChanged(cmd, status)
			if err != nil {
				return err
			}
			if st != nil {
				body.Status = st
			}
			cd, err := parseCustomData(cmd, customData)
			if err != nil {
				return err
			}
			if cd != nil {
				body.CustomData = cd
			}

			return runMutation(cmd, "Updated", "customer",
				func(ctx context.Context, client *api.Client) (*api.Response[api.Customer], error) {
					return client.Customers().Update(ctx, args[0], body)
				},
				func(c api.Customer) (string, string) { return c.ID, c.Email })
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&locale, "locale", "", "Locale, e.g. en or fr")
	cmd.Flags().StringVar(&status, "status", "", "Status: active, archived")
	cmd.Flags().StringVar(&customData, "custom-data", "", "Custom data as a JSON object (or @file, -)")
	cmd.Flags().StringVar(&data, "data", "", "Request body as JSON (or @file, -); flags override fields")
	return cmd
}
