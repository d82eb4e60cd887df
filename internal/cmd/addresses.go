package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paddle-billing/paddle-cli/internal/api"
	"github.com/paddle-billing/paddle-cli/internal/validation"
)

func newAddressesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "addresses",
		Aliases: []string{"address", "add"},
		Short:   "Manage customer addresses",
		Long:    "Addresses belong to a customer; every subcommand needs --customer.",
	}

	cmd.AddCommand(newAddressesListCmd())
	cmd.AddCommand(newAddressesGetCmd())
	cmd.AddCommand(newAddressesCreateCmd())
	cmd.AddCommand(newAddressesUpdateCmd())

	return cmd
}

// addCustomerFlag registers the required --customer flag of nested resources.
func addCustomerFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "customer", "", "Customer ID (required)")
	flagAlias(cmd.Flags(), "customer", "customer-id")
	_ = cmd.MarkFlagRequired("customer")
}

func newAddressesListCmd() *cobra.Command {
	var customerID, search string

	cmd := NewListCommand(ListConfig[api.Address]{
		Use:        "list",
		Short:      "List a customer's addresses",
		Collection: "addresses",
		Example: strings.TrimSpace(`
  paddle addresses list --customer ctm_01h8441jn5pcwrfhwh78jqt8hk
`),
		EmptyMessage: "No addresses found",
		Fetch: func(ctx context.Context, client *api.Client, req ListRequest) (*api.ListResponse[api.Address], error) {
			return client.Addresses().List(ctx, customerID, api.ListAddressesParams{
				ListParams: req.ListParams,
				IDs:        req.IDs,
				Status:     req.Status,
				Search:     search,
				Filters:    req.Filters,
			})
		},
		Headers: []string{"ID", "COUNTRY", "CITY", "POSTAL CODE", "FIRST LINE", "STATUS"},
		RowFunc: func(a api.Address) []string {
			return []string{a.ID, a.CountryCode, orDash(deref(a.City)), orDash(deref(a.PostalCode)), orDash(truncate(deref(a.FirstLine), 30)), string(a.Status)}
		},
	})

	addCustomerFlag(cmd, &customerID)
	cmd.Flags().StringVar(&search, "search", "", "Search address fields")
	return cmd
}

func newAddressesGetCmd() *cobra.Command {
	var customerID string

	cmd := NewGetCommand(GetConfig[api.Address]{
		Use:      "get <id> [id...]",
		Short:    "Get address details",
		Resource: "address",
		Fetch: func(ctx context.Context, client *api.Client, id string, _ api.Includes) (*api.Response[api.Address], error) {
			return client.Addresses().Get(ctx, customerID, id)
		},
		Render: renderAddress,
	})
	addCustomerFlag(cmd, &customerID)
	return cmd
}

func renderAddress(cmd *cobra.Command, a api.Address) {
	printDetail(cmd, "Address "+a.ID, []field{
		{"Customer", a.CustomerID},
		{"Description", deref(a.Description)},
		{"First line", deref(a.FirstLine)},
		{"Second line", deref(a.SecondLine)},
		{"City", deref(a.City)},
		{"Postal code", deref(a.PostalCode)},
		{"Region", deref(a.Region)},
		{"Country", a.CountryCode},
		{"Status", string(a.Status)},
		{"Custom data", formatCustomData(a.CustomData)},
		{"Created", formatTimestamp(a.CreatedAt)},
	})
}

// addressFlags holds the flags shared by address create and update.
type addressFlags struct {
	customerID  string
	country     string
	description string
	firstLine   string
	secondLine  string
	city        string
	postalCode  string
	region      string
	customData  string
	data        string
}

func (f *addressFlags) register(cmd *cobra.Command) {
	addCustomerFlag(cmd, &f.customerID)
	cmd.Flags().StringVar(&f.country, "country", "", "Two-letter ISO 3166 country code")
	cmd.Flags().StringVar(&f.description, "description", "", "Memorable description")
	cmd.Flags().StringVar(&f.firstLine, "first-line", "", "First line of the address")
	cmd.Flags().StringVar(&f.secondLine, "second-line", "", "Second line of the address")
	cmd.Flags().StringVar(&f.city, "city", "", "City")
	cmd.Flags().StringVar(&f.postalCode, "postal-code", "", "ZIP or postal code")
	cmd.Flags().StringVar(&f.region, "region", "", "State, county, or region")
	cmd.Flags().StringVar(&f.customData, "custom-data", "", "Custom data as a JSON object (or @file, -)")
	cmd.Flags().StringVar(&f.data, "data", "", "Request body as JSON (or @file, -); flags override fields")
	flagAlias(cmd.Flags(), "country", "country-code")
	flagAlias(cmd.Flags(), "postal-code", "zip")
}

func countryCode(value string) (string, error) {
	code, err := validation.CountryCode(value)
	if err != nil {
		return "", fmt.Errorf("invalid --country %q: %w", value, err)
	}
	return code, nil
}

func newAddressesCreateCmd() *cobra.Command {
	var f addressFlags

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"mk"},
		Short:   "Create an address for a customer",
		Example: strings.TrimSpace(`
  paddle addresses create --customer ctm_01h8441jn5pcwrfhwh78jqt8hk --country US --postal-code 10021
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			var body api.CreateAddressRequest
			if err := loadBody(cmd, f.data, &body); err != nil {
				return err
			}
			if flagOrAliasChanged(cmd, "country") {
				code, err := countryCode(f.country)
				if err != nil {
					return err
				}
				body.CountryCode = code
			}
			if p := stringPtrIfChanged(cmd, "description", f.description); p != nil {
				body.Description = p
			}
			if p := stringPtrIfChanged(cmd, "first-line", f.firstLine); p != nil {
				body.FirstLine = p
			}
			if p := stringPtrIfChanged(cmd, "second-line", f.secondLine); p != nil {
				body.SecondLine = p
			}
			if p := stringPtrIfChanged(cmd, "city", f.city); p != nil {
				body.City = p
			}
			if p := stringPtrIfChanged(cmd, "postal-code", f.postalCode); p != nil {
				body.PostalCode = p
			}
			if p := stringPtrIfChanged(cmd, "region", f.region); p != nil {
				body.Region = p
			}
			cd, err := parseCustomData(cmd, f.customData)
			if err != nil {
				return err
			}
			if cd != nil {
				body.CustomData = cd
			}
			if body.CountryCode == "" {
				return fmt.Errorf("--country is required")
			}

			return runMutation(cmd, "Created", "address",
				func(ctx context.Context, client *api.Client) (*api.Response[api.Address], error) {
					return client.Addresses().Create(ctx, f.customerID, body)
				},
				func(a api.Address) (string, string) { return a.ID, a.CountryCode })
		}),
	}

	f.register(cmd)
	return cmd
}

func newAddressesUpdateCmd() *cobra.Command {
	var f addressFlags
	var status string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a customer's address",
		Example: strings.TrimSpace(`
  paddle addresses update add_01hv8gq3318ktkfengj2r75gfx --customer ctm_01h8441jn5pcwrfhwh78jqt8hk --city "New York"
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			var body api.UpdateAddressRequest
			if err := loadBody(cmd, f.data, &body); err != nil {
				return err
			}
			if flagOrAliasChanged(cmd, "country") {
				code, err := countryCode(f.country)
				if err != nil {
					return err
				}
				body.CountryCode = &code
			}
			if p := stringPtrIfChanged(cmd, "description", f.description); p != nil {
				body.Description = p
			}
			if p := stringPtrIfChanged(cmd, "first-line", f.firstLine); p != nil {
				body.FirstLine = p
			}
			if p := stringPtrIfChanged(cmd, "second-line", f.secondLine); p != nil {
				body.SecondLine = p
			}
			if p := stringPtrIfChanged(cmd, "city", f.city); p != nil {
				body.City = p
			}
			if p := stringPtrIfChanged(cmd, "postal-code", f.postalCode); p != nil {
				body.PostalCode = p
			}
			if p := stringPtrIfChanged(cmd, "region", f.region); p != nil {
				body.Region = p
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

			return runMutation(cmd, "Updated", "address",
				func(ctx context.Context, client *api.Client) (*api.Response[api.Address], error) {
					return client.Addresses().Update(ctx, f.customerID, args[0], body)
				},
				func(a api.Address) (string, string) { return a.ID, a.CountryCode })
		}),
	}

	f.register(cmd)
	cmd.Flags().StringVar(&status, "status", "", "Status: active, archived")
	return cmd
}
