package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paddle-billing/paddle-cli/internal/api"
)

var (
	taxCategories = []string{
		"digital-goods", "ebooks", "implementation-services", "professional-services",
		"saas", "software-programming-services", "standard", "training-services", "website-hosting",
	}
	catalogTypes = []string{"standard", "custom"}
)

func newProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product", "pro"},
		Short:   "Manage products",
		Long:    "List, create, and update products in your catalog",
	}

	cmd.AddCommand(newProductsListCmd())
	cmd.AddCommand(newProductsGetCmd())
	cmd.AddCommand(newProductsCreateCmd())
	cmd.AddCommand(newProductsUpdateCmd())
	cmd.AddCommand(newArchiveCmd("product", func(ctx context.Context, client *api.Client, id string, status api.Status) (*api.Response[api.Product], error) {
		return client.Products().Update(ctx, id, api.UpdateProductRequest{Status: &status})
	}, func(p api.Product) (string, string) { return p.ID, p.Name }))

	return cmd
}

func newProductsListCmd() *cobra.Command {
	var taxCategory []string
	var productType string

	cmd := NewListCommand(ListConfig[api.Product]{
		Use:        "list",
		Short:      "List products",
		Collection: "products",
		Example: strings.TrimSpace(`
  # List active products
  paddle products list --status active

  # Include prices and follow pagination
  paddle products list --include prices --all -o json

  # Products created after a date
  paddle products list --filter "created_at=[GT]2024-01-01T00:00:00Z"
`),
		EmptyMessage: "No products found",
		Fetch: func(ctx context.Context, client *api.Client, req ListRequest) (*api.ListResponse[api.Product], error) {
			return client.Products().List(ctx, api.ListProductsParams{
				ListParams:  req.ListParams,
				IDs:         req.IDs,
				Status:      req.Status,
				TaxCategory: taxCategory,
				Type:        productType,
				Include:     req.Include,
				Filters:     req.Filters,
			})
		},
		Headers: []string{"ID", "NAME", "TAX CATEGORY", "TYPE", "STATUS", "PRICES"},
		RowFunc: func(p api.Product) []string {
			return []string{p.ID, truncate(p.Name, 40), p.TaxCategory, p.Type, string(p.Status), orDash(productPricesSummary(p.Prices))}
		},
	})

	cmd.Flags().StringSliceVar(&taxCategory, "tax-category", nil, "Filter by tax category")
	cmd.Flags().StringVar(&productType, "type", "", "Filter by type: standard, custom")
	registerStaticCompletions(cmd, "tax-category", taxCategories)
	registerStaticCompletions(cmd, "type", catalogTypes)
	return cmd
}

func productPricesSummary(prices []api.Price) string {
	if len(prices) == 0 {
		return ""
	}
	parts := make([]string, 0, len(prices))
	for _, price := range prices {
		parts = append(parts, formatMoney(price.UnitPrice))
	}
	return strings.Join(parts, ", ")
}

func newProductsGetCmd() *cobra.Command {
	return NewGetCommand(GetConfig[api.Product]{
		Use:        "get <id> [id...]",
		Short:      "Get product details",
		Resource:   "product",
		Collection: "products",
		Example: strings.TrimSpace(`
  paddle products get pro_01h7zcgmdc6tmwtjehp3sh7azf
  paddle products get pro_01,pro_02 --include prices -o json
`),
		Fetch: func(ctx context.Context, client *api.Client, id string, include api.Includes) (*api.Response[api.Product], error) {
			return client.Products().Get(ctx, id, api.GetProductParams{Include: include})
		},
		Render: renderProduct,
	})
}

func renderProduct(cmd *cobra.Command, p api.Product) {
	fields := []field{
		{"Name", p.Name},
		{"Status", string(p.Status)},
		{"Type", p.Type},
		{"Tax category", p.TaxCategory},
		{"Description", deref(p.Description)},
		{"Image", deref(p.ImageURL)},
		{"Custom data", formatCustomData(p.CustomData)},
		{"Created", formatTimestamp(p.CreatedAt)},
		{"Updated", formatTimestamp(p.UpdatedAt)},
	}
	for _, price := range p.Prices {
		fields = append(fields, field{"Price " + price.ID, strings.TrimSpace(formatMoney(price.UnitPrice) + " " + formatDuration(price.BillingCycle))})
	}
	printDetail(cmd, "Product "+p.ID, fields)
}

func newProductsCreateCmd() *cobra.Command {
	var name, taxCategory, description, productType, imageURL, customData, data string

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"mk"},
		Short:   "Create a product",
		Example: strings.TrimSpace(`
  paddle products create --name "Pro plan" --tax-category saas
  paddle products create --data @product.json --dry-run
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			var body api.CreateProductRequest
			if err := loadBody(cmd, data, &body); err != nil {
				return err
			}
			if flagOrAliasChanged(cmd, "name") {
				body.Name = name
			}
			if flagOrAliasChanged(cmd, "tax-category") || body.TaxCategory == "" {
				tc, err := normalizeEnum("tax-category", taxCategory, taxCategories)
				if err != nil {
					return err
				}
				body.TaxCategory = tc
			}
			if flagOrAliasChanged(cmd, "type") {
				t, err := normalizeEnum("type", productType, catalogTypes)
				if err != nil {
					return err
				}
				body.Type = t
			}
			if p := stringPtrIfChanged(cmd, "description", description); p != nil {
				body.Description = p
			}
			if p := stringPtrIfChanged(cmd, "image-url", imageURL); p != nil {
				body.ImageURL = p
			}
			cd, err := parseCustomData(cmd, customData)
			if err != nil {
				return err
			}
			if cd != nil {
				body.CustomData = cd
			}
			if strings.TrimSpace(body.Name) == "" {
				return fmt.Errorf("--name is required")
			}

			return runMutation(cmd, "Created", "product",
				func(ctx context.Context, client *api.Client) (*api.Response[api.Product], error) {
					return client.Products().Create(ctx, body)
				},
				func(p api.Product) (string, string) { return p.ID, p.Name })
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Product name (required)")
	cmd.Flags().StringVar(&taxCategory, "tax-category", "standard", "Tax category")
	cmd.Flags().StringVar(&description, "description", "", "Product description")
	cmd.Flags().StringVar(&productType, "type", "", "Type: standard, custom")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "HTTPS URL of the product image")
	cmd.Flags().StringVar(&customData, "custom-data", "", "Custom data as a JSON object (or @file, -)")
	cmd.Flags().StringVar(&data, "data", "", "Full request body as JSON (or @file, -); flags override fields")
	flagAlias(cmd.Flags(), "description", "desc")
	registerStaticCompletions(cmd, "tax-category", taxCategories)
	registerStaticCompletions(cmd, "type", catalogTypes)
	return cmd
}

func newProductsUpdateCmd() *cobra.Command {
	var name, taxCategory, description, productType, imageURL, status, customData, data string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product",
		Example: strings.TrimSpace(`
  paddle products update pro_01h7zcgmdc6tmwtjehp3sh7azf --name "Pro plan (2025)"
  paddle products update pro_01h7zcgmdc6tmwtjehp3sh7azf --status archived
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			var body api.UpdateProductRequest
			if err := loadBody(cmd, data, &body); err != nil {
				return err
			}
			if p := stringPtrIfChanged(cmd, "name", name); p != nil {
				body.Name = p
			}
			if p := stringPtrIfChanged(cmd, "description", description); p != nil {
				body.Description = p
			}
			if p := stringPtrIfChanged(cmd, "image-url", imageURL); p != nil {
				body.ImageURL = p
			}
			if flagOrAliasChanged(cmd, "tax-category") {
				tc, err := normalizeEnum("tax-category", taxCategory, taxCategories)
				if err != nil {
					return err
				}
				body.TaxCategory = &tc
			}
			if flagOrAliasChanged(cmd, "type") {
				t, err := normalizeEnum("type", productType, catalogTypes)
				if err != nil {
					return err
				}
				body.Type = &t
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

			return runMutation(cmd, "Updated", "product",
				func(ctx context.Context, client *api.Client) (*api.Response[api.Product], error) {
					return client.Products().Update(ctx, args[0], body)
				},
				func(p api.Product) (string, string) { return p.ID, p.Name })
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Product name")
	cmd.Flags().StringVar(&taxCategory, "tax-category", "", "Tax category")
	cmd.Flags().StringVar(&description, "description", "", "Product description")
	cmd.Flags().StringVar(&productType, "type", "", "Type: standard, custom")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "HTTPS URL of the product image")
	cmd.Flags().StringVar(&status, "status", "", "Status: active, archived")
	cmd.Flags().StringVar(&customData, "custom-data", "", "Custom data as a JSON object (or @file, -)")
	cmd.Flags().StringVar(&data, "data", "", "Request body as JSON (or @file, -); flags override fields")
	flagAlias(cmd.Flags(), "description", "desc")
	registerStaticCompletions(cmd, "tax-category", taxCategories)
	registerStaticCompletions(cmd, "status", []string{string(api.StatusActive), string(api.StatusArchived)})
	return cmd
}

// newArchiveCmd builds an "archive <id>" command that sets a top-level
// entity's status through its update endpoint.
func newArchiveCmd[T any](
	resource string,
	setStatus func(ctx context.Context, client *api.Client, id string, status api.Status) (*api.Response[T], error),
	describe func(T) (string, string),
) *cobra.Command {
	var restore bool

	cmd := &cobra.Command{
		Use:   "archive <id>",
		Short: fmt.Sprintf("Archive a %s (or restore with --restore)", resource),
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			status, action := api.StatusArchived, "Archived"
			if restore {
				status, action = api.StatusActive, "Restored"
			}
			return runMutation(cmd, action, resource,
				func(ctx context.Context, client *api.Client) (*api.Response[T], error) {
					return setStatus(ctx, client, args[0], status)
				},
				describe)
		}),
	}
	cmd.Flags().BoolVar(&restore, "restore", false, "Set the status back to active")
	return cmd
}
