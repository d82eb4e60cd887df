package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paddle-billing/paddle-cli/internal/api"
	"github.com/paddle-billing/paddle-cli/internal/outfmt"
	"github.com/paddle-billing/paddle-cli/internal/validation"
)

var (
	billingIntervals = []string{"day", "week", "month", "year"}
	taxModes         = []string{"account_setting", "external", "internal"}
)

func newPricesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prices",
		Aliases: []string{"price", "pri"},
		Short:   "Manage prices",
		Long:    "List, create, and update prices for products",
	}

	cmd.AddCommand(newPricesListCmd())
	cmd.AddCommand(newPricesGetCmd())
	cmd.AddCommand(newPricesCreateCmd())
	cmd.AddCommand(newPricesUpdateCmd())
	cmd.AddCommand(newArchiveCmd("price", func(ctx context.Context, client *api.Client, id string, status api.Status) (*api.Response[api.Price], error) {
		return client.Prices().Update(ctx, id, api.UpdatePriceRequest{Status: &status})
	}, func(p api.Price) (string, string) { return p.ID, p.Description }))

	return cmd
}

func newPricesListCmd() *cobra.Command {
	var productIDs []string
	var recurring, oneTime bool
	var priceType string

	cmd := NewListCommand(ListConfig[api.Price]{
		Use:        "list",
		Short:      "List prices",
		Collection: "prices",
		Example: strings.TrimSpace(`
  # Prices for one product
  paddle prices list --product pro_01h7zcgmdc6tmwtjehp3sh7azf

  # Recurring prices with their product
  paddle prices list --recurring --include product -o json
`),
		EmptyMessage: "No prices found",
		Fetch: func(ctx context.Context, client *api.Client, req ListRequest) (*api.ListResponse[api.Price], error) {
			params := api.ListPricesParams{
				ListParams: req.ListParams,
				IDs:        req.IDs,
				ProductIDs: productIDs,
				Status:     req.Status,
				Type:       priceType,
				Include:    req.Include,
				Filters:    req.Filters,
			}
			switch {
			case recurring:
				params.Recurring = &recurring
			case oneTime:
				f := false
				params.Recurring = &f
			}
			return client.Prices().List(ctx, params)
		},
		Headers: []string{"ID", "PRODUCT", "DESCRIPTION", "AMOUNT", "BILLING", "STATUS"},
		RowFunc: func(p api.Price) []string {
			return []string{p.ID, p.ProductID, truncate(p.Description, 30), formatMoney(p.UnitPrice), orDash(formatDuration(p.BillingCycle)), string(p.Status)}
		},
	})

	cmd.Flags().StringSliceVar(&productIDs, "product", nil, "Filter by product ID")
	cmd.Flags().BoolVar(&recurring, "recurring", false, "Only recurring prices")
	cmd.Flags().BoolVar(&oneTime, "one-time", false, "Only one-time prices")
	cmd.Flags().StringVar(&priceType, "type", "", "Filter by type: standard, custom")
	cmd.MarkFlagsMutuallyExclusive("recurring", "one-time")
	flagAlias(cmd.Flags(), "product", "product-id")
	registerStaticCompletions(cmd, "type", catalogTypes)
	return cmd
}

func newPricesGetCmd() *cobra.Command {
	return NewGetCommand(GetConfig[api.Price]{
		Use:        "get <id> [id...]",
		Short:      "Get price details",
		Resource:   "price",
		Collection: "prices",
		Example: strings.TrimSpace(`
  paddle prices get pri_01h7zcgmdc6tmwtjehp3sh7azf --include product
`),
		Fetch: func(ctx context.Context, client *api.Client, id string, include api.Includes) (*api.Response[api.Price], error) {
			return client.Prices().Get(ctx, id, api.GetPriceParams{Include: include})
		},
		Render: renderPrice,
	})
}

func renderPrice(cmd *cobra.Command, p api.Price) {
	fields := []field{
		{"Description", p.Description},
		{"Name", deref(p.Name)},
		{"Product", p.ProductID},
		{"Status", string(p.Status)},
		{"Type", p.Type},
		{"Amount", formatMoney(p.UnitPrice)},
		{"Billing", formatDuration(p.BillingCycle)},
		{"Trial", formatDuration(p.TrialPeriod)},
		{"Tax mode", p.TaxMode},
		{"Quantity", fmt.Sprintf("%d-%d", p.Quantity.Minimum, p.Quantity.Maximum)},
		{"Custom data", formatCustomData(p.CustomData)},
		{"Created", formatTimestamp(p.CreatedAt)},
		{"Updated", formatTimestamp(p.UpdatedAt)},
	}
	for _, o := range p.UnitPriceOverrides {
		fields = append(fields, field{"Override " + strings.Join(o.CountryCodes, ","), formatMoney(o.UnitPrice)})
	}
	if p.Product != nil {
		fields = append(fields, field{"Product name", p.Product.Name})
	}
	printDetail(cmd, "Price "+p.ID, fields)
}

// priceFlags holds the flags shared by price create and update.
type priceFlags struct {
	description    string
	name           string
	amount         string
	currency       string
	interval       string
	frequency      int
	trialInterval  string
	trialFrequency int
	taxMode        string
	minQuantity    int
	maxQuantity    int
	customData     string
	data           string
}

func (f *priceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.description, "description", "", "Internal description of the price")
	cmd.Flags().StringVar(&f.name, "name", "", "Name shown to customers at checkout")
	cmd.Flags().StringVar(&f.amount, "amount", "", "Unit price in major units, e.g. 10.50")
	cmd.Flags().StringVar(&f.currency, "currency", "USD", "ISO 4217 currency code")
	cmd.Flags().StringVar(&f.interval, "interval", "", "Billing interval: day, week, month, year (omit for one-time)")
	cmd.Flags().IntVar(&f.frequency, "frequency", 1, "Number of intervals per billing cycle")
	cmd.Flags().StringVar(&f.trialInterval, "trial-interval", "", "Trial interval: day, week, month, year")
	cmd.Flags().IntVar(&f.trialFrequency, "trial-frequency", 1, "Number of trial intervals")
	cmd.Flags().StringVar(&f.taxMode, "tax-mode", "", "Tax mode: account_setting, external, internal")
	cmd.Flags().IntVar(&f.minQuantity, "min-quantity", 1, "Minimum quantity")
	cmd.Flags().IntVar(&f.maxQuantity, "max-quantity", 100, "Maximum quantity")
	cmd.Flags().StringVar(&f.customData, "custom-data", "", "Custom data as a JSON object (or @file, -)")
	cmd.Flags().StringVar(&f.data, "data", "", "Request body as JSON (or @file, -); flags override fields")
	flagAlias(cmd.Flags(), "description", "desc")
	registerStaticCompletions(cmd, "interval", billingIntervals)
	registerStaticCompletions(cmd, "trial-interval", billingIntervals)
	registerStaticCompletions(cmd, "tax-mode", taxModes)
}

func (f *priceFlags) unitPrice() (*api.Money, error) {
	currency, err := validation.CurrencyCode(f.currency)
	if err != nil {
		return nil, fmt.Errorf("invalid --currency %q: %w", f.currency, err)
	}
	minor, err := outfmt.ToMinorUnits(f.amount, currency)
	if err != nil {
		return nil, fmt.Errorf("invalid --amount: %w", err)
	}
	return &api.Money{Amount: minor, CurrencyCode: currency}, nil
}

func durationFlag(flagName, interval string, frequency int) (*api.Duration, error) {
	i, err := normalizeEnum(flagName, interval, billingIntervals)
	if err != nil {
		return nil, err
	}
	if frequency < 1 {
		return nil, fmt.Errorf("invalid frequency %d for --%s: must be >= 1", frequency, flagName)
	}
	return &api.Duration{Interval: i, Frequency: frequency}, nil
}

func (f *priceFlags) quantity(cmd *cobra.Command) (*api.PriceQuantity, error) {
	if !flagOrAliasChanged(cmd, "min-quantity") && !flagOrAliasChanged(cmd, "max-quantity") {
		return nil, nil
	}
	if f.minQuantity < 1 || f.maxQuantity < f.minQuantity {
		return nil, fmt.Errorf("invalid quantity range %d-%d: minimum must be >= 1 and <= maximum", f.minQuantity, f.maxQuantity)
	}
	return &api.PriceQuantity{Minimum: f.minQuantity, Maximum: f.maxQuantity}, nil
}

func newPricesCreateCmd() *cobra.Command {
	var f priceFlags
	var productID string

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"mk"},
		Short:   "Create a price for a product",
		Example: strings.TrimSpace(`
  # $10/month
  paddle prices create --product pro_01h7zcgmdc6tmwtjehp3sh7azf --description "Monthly" --amount 10 --interval month

  # One-time price in yen
  paddle prices create --product pro_01h7zcgmdc6tmwtjehp3sh7azf --description "Lifetime" --amount 5000 --currency JPY
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			var body api.CreatePriceRequest
			if err := loadBody(cmd, f.data, &body); err != nil {
				return err
			}
			if flagOrAliasChanged(cmd, "product") {
				body.ProductID = productID
			}
			if flagOrAliasChanged(cmd, "description") {
				body.Description = f.description
			}
			if p := stringPtrIfChanged(cmd, "name", f.name); p != nil {
				body.Name = p
			}
			if flagOrAliasChanged(cmd, "amount") {
				money, err := f.unitPrice()
				if err != nil {
					return err
				}
				body.UnitPrice = *money
			}
			if flagOrAliasChanged(cmd, "interval") {
				d, err := durationFlag("interval", f.interval, f.frequency)
				if err != nil {
					return err
				}
				body.BillingCycle = d
			}
			if flagOrAliasChanged(cmd, "trial-interval") {
				d, err := durationFlag("trial-interval", f.trialInterval, f.trialFrequency)
				if err != nil {
					return err
				}
				body.TrialPeriod = d
			}
			if flagOrAliasChanged(cmd, "tax-mode") {
				mode, err := normalizeEnum("tax-mode", f.taxMode, taxModes)
				if err != nil {
					return err
				}
				body.TaxMode = mode
			}
			q, err := f.quantity(cmd)
			if err != nil {
				return err
			}
			if q != nil {
				body.Quantity = q
			}
			cd, err := parseCustomData(cmd, f.customData)
			if err != nil {
				return err
			}
			if cd != nil {
				body.CustomData = cd
			}

			switch {
			case strings.TrimSpace(body.ProductID) == "":
				return fmt.Errorf("--product is required")
			case strings.TrimSpace(body.Description) == "":
				return fmt.Errorf("--description is required")
			case body.UnitPrice.Amount == "":
				return fmt.Errorf("--amount is required")
			}

			return runMutation(cmd, "Created", "price",
				func(ctx context.Context, client *api.Client) (*api.Response[api.Price], error) {
					return client.Prices().Create(ctx, body)
				},
				func(p api.Price) (string, string) { return p.ID, p.Description })
		}),
	}

	f.register(cmd)
	cmd.Flags().StringVar(&productID, "product", "", "Product ID (required)")
	flagAlias(cmd.Flags(), "product", "product-id")
	return cmd
}

func newPricesUpdateCmd() *cobra.Command {
	var f priceFlags
	var status string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a price",
		Example: strings.TrimSpace(`
  paddle prices update pri_01h7zcgmdc6tmwtjehp3sh7azf --amount 12 --currency USD
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			var body api.UpdatePriceRequest
			if err := loadBody(cmd, f.data, &body); err != nil {
				return err
			}
			if p := stringPtrIfChanged(cmd, "description", f.description); p != nil {
				body.Description = p
			}
			if p := stringPtrIfChanged(cmd, "name", f.name); p != nil {
				body.Name = p
			}
			if flagOrAliasChanged(cmd, "amount") {
				money, err := f.unitPrice()
				if err != nil {
					return err
				}
				body.UnitPrice = money
			}
			if flagOrAliasChanged(cmd, "interval") {
				d, err := durationFlag("interval", f.interval, f.frequency)
				if err != nil {
					return err
				}
				body.BillingCycle = d
			}
			if flagOrAliasChanged(cmd, "trial-interval") {
				d, err := durationFlag("trial-interval", f.trialInterval, f.trialFrequency)
				if err != nil {
					return err
				}
				body.TrialPeriod = d
			}
			if flagOrAliasChanged(cmd, "tax-mode") {
				mode, err := normalizeEnum("tax-mode", f.taxMode, taxModes)
				if err != nil {
					return err
				}
				body.TaxMode = &mode
			}
			q, err := f.quantity(cmd)
			if err != nil {
				return err
			}
			if q != nil {
				body.Quantity = q
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

			return runMutation(cmd, "Updated", "price",
				func(ctx context.Context, client *api.Client) (*api.Response[api.Price], error) {
					return client.Prices().Update(ctx, args[0], body)
				},
				func(p api.Price) (string, string) { return p.ID, p.Description })
		}),
	}

	f.register(cmd)
	cmd.Flags().StringVar(&status, "status", "", "Status: active, archived")
	return cmd
}
