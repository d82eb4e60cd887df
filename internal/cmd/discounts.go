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

var discountTypes = []string{"flat", "flat_per_seat", "percentage"}

func newDiscountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "discounts",
		Aliases: []string{"discount", "dsc"},
		Short:   "Manage discounts",
	}

	cmd.AddCommand(newDiscountsListCmd())
	cmd.AddCommand(newDiscountsGetCmd())
	cmd.AddCommand(newDiscountsCreateCmd())
	cmd.AddCommand(newDiscountsUpdateCmd())
	cmd.AddCommand(newArchiveCmd("discount", func(ctx context.Context, client *api.Client, id string, status api.Status) (*api.Response[api.Discount], error) {
		return client.Discounts().Update(ctx, id, api.UpdateDiscountRequest{Status: &status})
	}, func(d api.Discount) (string, string) { return d.ID, d.Description }))

	return cmd
}

func newDiscountsListCmd() *cobra.Command {
	var codes []string

	cmd := NewListCommand(ListConfig[api.Discount]{
		Use:        "list",
		Short:      "List discounts",
		Collection: "discounts",
		Example: strings.TrimSpace(`
  paddle discounts list --status active
  paddle discounts list --code BLACKFRIDAY -o json
`),
		EmptyMessage: "No discounts found",
		Fetch: func(ctx context.Context, client *api.Client, req ListRequest) (*api.ListResponse[api.Discount], error) {
			return client.Discounts().List(ctx, api.ListDiscountsParams{
				ListParams: req.ListParams,
				IDs:        req.IDs,
				Codes:      codes,
				Status:     req.Status,
				Filters:    req.Filters,
			})
		},
		Headers: []string{"ID", "CODE", "DESCRIPTION", "AMOUNT", "USED", "STATUS"},
		RowFunc: func(d api.Discount) []string {
			return []string{d.ID, orDash(deref(d.Code)), truncate(d.Description, 30), discountAmount(d), fmt.Sprintf("%d", d.TimesUsed), string(d.Status)}
		},
	})

	cmd.Flags().StringSliceVar(&codes, "code", nil, "Filter by discount code")
	return cmd
}

// discountAmount renders percentages as "10%" and flat amounts as money.
func discountAmount(d api.Discount) string {
	if d.Type == "percentage" {
		return d.Amount + "%"
	}
	return outfmt.FormatMoney(d.Amount, deref(d.CurrencyCode))
}

func newDiscountsGetCmd() *cobra.Command {
	return NewGetCommand(GetConfig[api.Discount]{
		Use:      "get <id> [id...]",
		Short:    "Get discount details",
		Resource: "discount",
		Fetch: func(ctx context.Context, client *api.Client, id string, _ api.Includes) (*api.Response[api.Discount], error) {
			return client.Discounts().Get(ctx, id)
		},
		Render: renderDiscount,
	})
}

func renderDiscount(cmd *cobra.Command, d api.Discount) {
	usage := fmt.Sprintf("%d", d.TimesUsed)
	if d.UsageLimit != nil {
		usage = fmt.Sprintf("%d of %d", d.TimesUsed, *d.UsageLimit)
	}
	recur := "no"
	if d.Recur {
		recur = "yes"
		if d.MaximumRecurringIntervals != nil {
			recur = fmt.Sprintf("up to %d intervals", *d.MaximumRecurringIntervals)
		}
	}
	printDetail(cmd, "Discount "+d.ID, []field{
		{"Description", d.Description},
		{"Code", deref(d.Code)},
		{"Status", string(d.Status)},
		{"Type", d.Type},
		{"Amount", discountAmount(d)},
		{"Recurring", recur},
		{"Checkout", fmt.Sprintf("%t", d.EnabledForCheckout)},
		{"Used", usage},
		{"Restricted to", strings.Join(d.RestrictTo, ", ")},
		{"Expires", formatOptionalTime(d.ExpiresAt)},
		{"Custom data", formatCustomData(d.CustomData)},
		{"Created", formatTimestamp(d.CreatedAt)},
	})
}

// discountFlags holds the flags shared by discount create and update.
type discountFlags struct {
	amount             string
	description        string
	discountType       string
	code               string
	currency           string
	enabledForCheckout bool
	recur              bool
	maxRecurring       int
	usageLimit         int
	restrictTo         []string
	expiresAt          string
	customData         string
	data               string
}

func (f *discountFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.amount, "amount", "", "Percentage (e.g. 10) or flat amount in major units (e.g. 5.00)")
	cmd.Flags().StringVar(&f.description, "description", "", "Internal description")
	cmd.Flags().StringVar(&f.discountType, "type", "", "Type: flat, flat_per_seat, percentage")
	cmd.Flags().StringVar(&f.code, "code", "", "Code customers enter at checkout")
	cmd.Flags().StringVar(&f.currency, "currency", "", "Currency for flat discounts")
	cmd.Flags().BoolVar(&f.enabledForCheckout, "enabled-for-checkout", false, "Allow customers to redeem at checkout")
	cmd.Flags().BoolVar(&f.recur, "recur", false, "Apply to recurring payments")
	cmd.Flags().IntVar(&f.maxRecurring, "max-recurring-intervals", 0, "Number of recurring payments the discount applies to")
	cmd.Flags().IntVar(&f.usageLimit, "usage-limit", 0, "Maximum number of redemptions")
	cmd.Flags().StringSliceVar(&f.restrictTo, "restrict-to", nil, "Product or price IDs the discount is limited to")
	cmd.Flags().StringVar(&f.expiresAt, "expires-at", "", "Expiry as RFC 3339 or YYYY-MM-DD")
	cmd.Flags().StringVar(&f.customData, "custom-data", "", "Custom data as a JSON object (or @file, -)")
	cmd.Flags().StringVar(&f.data, "data", "", "Request body as JSON (or @file, -); flags override fields")
	flagAlias(cmd.Flags(), "description", "desc")
	registerStaticCompletions(cmd, "type", discountTypes)
}

func (f *discountFlags) currencyCode() (string, error) {
	c, err := validation.CurrencyCode(f.currency)
	if err != nil {
		return "", fmt.Errorf("invalid --currency %q: %w", f.currency, err)
	}
	return c, nil
}

// amountFor converts flat amounts to minor units. Percentages pass through.
func (f *discountFlags) amountFor(discountType, currency string) (string, error) {
	amount := strings.TrimSpace(f.amount)
	if discountType == "percentage" || discountType == "" {
		return amount, nil
	}
	if currency == "" {
		return "", fmt.Errorf("--currency is required for %s discounts", discountType)
	}
	minor, err := outfmt.ToMinorUnits(amount, currency)
	if err != nil {
		return "", fmt.Errorf("invalid --amount: %w", err)
	}
	return minor, nil
}

func newDiscountsCreateCmd() *cobra.Command {
	var f discountFlags

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"mk"},
		Short:   "Create a discount",
		Example: strings.TrimSpace(`
  paddle discounts create --type percentage --amount 10 --description "10% off" --code WELCOME10 --enabled-for-checkout
  paddle discounts create --type flat --amount 5 --currency USD --description "$5 off"
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			var body api.CreateDiscountRequest
			if err := loadBody(cmd, f.data, &body); err != nil {
				return err
			}
			if flagOrAliasChanged(cmd, "type") {
				t, err := normalizeEnum("type", f.discountType, discountTypes)
				if err != nil {
					return err
				}
				body.Type = t
			}
			if flagOrAliasChanged(cmd, "currency") {
				c, err := f.currencyCode()
				if err != nil {
					return err
				}
				body.CurrencyCode = &c
			}
			if flagOrAliasChanged(cmd, "amount") {
				amount, err := f.amountFor(body.Type, deref(body.CurrencyCode))
				if err != nil {
					return err
				}
				body.Amount = amount
			}
			if flagOrAliasChanged(cmd, "description") {
				body.Description = f.description
			}
			if p := stringPtrIfChanged(cmd, "code", f.code); p != nil {
				body.Code = p
			}
			if p := boolPtrIfChanged(cmd, "enabled-for-checkout", f.enabledForCheckout); p != nil {
				body.EnabledForCheckout = p
			}
			if p := boolPtrIfChanged(cmd, "recur", f.recur); p != nil {
				body.Recur = p
			}
			if p := intPtrIfChanged(cmd, "max-recurring-intervals", f.maxRecurring); p != nil {
				body.MaximumRecurringIntervals = p
			}
			if p := intPtrIfChanged(cmd, "usage-limit", f.usageLimit); p != nil {
				body.UsageLimit = p
			}
			if flagOrAliasChanged(cmd, "restrict-to") {
				body.RestrictTo = f.restrictTo
			}
			expires, err := parseTimestamp("expires-at", f.expiresAt)
			if err != nil {
				return err
			}
			if expires != nil {
				body.ExpiresAt = expires
			}
			cd, err := parseCustomData(cmd, f.customData)
			if err != nil {
				return err
			}
			if cd != nil {
				body.CustomData = cd
			}

			switch {
			case body.Type == "":
				return fmt.Errorf("--type is required")
			case body.Amount == "":
				return fmt.Errorf("--amount is required")
			case strings.TrimSpace(body.Description) == "":
				return fmt.Errorf("--description is required")
			}

			return runMutation(cmd, "Created", "discount",
				func(ctx context.Context, client *api.Client) (*api.Response[api.Discount], error) {
					return client.Discounts().Create(ctx, body)
				},
				func(d api.Discount) (string, string) { return d.ID, d.Description })
		}),
	}

	f.register(cmd)
	return cmd
}

func newDiscountsUpdateCmd() *cobra.Command {
	var f discountFlags
	var status string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a discount",
		Example: strings.TrimSpace(`
  paddle discounts update dsc_01gv5kpg05xp104ek2fmgjwttf --usage-limit 500
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			var body api.UpdateDiscountRequest
			if err := loadBody(cmd, f.data, &body); err != nil {
				return err
			}
			if flagOrAliasChanged(cmd, "type") {
				t, err := normalizeEnum("type", f.discountType, discountTypes)
				if err != nil {
					return err
				}
				body.Type = &t
			}
			if flagOrAliasChanged(cmd, "currency") {
				c, err := f.currencyCode()
				if err != nil {
					return err
				}
				body.CurrencyCode = &c
			}
			if flagOrAliasChanged(cmd, "amount") {
				amount, err := f.amountFor(deref(body.Type), deref(body.CurrencyCode))
				if err != nil {
					return err
				}
				body.Amount = &amount
			}
			if p := stringPtrIfChanged(cmd, "description", f.description); p != nil {
				body.Description = p
			}
			if p := stringPtrIfChanged(cmd, "code", f.code); p != nil {
				body.Code = p
			}
			if p := boolPtrIfChanged(cmd, "enabled-for-checkout", f.enabledForCheckout); p != nil {
				body.EnabledForCheckout = p
			}
			if p := boolPtrIfChanged(cmd, "recur", f.recur); p != nil {
				body.Recur = p
			}
			if p := intPtrIfChanged(cmd, "max-recurring-intervals", f.maxRecurring); p != nil {
				body.MaximumRecurringIntervals = p
			}
			if p := intPtrIfChanged(cmd, "usage-limit", f.usageLimit); p != nil {
				body.UsageLimit = p
			}
			if flagOrAliasChanged(cmd, "restrict-to") {
				body.RestrictTo = f.restrictTo
			}
			expires, err := parseTimestamp("expires-at", f.expiresAt)
			if err != nil {
				return err
			}
			if expires != nil {
				body.ExpiresAt = expires
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

			return runMutation(cmd, "Updated", "discount",
				func(ctx context.Context, client *api.Client) (*api.Response[api.Discount], error) {
					return client.Discounts().Update(ctx, args[0], body)
				},
				func(d api.Discount) (string, string) { return d.ID, d.Description })
		}),
	}

	f.register(cmd)
	cmd.Flags().StringVar(&status, "status", "", "Status: active, archived")
	return cmd
}
