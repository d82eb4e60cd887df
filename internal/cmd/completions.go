package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paddle-billing/paddle-cli/internal/api"
)

// completionPageSize is the largest page the list endpoints accept.
const completionPageSize = 200

// CompletionItem represents an autocomplete suggestion
type CompletionItem struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

func outputCompletionItems(cmd *cobra.Command, items []CompletionItem) error {
	if isJSON(cmd) {
		return printJSON(cmd, items)
	}

	w := newTabWriterFromCmd(cmd)
	for _, item := range items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", item.Value, item.Label, item.Description)
	}
	return w.Flush()
}

func newCompletionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completions",
		Short: "Print IDs for shell completion",
		Long:  "List active IDs with a label for completion scripts (products, prices, discounts, customers, statuses). Only the first page of each resource is read.",
	}

	cmd.AddCommand(newCompletionsResourceCmd("products", "product IDs with names", completeProducts))
	cmd.AddCommand(newCompletionsResourceCmd("prices", "price IDs with descriptions", completePrices))
	cmd.AddCommand(newCompletionsResourceCmd("discounts", "discount IDs with descriptions", completeDiscounts))
	cmd.AddCommand(newCompletionsResourceCmd("customers", "customer IDs with emails", completeCustomers))
	cmd.AddCommand(newCompletionsStatusesCmd())

	return cmd
}

type completionFetcher func(ctx context.Context, client *api.Client) ([]CompletionItem, error)

func newCompletionsResourceCmd(name, what string, fetch completionFetcher) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: "List active " + what,
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			items, err := fetch(cmdContext(cmd), client)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", name, err)
			}
			return outputCompletionItems(cmd, items)
		}),
	}
}

var activeOnly = []api.Status{api.StatusActive}

func completeProducts(ctx context.Context, client *api.Client) ([]CompletionItem, error) {
	resp, err := client.Products().List(ctx, api.ListProductsParams{
		ListParams: api.ListParams{PerPage: completionPageSize},
		Status:     activeOnly,
	})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	items := make([]CompletionItem, len(resp.Data))
	for i, p := range resp.Data {
		items[i] = CompletionItem{Value: p.ID, Label: p.Name, Description: p.TaxCategory}
	}
	return items, nil
}

func completePrices(ctx context.Context, client *api.Client) ([]CompletionItem, error) {
	resp, err := client.Prices().List(ctx, api.ListPricesParams{
		ListParams: api.ListParams{PerPage: completionPageSize},
		Status:     activeOnly,
	})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	items := make([]CompletionItem, len(resp.Data))
	for i, p := range resp.Data {
		items[i] = CompletionItem{Value: p.ID, Label: p.Description, Description: formatMoney(p.UnitPrice)}
	}
	return items, nil
}

func completeDiscounts(ctx context.Context, client *api.Client) ([]CompletionItem, error) {
	resp, err := client.Discounts().List(ctx, api.ListDiscountsParams{
		ListParams: api.ListParams{PerPage: completionPageSize},
		Status:     activeOnly,
	})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	items := make([]CompletionItem, len(resp.Data))
	for i, d := range resp.Data {
		items[i] = CompletionItem{Value: d.ID, Label: d.Description, Description: deref(d.Code)}
	}
	return items, nil
}

func completeCustomers(ctx context.Context, client *api.Client) ([]CompletionItem, error) {
	resp, err := client.Customers().List(ctx, api.ListCustomersParams{
		ListParams: api.ListParams{PerPage: completionPageSize},
		Status:     activeOnly,
	})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	items := make([]CompletionItem, len(resp.Data))
	for i, c := range resp.Data {
		items[i] = CompletionItem{Value: c.ID, Label: c.Email, Description: deref(c.Name)}
	}
	return items, nil
}

func newCompletionsStatusesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "List entity statuses",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			return outputCompletionItems(cmd, []CompletionItem{
				{Value: string(api.StatusActive), Label: "Active"},
				{Value: string(api.StatusArchived), Label: "Archived"},
			})
		}),
	}
}
