package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paddle-billing/paddle-cli/internal/api"
	"github.com/paddle-billing/paddle-cli/internal/dryrun"
	"github.com/paddle-billing/paddle-cli/internal/iocontext"
	"github.com/paddle-billing/paddle-cli/internal/resolve"
)

// ListRequest carries the list flags shared by every resource.
type ListRequest struct {
	api.ListParams
	IDs     []string
	Status  []api.Status
	Include api.Includes
	Filters api.Query
}

// ListConfig defines how a list command behaves
type ListConfig[T any] struct {
	Use     string
	Short   string
	Long    string
	Example string
	// Collection names the resource for --include validation.
	Collection   string
	Fetch        func(ctx context.Context, client *api.Client, req ListRequest) (*api.ListResponse[T], error)
	Headers      []string
	RowFunc      func(T) []string
	EmptyMessage string
	// DefaultMaxPages overrides the default --max-pages value (defaults to 20).
	DefaultMaxPages int
}

// NewListCommand creates a cobra command from ListConfig
func NewListCommand[T any](cfg ListConfig[T]) *cobra.Command {
	var (
		after    string
		orderBy  string
		perPage  int
		ids      []string
		statuses []string
		filters  []string
		includes []string
		all      bool
		maxPages int
	)

	defaultMaxPages := cfg.DefaultMaxPages
	if defaultMaxPages == 0 {
		defaultMaxPages = 20
	}
	relations := api.Relations(cfg.Collection)

	cmd := &cobra.Command{
		Use:     cfg.Use,
		Aliases: []string{"ls"},
		Short:   cfg.Short,
		Long:    cfg.Long,
		Example: cfg.Example,
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if perPage < 0 {
				return fmt.Errorf("--per-page must be >= 0")
			}
			if all && maxPages < 1 {
				return fmt.Errorf("--max-pages must be >= 1")
			}
			filterQuery, err := parseFilters(filters)
			if err != nil {
				return err
			}
			include, err := parseIncludes(cfg.Collection, includes, relations)
			if err != nil {
				return err
			}

			req := ListRequest{
				ListParams: api.ListParams{After: after, OrderBy: orderBy, PerPage: perPage},
				IDs:        ids,
				Status:     toStatuses(statuses),
				Include:    include,
				Filters:    filterQuery,
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}

			var (
				items []T
				last  *api.ListResponse[T]
				pages int
			)
			for {
				resp, err := cfg.Fetch(cmdContext(cmd), client, req)
				if err != nil {
					return err
				}
				if err := resp.Err(); err != nil {
					return err
				}
				pages++
				items = append(items, resp.Data...)
				last = resp

				next := nextCursor(resp.Meta.Pagination)
				if !all || next == "" || pages >= maxPages {
					break
				}
				req.After = next
			}

			if isJSON(cmd) {
				if pages == 1 {
					return printJSON(cmd, last)
				}
				return printJSON(cmd, &api.ListResponse[T]{Data: items, Meta: last.Meta})
			}

			ioStreams := iocontext.GetIO(cmd.Context())
			if len(items) == 0 {
				_, _ = fmt.Fprintln(ioStreams.ErrOut, cfg.EmptyMessage)
				return nil
			}
			w := newTabWriter(ioStreams.Out)
			_, _ = fmt.Fprintln(w, strings.Join(cfg.Headers, "\t"))
			for _, item := range items {
				_, _ = fmt.Fprintln(w, strings.Join(cfg.RowFunc(item), "\t"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if next := nextCursor(last.Meta.Pagination); next != "" && !isQuiet(cmd) {
				_, _ = fmt.Fprintf(ioStreams.ErrOut, "\nMore results available: --after %s (or --all)\n", next)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&after, "after", "", "Return entities after this ID (cursor)")
	cmd.Flags().StringVar(&orderBy, "order-by", "", "Order by field and direction, e.g. id[DESC]")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "Number of entities per page (API default when 0)")
	cmd.Flags().StringSliceVar(&ids, "id", nil, "Return only these IDs (repeatable or comma-separated)")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status: active, archived")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Extra query parameter as key=value; values may start with [GT], [GTE], [LT] or [LTE]")
	cmd.Flags().BoolVar(&all, "all", false, "Follow pagination and fetch every page")
	cmd.Flags().IntVar(&maxPages, "max-pages", defaultMaxPages, "Maximum pages to fetch with --all")
	registerStaticCompletions(cmd, "status", []string{string(api.StatusActive), string(api.StatusArchived)})
	flagAlias(cmd.Flags(), "per-page", "limit")
	flagAlias(cmd.Flags(), "filter", "where")
	if len(relations) > 0 {
		cmd.Flags().StringSliceVar(&includes, "include", nil, fmt.Sprintf("Include related entities: %s", strings.Join(relations, ", ")))
		registerStaticCompletions(cmd, "include", relations)
	}

	return cmd
}

// GetConfig defines how a get command behaves. Several IDs are fetched
// concurrently with one shared client.
type GetConfig[T any] struct {
	Use        string
	Short      string
	Example    string
	Resource   string
	Collection string
	Fetch      func(ctx context.Context, client *api.Client, id string, include api.Includes) (*api.Response[T], error)
	Render     func(cmd *cobra.Command, item T)
}

// NewGetCommand creates a cobra command from GetConfig
func NewGetCommand[T any](cfg GetConfig[T]) *cobra.Command {
	var includes []string
	var progress bool
	relations := api.Relations(cfg.Collection)

	cmd := &cobra.Command{
		Use:     cfg.Use,
		Aliases: []string{"g", "show"},
		Short:   cfg.Short,
		Example: cfg.Example,
		Args:    cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			include, err := parseIncludes(cfg.Collection, includes, relations)
			if err != nil {
				return err
			}
			ids, err := parseIDArgs(args, cfg.Resource)
			if err != nil {
				return err
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}

			fetch := func(ctx context.Context, id string) (*api.Response[T], error) {
				resp, err := cfg.Fetch(ctx, client, id, include)
				if err != nil {
					return nil, err
				}
				if err := resp.Err(); err != nil {
					return resp, err
				}
				return resp, nil
			}

			if len(ids) == 1 {
				resp, err := fetch(cmdContext(cmd), ids[0])
				if err != nil {
					return err
				}
				if isJSON(cmd) {
					return printJSON(cmd, resp)
				}
				cfg.Render(cmd, resp.Data)
				return nil
			}

			ioStreams := iocontext.GetIO(cmd.Context())
			results := runBulkOperation(cmdContext(cmd), ids, int64(flags.Concurrency), progress, ioStreams.ErrOut,
				func(ctx context.Context, id string) (*api.Response[T], error) {
					return fetch(ctx, id)
				})
			if dryrun.IsEnabled(cmd.Context()) {
				return nil
			}

			items := make([]T, 0, len(results))
			var firstErr error
			for _, r := range results {
				if !r.Success {
					if errors.Is(r.Error, dryrun.ErrSkipped) {
						continue
					}
					if firstErr == nil {
						firstErr = r.Error
					}
					_, _ = fmt.Fprintf(ioStreams.ErrOut, "%s %s: %v\n", cfg.Resource, r.ID, r.Error)
					continue
				}
				items = append(items, r.Data.Data)
			}

			if isJSON(cmd) {
				if err := printJSON(cmd, items); err != nil {
					return err
				}
			} else {
				for i, item := range items {
					if i > 0 {
						_, _ = fmt.Fprintln(ioStreams.Out)
					}
					cfg.Render(cmd, item)
				}
			}

			if _, failed := countResults(results); failed > 0 && firstErr != nil {
				return fmt.Errorf("failed to get %d of %d %s(s): %w", failed, len(results), cfg.Resource, firstErr)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&progress, "progress", false, "Show progress when fetching several IDs")
	if len(relations) > 0 {
		cmd.Flags().StringSliceVar(&includes, "include", nil, fmt.Sprintf("Include related entities: %s", strings.Join(relations, ", ")))
		registerStaticCompletions(cmd, "include", relations)
	}
	return cmd
}

// parseIDArgs splits comma-separated ID arguments and drops duplicates,
// keeping the first occurrence.
func parseIDArgs(args []string, resource string) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, arg := range args {
		for _, id := range strings.Split(arg, ",") {
			id = strings.TrimSpace(id)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s ID is required", resource)
	}
	return ids, nil
}

// parseFilters turns key=value pairs into query parameters in the order given.
func parseFilters(values []string) (api.Query, error) {
	var q api.Query
	for _, value := range values {
		key, val, ok := strings.Cut(value, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --filter %q: must be key=value", value)
		}
		q = q.Add(key, val)
	}
	return q, nil
}

// parseIncludes validates relation names against the resource's relations.
func parseIncludes(collection string, names, relations []string) (api.Includes, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var selected []string
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		match, err := resolve.Match(name, relations)
		if err == nil && match == name {
			selected = append(selected, name)
			continue
		}
		msg := fmt.Sprintf("unknown relation %q for %s", name, collection)
		var ambiguous *resolve.AmbiguousError
		switch {
		case err == nil:
			msg += fmt.Sprintf(" (did you mean %q?)", match)
		case errors.As(err, &ambiguous):
			msg += fmt.Sprintf(" (did you mean %q?)", ambiguous.Matches[0].Name)
		}
		if len(relations) > 0 {
			msg += "; valid: " + strings.Join(relations, ", ")
		}
		return nil, errors.New(msg)
	}
	return api.IncludeOf(selected...), nil
}

func toStatuses(values []string) []api.Status {
	if len(values) == 0 {
		return nil
	}
	out := make([]api.Status, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, api.Status(strings.ToLower(v)))
		}
	}
	return out
}

// nextCursor extracts the "after" parameter from the pagination next link.
func nextCursor(p *api.Pagination) string {
	if p == nil || !p.HasMore || p.Next == "" {
		return ""
	}
	u, err := url.Parse(p.Next)
	if err != nil {
		return ""
	}
	return u.Query().Get("after")
}

// runMutation performs a create or update call and reports the result.
func runMutation[T any](
	cmd *cobra.Command,
	action, resource string,
	call func(ctx context.Context, client *api.Client) (*api.Response[T], error),
	describe func(T) (id, name string),
) error {
	client, err := getClient(cmd)
	if err != nil {
		return err
	}
	resp, err := call(cmdContext(cmd), client)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	if isJSON(cmd) {
		return printJSON(cmd, resp)
	}
	id, name := describe(resp.Data)
	printAction(cmd, action, resource, id, name)
	return nil
}
