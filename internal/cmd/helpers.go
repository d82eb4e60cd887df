package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/paddle-billing/paddle-cli/internal/api"
	"github.com/paddle-billing/paddle-cli/internal/cli"
	"github.com/paddle-billing/paddle-cli/internal/dryrun"
	"github.com/paddle-billing/paddle-cli/internal/iocontext"
	"github.com/paddle-billing/paddle-cli/internal/outfmt"
)

// getJQQuery returns the jq query from --jq or --query flags.
// --jq takes precedence over --query.
func getJQQuery() string {
	if flags.JQ != "" {
		return flags.JQ
	}
	return flags.Query
}

// getClient creates an API client from the resolved credentials
func getClient(cmd *cobra.Command) (*api.Client, error) {
	return newClientFactory(cmd).client()
}

// newTabWriter creates a tabwriter for text output
func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func newTabWriterFromCmd(cmd *cobra.Command) *tabwriter.Writer {
	return newTabWriter(iocontext.GetIO(cmd.Context()).Out)
}

// printJSON outputs data as JSON or JSONL with optional query filtering
func printJSON(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	f := outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut)
	if handled, err := f.Output(v); handled {
		return err
	}
	return outfmt.WriteJSONFiltered(ioStreams.Out, v, outfmt.GetQuery(cmd.Context()), outfmt.IsCompact(cmd.Context()))
}

// printJSONErr writes a JSON value to stderr.
func printJSONErr(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.WriteJSON(ioStreams.ErrOut, v, outfmt.IsCompact(cmd.Context()))
}

func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context())
}

func isQuiet(_ *cobra.Command) bool {
	return flags.Quiet
}

func printIfNotQuiet(cmd *cobra.Command, format string, args ...any) {
	if isQuiet(cmd) {
		return
	}
	_, _ = fmt.Fprintf(iocontext.GetIO(cmd.Context()).Out, format, args...)
}

// printAction prints a one-line confirmation such as
// "Created product pro_01 (Basic plan)".
func printAction(cmd *cobra.Command, action, resource, id, name string) {
	if name != "" {
		printIfNotQuiet(cmd, "%s %s %s (%s)\n", action, resource, id, name)
		return
	}
	printIfNotQuiet(cmd, "%s %s %s\n", action, resource, id)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// normalizeEnum validates input against valid values, case-insensitively.
func normalizeEnum(flagName, input string, valid []string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(input))
	for _, v := range valid {
		if value == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid --%s %q: must be one of %s", flagName, input, strings.Join(valid, ", "))
}

func registerStaticCompletions(cmd *cobra.Command, flagName string, values []string) {
	_ = cmd.RegisterFlagCompletionFunc(flagName, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
}

func stringPtrIfChanged(cmd *cobra.Command, flag, value string) *string {
	if !flagOrAliasChanged(cmd, flag) {
		return nil
	}
	return &value
}

func boolPtrIfChanged(cmd *cobra.Command, flag string, value bool) *bool {
	if !flagOrAliasChanged(cmd, flag) {
		return nil
	}
	return &value
}

func intPtrIfChanged(cmd *cobra.Command, flag string, value int) *int {
	if !flagOrAliasChanged(cmd, flag) {
		return nil
	}
	return &value
}

func statusPtrIfChanged(cmd *cobra.Command, value string) (*api.Status, error) {
	if !flagOrAliasChanged(cmd, "status") {
		return nil, nil
	}
	status, err := normalizeEnum("status", value, []string{string(api.StatusActive), string(api.StatusArchived)})
	if err != nil {
		return nil, err
	}
	s := api.Status(status)
	return &s, nil
}

// parseCustomData decodes a JSON object given inline, as @file or "-".
func parseCustomData(cmd *cobra.Command, value string) (api.CustomData, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	data, err := iocontext.GetIO(cmd.Context()).ReadArg(value)
	if err != nil {
		return nil, err
	}
	var out api.CustomData
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("invalid --custom-data: must be a JSON object: %w", err)
	}
	return out, nil
}

// loadBody decodes a JSON request body given inline, as @file or "-" into v.
// Typed flags are applied on top by the caller.
func loadBody(cmd *cobra.Command, value string, v any) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	data, err := iocontext.GetIO(cmd.Context()).ReadArg(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid --data JSON: %w", err)
	}
	return nil
}

func parseTimestamp(flagName, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := cli.ParseTime(value, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: use RFC 3339, YYYY-MM-DD or a relative time such as 30d", flagName, value)
	}
	return &t, nil
}

// aliasBridgeValue wraps a pflag.Value so that Set() on the alias also
// marks the canonical flag as Changed. This lets aliases satisfy Cobra's
// MarkFlagRequired check transparently.
type aliasBridgeValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasBridgeValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

// aliasBridgeSliceValue also forwards pflag.SliceValue when the underlying
// Value supports it.
type aliasBridgeSliceValue struct {
	aliasBridgeValue
	slice pflag.SliceValue
}

func (v *aliasBridgeSliceValue) Append(s string) error     { return v.slice.Append(s) }
func (v *aliasBridgeSliceValue) Replace(ss []string) error { return v.slice.Replace(ss) }
func (v *aliasBridgeSliceValue) GetSlice() []string        { return v.slice.GetSlice() }

// flagAlias registers a hidden alias for an existing flag. Both flags share
// the same underlying Value.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	bridge := &aliasBridgeValue{Value: f.Value, canonical: f}
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		a.Value = &aliasBridgeSliceValue{aliasBridgeValue: *bridge, slice: sv}
	} else {
		a.Value = bridge
	}
	// The alias is never independently required.
	newAnn := map[string][]string{"alias-of": {name}}
	for k, v := range f.Annotations {
		if k == cobra.BashCompOneRequiredFlag {
			continue
		}
		newAnn[k] = v
	}
	a.Annotations = newAnn
	fs.AddFlag(&a)
}

// flagOrAliasChanged returns true if the named flag or any of its
// hidden aliases was explicitly set by the user.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) {
		return true
	}
	if cmd.InheritedFlags().Changed(name) {
		return true
	}

	aliasChanged := func(fs *pflag.FlagSet) bool {
		found := false
		fs.VisitAll(func(f *pflag.Flag) {
			if found {
				return
			}
			if ann, ok := f.Annotations["alias-of"]; ok && len(ann) > 0 && ann[0] == name {
				if fs.Changed(f.Name) {
					found = true
				}
			}
		})
		return found
	}

	return aliasChanged(cmd.Flags()) || aliasChanged(cmd.InheritedFlags())
}

// errAlreadyHandled is a sentinel error indicating the error was already printed to stderr.
// Commands using RunE return this to signal Cobra that an error occurred (for exit code)
// without Cobra printing it again (since SilenceErrors is true on root command).
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() error {
	return errAlreadyHandled
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// apiErrorPayload renders an API error in the shape the API returned it.
func apiErrorPayload(apiErr *api.APIError) map[string]any {
	body := map[string]any{
		"type":   apiErr.Type,
		"code":   apiErr.Code,
		"detail": apiErr.Detail,
	}
	if apiErr.DocumentationURL != "" {
		body["documentation_url"] = apiErr.DocumentationURL
	}
	if len(apiErr.Fields) > 0 {
		body["errors"] = apiErr.Fields
	}
	payload := map[string]any{"error": body}
	if apiErr.RequestID != "" {
		payload["meta"] = map[string]any{"request_id": apiErr.RequestID}
	}
	return payload
}

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil || errors.Is(err, dryrun.ErrSkipped) {
			return nil
		}
		var apiErr *api.APIError
		if isJSON(cmd) && errors.As(err, &apiErr) {
			_ = printJSONErr(cmd, apiErrorPayload(apiErr))
		} else {
			_, _ = fmt.Fprint(iocontext.GetIO(cmd.Context()).ErrOut, HandleError(err))
		}
		// Return a handled error so tests can still inspect the original message.
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}
