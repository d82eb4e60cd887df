package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paddle-billing/paddle-cli/internal/api"
	"github.com/paddle-billing/paddle-cli/internal/iocontext"
)

var apiMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

func newAPICmd() *cobra.Command {
	var method string
	var params []string
	var fields []string
	var rawFields []string
	var jsonBody string
	var silent bool

	cmd := &cobra.Command{
		Use:   "api [method] <path>",
		Short: "Make raw requests to any Paddle endpoint",
		Long: `Make raw requests to any Paddle Billing endpoint.

The path is relative to the environment base URL, so "products/pro_01"
becomes https://api.paddle.com/products/pro_01 (or the sandbox host with
--sandbox). API error payloads are printed and mapped to exit codes the same
way as the resource commands.`,
		Example: `  # GET request (default)
  paddle api products/pro_01

  # Method as first argument
  paddle api PATCH products/pro_01 -f name="Basic plan"

  # Query parameters, repeated keys become a comma-separated list
  paddle api prices --param status=active --param status=archived --param 'unit_price.amount=[GT]1000'

  # Inline JSON body
  paddle api POST customers -d '{"email":"ada@example.com"}'

  # Body from a file or stdin
  paddle api POST products -d @product.json
  cat product.json | paddle api POST products -d -

  # Filter the response
  paddle api customers --jq '.data[].email'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if len(args) == 2 {
				if flagOrAliasChanged(cmd, "method") {
					return fmt.Errorf("method given both as argument and with --method")
				}
				method, path = args[0], args[1]
			}
			m, err := normalizeMethod(method)
			if err != nil {
				return err
			}

			query, err := buildParams(params)
			if err != nil {
				return err
			}
			body, err := buildRequestBody(iocontext.GetIO(cmd.Context()), fields, rawFields, jsonBody)
			if err != nil {
				return err
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}

			req := api.Request{Method: m, Path: strings.TrimPrefix(path, "/"), Query: query}
			if body != nil {
				req.Body = body
			}
			raw, err := client.SendRaw(cmdContext(cmd), req)
			if err != nil {
				return err
			}

			// API errors arrive as ordinary payloads; surface them for exit codes.
			var envelope api.Response[json.RawMessage]
			if err := json.Unmarshal(raw, &envelope); err == nil {
				if err := envelope.Err(); err != nil {
					return err
				}
			}

			if silent {
				return nil
			}
			if isJSON(cmd) {
				return printJSON(cmd, raw)
			}

			out := iocontext.GetIO(cmd.Context()).Out
			pretty := &bytes.Buffer{}
			if err := json.Indent(pretty, raw, "", "  "); err != nil {
				_, _ = fmt.Fprintln(out, string(raw))
				return nil
			}
			_, _ = fmt.Fprintln(out, pretty.String())
			return nil
		}),
	}

	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "HTTP method: "+strings.Join(apiMethods, ", "))
	cmd.Flags().StringArrayVar(&params, "param", nil, "Query parameter as key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "Request body field as key=value (string)")
	cmd.Flags().StringArrayVarP(&rawFields, "raw-field", "F", nil, "Request body field as key=value (JSON parsed)")
	cmd.Flags().StringVarP(&jsonBody, "body", "d", "", "Request body as JSON, @path or - for stdin")
	cmd.Flags().BoolVarP(&silent, "silent", "s", false, "Suppress output")
	registerStaticCompletions(cmd, "method", apiMethods)
	flagAlias(cmd.Flags(), "body", "data")

	return cmd
}

func normalizeMethod(method string) (string, error) {
	m := strings.ToUpper(strings.TrimSpace(method))
	for _, valid := range apiMethods {
		if m == valid {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid HTTP method %q: must be one of %s", method, strings.Join(apiMethods, ", "))
}

// buildParams groups key=value pairs by key in first-seen order. A key given
// more than once becomes a list.
func buildParams(values []string) (api.Query, error) {
	var order []string
	grouped := make(map[string][]string)
	for _, value := range values {
		key, val, ok := strings.Cut(value, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q: must be key=value", value)
		}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], val)
	}

	var q api.Query
	for _, key := range order {
		vals := grouped[key]
		if len(vals) == 1 {
			q = q.Add(key, vals[0])
			continue
		}
		q = q.Add(key, vals)
	}
	return q, nil
}

// buildRequestBody merges --body with --field and --raw-field. Fields win
// over keys from --body. A --body that is not a JSON object is sent as is
// and cannot be combined with fields.
func buildRequestBody(streams *iocontext.IO, fields, rawFields []string, jsonBody string) (any, error) {
	body := make(map[string]any)

	if strings.TrimSpace(jsonBody) != "" {
		data, err := streams.ReadArg(jsonBody)
		if err != nil {
			return nil, fmt.Errorf("failed to read --body: %w", err)
		}
		if !json.Valid(data) {
			return nil, fmt.Errorf("invalid --body: not valid JSON")
		}
		if err := json.Unmarshal(data, &body); err != nil {
			if len(fields) > 0 || len(rawFields) > 0 {
				return nil, fmt.Errorf("--field/--raw-field require --body to be a JSON object")
			}
			return json.RawMessage(data), nil
		}
	}

	for _, field := range fields {
		key, value, ok := strings.Cut(field, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field format %q: must be key=value", field)
		}
		body[key] = value
	}

	for _, field := range rawFields {
		key, value, ok := strings.Cut(field, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid raw field format %q: must be key=value", field)
		}
		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			return nil, fmt.Errorf("invalid JSON value for raw field %q: %w", key, err)
		}
		body[key] = parsed
	}

	if len(body) == 0 {
		return nil, nil
	}
	return body, nil
}
