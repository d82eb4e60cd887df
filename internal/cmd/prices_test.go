package cmd

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const priceJSON = `{
	"id": "pri_01",
	"product_id": "pro_01",
	"description": "Monthly",
	"type": "standard",
	"billing_cycle": {"interval": "month", "frequency": 1},
	"tax_mode": "account_setting",
	"unit_price": {"amount": "1050", "currency_code": "USD"},
	"quantity": {"minimum": 1, "maximum": 100},
	"status": "active",
	"created_at": "2024-04-11T13:54:52Z",
	"updated_at": "2024-04-11T13:54:52Z"
}`

const oneTimePriceJSON = `{
	"id": "pri_02",
	"product_id": "pro_01",
	"description": "Lifetime",
	"type": "standard",
	"tax_mode": "account_setting",
	"unit_price": {"amount": "5000", "currency_code": "JPY"},
	"quantity": {"minimum": 1, "maximum": 1},
	"status": "active",
	"created_at": "2024-04-11T13:54:52Z",
	"updated_at": "2024-04-11T13:54:52Z"
}`

func TestPricesListCommand(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/prices", jsonResponse(200, `{"data": [`+priceJSON+`, `+oneTimePriceJSON+`], "meta": {"request_id": "req_1"}}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"prices", "list"}))
	})

	assert.Contains(t, output, "BILLING")
	assert.Contains(t, output, "pri_01")
	assert.Contains(t, output, "10.50 USD")
	assert.Contains(t, output, "every month")
	assert.Contains(t, output, "5000 JPY")
}

func TestPricesListCommand_Filters(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		recurring string
	}{
		{"recurring", []string{"--recurring"}, "true"},
		{"one-time", []string{"--one-time"}, "false"},
		{"neither", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newRouteHandler().
				On("GET", "/prices", jsonResponse(200, `{"data": [`+priceJSON+`]}`))
			setupTestEnvWithHandler(t, handler)

			args := append([]string{"prices", "list", "--product-id", "pro_01,pro_02"}, tt.args...)
			_ = captureStdout(t, func() {
				require.NoError(t, Execute(context.Background(), args))
			})

			reqs := handler.Requests()
			require.Len(t, reqs, 1)
			q := reqs[0].URL.Query()
			assert.Equal(t, "pro_01,pro_02", q.Get("product_id"))
			assert.Equal(t, tt.recurring, q.Get("recurring"))
		})
	}
}

func TestPricesListCommand_RecurringAndOneTimeConflict(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"prices", "list", "--recurring", "--one-time"})
	})
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Empty(t, handler.Requests())
}

func TestPricesGetCommand(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/prices/pri_01", jsonResponse(200, `{"data": `+priceJSON+`}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"prices", "get", "pri_01"}))
	})
	assert.Contains(t, output, "Price pri_01")
	assert.Contains(t, output, "Monthly")
	assert.Contains(t, output, "1-100")
}

func TestPricesCreateCommand(t *testing.T) {
	var received map[string]any
	handler := newRouteHandler().
		On("POST", "/prices", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&received)
			jsonResponse(201, `{"data": `+priceJSON+`}`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"prices", "create",
			"--product", "pro_01",
			"--description", "Monthly",
			"--amount", "10.50",
			"--interval", "Month",
		})
		require.NoError(t, err)
	})

	assert.Equal(t, "Created price pri_01 (Monthly)\n", output)
	assert.Equal(t, "pro_01", received["product_id"])
	assert.Equal(t, map[string]any{"amount": "1050", "currency_code": "USD"}, received["unit_price"])
	assert.Equal(t, map[string]any{"interval": "month", "frequency": float64(1)}, received["billing_cycle"])
	assert.NotContains(t, received, "quantity")
	assert.NotContains(t, received, "trial_period")
}

func TestPricesCreateCommand_ZeroDecimalCurrency(t *testing.T) {
	var received map[string]any
	handler := newRouteHandler().
		On("POST", "/prices", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&received)
			jsonResponse(201, `{"data": `+oneTimePriceJSON+`}`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	_ = captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"prices", "create",
			"--product", "pro_01",
			"--desc", "Lifetime",
			"--amount", "5000",
			"--currency", "jpy",
			"--min-quantity", "1",
			"--max-quantity", "1",
		})
		require.NoError(t, err)
	})

	assert.Equal(t, map[string]any{"amount": "5000", "currency_code": "JPY"}, received["unit_price"])
	assert.Equal(t, map[string]any{"minimum": float64(1), "maximum": float64(1)}, received["quantity"])
	assert.NotContains(t, received, "billing_cycle")
}

func TestPricesCreateCommand_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing product", []string{"--description", "Monthly", "--amount", "10"}, "--product is required"},
		{"missing description", []string{"--product", "pro_01", "--amount", "10"}, "--description is required"},
		{"missing amount", []string{"--product", "pro_01", "--description", "Monthly"}, "--amount is required"},
		{"bad interval", []string{"--product", "pro_01", "--description", "Monthly", "--amount", "10", "--interval", "fortnight"}, `invalid --interval "fortnight"`},
		{"bad currency", []string{"--product", "pro_01", "--description", "Monthly", "--amount", "10", "--currency", "US"}, "invalid --currency"},
		{"bad quantity", []string{"--product", "pro_01", "--description", "Monthly", "--amount", "10", "--min-quantity", "5", "--max-quantity", "2"}, "invalid quantity range 5-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newRouteHandler()
			setupTestEnvWithHandler(t, handler)

			var err error
			_ = captureStderr(t, func() {
				err = Execute(context.Background(), append([]string{"prices", "create"}, tt.args...))
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, handler.Requests())
		})
	}
}

func TestPricesUpdateCommand(t *testing.T) {
	var raw []byte
	handler := newRouteHandler().
		On("PATCH", "/prices/pri_01", func(w http.ResponseWriter, r *http.Request) {
			raw, _ = io.ReadAll(r.Body)
			jsonResponse(200, `{"data": `+priceJSON+`}`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"prices", "update", "pri_01", "--amount", "12", "--currency", "EUR", "--tax-mode", "internal"})
		require.NoError(t, err)
	})

	assert.Equal(t, "Updated price pri_01 (Monthly)\n", output)
	assert.JSONEq(t, `{"unit_price": {"amount": "1200", "currency_code": "EUR"}, "tax_mode": "internal"}`, string(raw))
}

func TestPricesArchiveCommand(t *testing.T) {
	var raw []byte
	handler := newRouteHandler().
		On("PATCH", "/prices/pri_01", func(w http.ResponseWriter, r *http.Request) {
			raw, _ = io.ReadAll(r.Body)
			jsonResponse(200, `{"data": `+priceJSON+`}`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"prices", "archive", "pri_01"}))
	})
	assert.Equal(t, "Archived price pri_01 (Monthly)\n", output)
	assert.JSONEq(t, `{"status": "archived"}`, string(raw))
}
