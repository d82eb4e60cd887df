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

const discountJSON = `{
	"id": "dsc_01",
	"status": "active",
	"description": "10% off",
	"enabled_for_checkout": true,
	"code": "WELCOME10",
	"type": "percentage",
	"amount": "10",
	"recur": true,
	"maximum_recurring_intervals": 3,
	"usage_limit": 100,
	"times_used": 4,
	"created_at": "2024-04-11T13:54:52Z",
	"updated_at": "2024-04-11T13:54:52Z"
}`

const flatDiscountJSON = `{
	"id": "dsc_02",
	"status": "active",
	"description": "$5 off",
	"enabled_for_checkout": false,
	"type": "flat",
	"amount": "500",
	"currency_code": "USD",
	"recur": false,
	"times_used": 0,
	"created_at": "2024-04-11T13:54:52Z",
	"updated_at": "2024-04-11T13:54:52Z"
}`

func TestDiscountsListCommand(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/discounts", jsonResponse(200, `{"data": [`+discountJSON+`, `+flatDiscountJSON+`]}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"discounts", "list", "--code", "WELCOME10,SPRING"}))
	})

	assert.Contains(t, output, "WELCOME10")
	assert.Contains(t, output, "10%")
	assert.Contains(t, output, "5.00 USD")
	assert.Equal(t, "WELCOME10,SPRING", handler.Requests()[0].URL.Query().Get("code"))
}

func TestDiscountsGetCommand(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/discounts/dsc_01", jsonResponse(200, `{"data": `+discountJSON+`}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"discounts", "get", "dsc_01"}))
	})
	assert.Contains(t, output, "Discount dsc_01")
	assert.Contains(t, output, "4 of 100")
	assert.Contains(t, output, "up to 3 intervals")
}

func TestDiscountsCreateCommand_Percentage(t *testing.T) {
	var received map[string]any
	handler := newRouteHandler().
		On("POST", "/discounts", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&received)
			jsonResponse(201, `{"data": `+discountJSON+`}`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"discounts", "create",
			"--type", "percentage",
			"--amount", "10",
			"--description", "10% off",
			"--code", "WELCOME10",
			"--enabled-for-checkout",
			"--usage-limit", "100",
			"--expires-at", "2025-12-31",
		})
		require.NoError(t, err)
	})

	assert.Equal(t, "Created discount dsc_01 (10% off)\n", output)
	assert.Equal(t, "10", received["amount"])
	assert.Equal(t, "percentage", received["type"])
	assert.Equal(t, "WELCOME10", received["code"])
	assert.Equal(t, true, received["enabled_for_checkout"])
	assert.Equal(t, float64(100), received["usage_limit"])
	assert.Equal(t, "2025-12-31T00:00:00Z", received["expires_at"])
	assert.NotContains(t, received, "currency_code")
	assert.NotContains(t, received, "recur")
}

func TestDiscountsCreateCommand_Flat(t *testing.T) {
	var received map[string]any
	handler := newRouteHandler().
		On("POST", "/discounts", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&received)
			jsonResponse(201, `{"data": `+flatDiscountJSON+`}`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	_ = captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"discounts", "create",
			"--type", "flat",
			"--amount", "5",
			"--currency", "usd",
			"--desc", "$5 off",
			"--restrict-to", "pro_01,pri_01",
		})
		require.NoError(t, err)
	})

	assert.Equal(t, "500", received["amount"])
	assert.Equal(t, "USD", received["currency_code"])
	assert.Equal(t, []any{"pro_01", "pri_01"}, received["restrict_to"])
}

func TestDiscountsCreateCommand_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"flat without currency", []string{"--type", "flat", "--amount", "5", "--description", "x"}, "--currency is required for flat discounts"},
		{"missing type", []string{"--amount", "5", "--description", "x"}, "--type is required"},
		{"missing amount", []string{"--type", "percentage", "--description", "x"}, "--amount is required"},
		{"missing description", []string{"--type", "percentage", "--amount", "5"}, "--description is required"},
		{"bad type", []string{"--type", "bogus", "--amount", "5", "--description", "x"}, `invalid --type "bogus"`},
		{"bad currency", []string{"--type", "flat", "--amount", "5", "--currency", "dollars", "--description", "x"}, `invalid --currency "dollars"`},
		{"bad expiry", []string{"--type", "percentage", "--amount", "5", "--description", "x", "--expires-at", "soon"}, "invalid --expires-at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newRouteHandler()
			setupTestEnvWithHandler(t, handler)

			var err error
			_ = captureStderr(t, func() {
				err = Execute(context.Background(), append([]string{"discounts", "create"}, tt.args...))
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, exitUsage, ExitCode(err))
			assert.Empty(t, handler.Requests())
		})
	}
}

func TestDiscountsUpdateCommand(t *testing.T) {
	var raw []byte
	handler := newRouteHandler().
		On("PATCH", "/discounts/dsc_01", func(w http.ResponseWriter, r *http.Request) {
			raw, _ = io.ReadAll(r.Body)
			jsonResponse(200, `{"data": `+discountJSON+`}`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"discounts", "update", "dsc_01", "--usage-limit", "500", "--enabled-for-checkout=false"})
		require.NoError(t, err)
	})

	assert.Equal(t, "Updated discount dsc_01 (10% off)\n", output)
	assert.JSONEq(t, `{"usage_limit": 500, "enabled_for_checkout": false}`, string(raw))
}
