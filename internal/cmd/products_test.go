package cmd

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productJSON = `{
	"id": "pro_01",
	"name": "Basic plan",
	"tax_category": "standard",
	"type": "standard",
	"description": "Entry tier",
	"status": "active",
	"custom_data": {"tier": "basic"},
	"created_at": "2024-04-11T13:54:52.254748Z",
	"updated_at": "2024-04-11T13:54:52.254748Z"
}`

const productWithPricesJSON = `{
	"id": "pro_02",
	"name": "Pro plan",
	"tax_category": "saas",
	"type": "standard",
	"status": "active",
	"created_at": "2024-04-11T13:54:52Z",
	"updated_at": "2024-04-11T13:54:52Z",
	"prices": [
		{"id": "pri_01", "product_id": "pro_02", "description": "Monthly", "unit_price": {"amount": "1050", "currency_code": "USD"}, "billing_cycle": {"interval": "month", "frequency": 1}, "status": "active"}
	]
}`

func TestProductsListCommand(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/products", jsonResponse(200, `{
			"data": [`+productJSON+`, `+productWithPricesJSON+`],
			"meta": {"request_id": "req_1", "pagination": {"per_page": 50, "next": "https://api.paddle.com/products?after=pro_02", "has_more": false, "estimated_total": 2}}
		}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"products", "list"})
		require.NoError(t, err)
	})

	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "TAX CATEGORY")
	assert.Contains(t, output, "pro_01")
	assert.Contains(t, output, "Basic plan")
	assert.Contains(t, output, "10.50 USD")

	reqs := handler.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "api.paddle.com", reqs[0].Header.Get("X-Original-Host"))
	assert.Equal(t, "Bearer test-key", reqs[0].Header.Get("Authorization"))
	assert.True(t, strings.HasPrefix(reqs[0].Header.Get("User-Agent"), "paddle-cli/"))
}

func TestProductsListCommand_QueryParameters(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/products", jsonResponse(200, `{"data": [], "meta": {"request_id": "req_1"}}`))
	setupTestEnvWithHandler(t, handler)

	stderr := captureStderr(t, func() {
		_ = captureStdout(t, func() {
			err := Execute(context.Background(), []string{
				"products", "list",
				"--status", "active,archived",
				"--include", "prices",
				"--tax-category", "saas",
				"--limit", "10",
				"--filter", "created_at=[GT]2024-01-01T00:00:00Z",
			})
			require.NoError(t, err)
		})
	})
	assert.Contains(t, stderr, "No products found")

	reqs := handler.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t,
		"status=active%2Carchived&tax_category=saas&include=prices&per_page=10&created_at%5BGT%5D=2024-01-01T00%3A00%3A00Z",
		reqs[0].URL.RawQuery)
}

func TestProductsListCommand_JSON(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/products", jsonResponse(200, `{"data": [`+productJSON+`], "meta": {"request_id": "req_1"}}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"products", "list", "-o", "json"})
		require.NoError(t, err)
	})

	var payload struct {
		Data []map[string]any `json:"data"`
		Meta map[string]any   `json:"meta"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &payload))
	require.Len(t, payload.Data, 1)
	assert.Equal(t, "pro_01", payload.Data[0]["id"])
	assert.Equal(t, "req_1", payload.Meta["request_id"])
}

func TestProductsListCommand_Query(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/products", jsonResponse(200, `{"data": [`+productJSON+`, `+productWithPricesJSON+`], "meta": {}}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"products", "list", "--jq", "[.data[].id]", "--compact-json"})
		require.NoError(t, err)
	})
	assert.JSONEq(t, `["pro_01","pro_02"]`, strings.TrimSpace(output))
}

func TestProductsListCommand_AllPages(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/products", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Query().Get("after") == "pro_01" {
				_, _ = w.Write([]byte(`{"data": [` + productWithPricesJSON + `], "meta": {"request_id": "req_2", "pagination": {"per_page": 1, "next": "https://api.paddle.com/products?after=pro_02", "has_more": false}}}`))
				return
			}
			_, _ = w.Write([]byte(`{"data": [` + productJSON + `], "meta": {"request_id": "req_1", "pagination": {"per_page": 1, "next": "https://api.paddle.com/products?after=pro_01", "has_more": true}}}`))
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"products", "list", "--all", "--json"})
		require.NoError(t, err)
	})

	var payload struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &payload))
	require.Len(t, payload.Data, 2)
	assert.Equal(t, "pro_02", payload.Data[1]["id"])
	assert.Len(t, handler.Requests(), 2)
}

func TestProductsListCommand_MoreResultsHint(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/products", jsonResponse(200, `{"data": [`+productJSON+`], "meta": {"pagination": {"per_page": 1, "next": "https://api.paddle.com/products?after=pro_01", "has_more": true}}}`))
	setupTestEnvWithHandler(t, handler)

	stderr := captureStderr(t, func() {
		_ = captureStdout(t, func() {
			require.NoError(t, Execute(context.Background(), []string{"products", "list"}))
		})
	})
	assert.Contains(t, stderr, "More results available: --after pro_01")
	assert.Len(t, handler.Requests(), 1)
}

func TestProductsListCommand_UnknownInclude(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"products", "list", "--include", "price"})
	})
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, stderr, `did you mean "prices"?`)
	assert.Empty(t, handler.Requests())
}

func TestProductsGetCommand(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/products/pro_02", jsonResponse(200, `{"data": `+productWithPricesJSON+`, "meta": {"request_id": "req_1"}}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"products", "get", "pro_02", "--include", "prices"})
		require.NoError(t, err)
	})

	assert.Contains(t, output, "Product pro_02")
	assert.Contains(t, output, "Pro plan")
	assert.Contains(t, output, "Price pri_01")
	assert.Contains(t, output, "10.50 USD every month")
	assert.Equal(t, "include=prices", handler.Requests()[0].URL.RawQuery)
}

func TestProductsGetCommand_SeveralIDs(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/products/pro_01", jsonResponse(200, `{"data": `+productJSON+`}`)).
		On("GET", "/products/pro_02", jsonResponse(200, `{"data": `+productWithPricesJSON+`}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"products", "get", "pro_01,pro_02", "pro_01", "--json", "--concurrency", "2"})
		require.NoError(t, err)
	})

	var payload struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &payload))
	require.Len(t, payload.Data, 2)
	assert.Equal(t, "pro_01", payload.Data[0]["id"])
	assert.Equal(t, "pro_02", payload.Data[1]["id"])
	assert.Len(t, handler.Requests(), 2)
}

func TestProductsGetCommand_PartialFailure(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/products/pro_01", jsonResponse(200, `{"data": `+productJSON+`}`)).
		On("GET", "/products/pro_missing", jsonResponse(404, `{"error": {"type": "request_error", "code": "not_found", "detail": "Entity pro_missing not found"}, "meta": {"request_id": "req_9"}}`))
	setupTestEnvWithHandler(t, handler)

	var err error
	var output string
	stderr := captureStderr(t, func() {
		output = captureStdout(t, func() {
			err = Execute(context.Background(), []string{"products", "get", "pro_01", "pro_missing"})
		})
	})

	require.Error(t, err)
	assert.Equal(t, exitNotFound, ExitCode(err))
	assert.Contains(t, output, "Product pro_01")
	assert.Contains(t, stderr, "product pro_missing")
	assert.Contains(t, stderr, "failed to get 1 of 2 product(s)")
}

func TestProductsGetCommand_NotFoundJSON(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/products/pro_x", jsonResponse(404, `{"error": {"type": "request_error", "code": "not_found", "detail": "Entity pro_x not found", "documentation_url": "https://developer.paddle.com/v1/errors/shared/not_found"}, "meta": {"request_id": "req_404"}}`))
	setupTestEnvWithHandler(t, handler)

	var err error
	stderr := captureStderr(t, func() {
		_ = captureStdout(t, func() {
			err = Execute(context.Background(), []string{"products", "get", "pro_x", "--json"})
		})
	})

	require.Error(t, err)
	assert.Equal(t, exitNotFound, ExitCode(err))

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(stderr), &payload))
	body := payload["error"].(map[string]any)
	assert.Equal(t, "not_found", body["code"])
	assert.Equal(t, map[string]any{"request_id": "req_404"}, payload["meta"])
}

func TestProductsCreateCommand(t *testing.T) {
	var received map[string]any
	handler := newRouteHandler().
		On("POST", "/products", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			_ = json.NewDecoder(r.Body).Decode(&received)
			jsonResponse(201, `{"data": `+productJSON+`}`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"products", "create",
			"--name", "Basic plan",
			"--desc", "Entry tier",
			"--custom-data", `{"tier":"basic"}`,
		})
		require.NoError(t, err)
	})

	assert.Equal(t, "Created product pro_01 (Basic plan)\n", output)
	assert.Equal(t, "Basic plan", received["name"])
	assert.Equal(t, "standard", received["tax_category"])
	assert.Equal(t, "Entry tier", received["description"])
	assert.Equal(t, map[string]any{"tier": "basic"}, received["custom_data"])
	assert.NotContains(t, received, "image_url")
}

func TestProductsCreateCommand_RequiresName(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"products", "create", "--tax-category", "saas"})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--name is required")
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Empty(t, handler.Requests())
}

func TestProductsCreateCommand_DryRun(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"products", "create", "--name", "Basic plan", "--dry-run"})
		require.NoError(t, err)
	})

	assert.Contains(t, output, "[DRY-RUN] POST https://api.paddle.com/products")
	assert.Contains(t, output, "Bearer [REDACTED]")
	assert.Contains(t, output, `"name": "Basic plan"`)
	assert.Contains(t, output, "No request sent (dry-run mode)")
	assert.NotContains(t, output, "test-key")
	assert.Empty(t, handler.Requests())
}

func TestProductsCreateCommand_DryRunSandbox(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"products", "create", "--name", "Basic plan", "--dry-run", "--sandbox", "--json"})
		require.NoError(t, err)
	})

	var preview map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &preview))
	assert.Equal(t, "POST", preview["method"])
	assert.Equal(t, "https://sandbox-api.paddle.com/products", preview["url"])
}

func TestProductsUpdateCommand(t *testing.T) {
	var raw []byte
	handler := newRouteHandler().
		On("PATCH", "/products/pro_01", func(w http.ResponseWriter, r *http.Request) {
			raw, _ = io.ReadAll(r.Body)
			jsonResponse(200, `{"data": `+productJSON+`}`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"products", "update", "pro_01", "--name", "Basic plan", "--status", "Archived"})
		require.NoError(t, err)
	})

	assert.Equal(t, "Updated product pro_01 (Basic plan)\n", output)
	assert.JSONEq(t, `{"name": "Basic plan", "status": "archived"}`, string(raw))
}

func TestProductsUpdateCommand_InvalidStatus(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"products", "update", "pro_01", "--status", "deleted"})
	})
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Empty(t, handler.Requests())
}

func TestProductsArchiveCommand(t *testing.T) {
	var raw []byte
	handler := newRouteHandler().
		On("PATCH", "/products/pro_01", func(w http.ResponseWriter, r *http.Request) {
			raw, _ = io.ReadAll(r.Body)
			jsonResponse(200, `{"data": `+productJSON+`}`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"products", "archive", "pro_01"}))
	})
	assert.Equal(t, "Archived product pro_01 (Basic plan)\n", output)
	assert.JSONEq(t, `{"status": "archived"}`, string(raw))

	output = captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"products", "archive", "pro_01", "--restore"}))
	})
	assert.Equal(t, "Restored product pro_01 (Basic plan)\n", output)
	assert.JSONEq(t, `{"status": "active"}`, string(raw))
}

func TestProductsCommand_Quiet(t *testing.T) {
	handler := newRouteHandler().
		On("PATCH", "/products/pro_01", jsonResponse(200, `{"data": `+productJSON+`}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"products", "archive", "pro_01", "-Q"}))
	})
	assert.Empty(t, output)
}
