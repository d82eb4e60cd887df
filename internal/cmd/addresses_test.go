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

const addressJSON = `{
	"id": "add_01",
	"customer_id": "ctm_01",
	"description": "Head Office",
	"first_line": "4050 Jefferson Plaza, 41st Floor",
	"second_line": null,
	"city": "New York",
	"postal_code": "10021",
	"region": "NY",
	"country_code": "US",
	"custom_data": null,
	"status": "active",
	"created_at": "2024-04-12T06:42:58Z",
	"updated_at": "2024-04-12T06:42:58Z"
}`

func TestAddressesListCommand(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/customers/ctm_01/addresses", jsonResponse(200, `{"data": [`+addressJSON+`]}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"addresses", "list", "--customer", "ctm_01"}))
	})

	assert.Contains(t, output, "POSTAL CODE")
	assert.Contains(t, output, "add_01")
	assert.Contains(t, output, "New York")
	assert.Contains(t, output, "10021")
}

func TestAddressesListCommand_RequiresCustomer(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"addresses", "list"})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "customer" not set`)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Empty(t, handler.Requests())
}

func TestAddressesGetCommand(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/customers/ctm_01/addresses/add_01", jsonResponse(200, `{"data": `+addressJSON+`}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"addresses", "get", "add_01", "--customer-id", "ctm_01"}))
	})
	assert.Contains(t, output, "Address add_01")
	assert.Contains(t, output, "Head Office")
	assert.Contains(t, output, "NY")
}

func TestAddressesCreateCommand(t *testing.T) {
	var received map[string]any
	handler := newRouteHandler().
		On("POST", "/customers/ctm_01/addresses", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&received)
			jsonResponse(201, `{"data": `+addressJSON+`}`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"addresses", "create",
			"--customer", "ctm_01",
			"--country", "us",
			"--zip", "10021",
			"--city", "New York",
		})
		require.NoError(t, err)
	})

	assert.Equal(t, "Created address add_01 (US)\n", output)
	assert.Equal(t, map[string]any{"country_code": "US", "postal_code": "10021", "city": "New York"}, received)
}

func TestAddressesCreateCommand_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing country", []string{"--customer", "ctm_01", "--city", "Paris"}, "--country is required"},
		{"bad country", []string{"--customer", "ctm_01", "--country", "USA"}, `invalid --country "USA"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newRouteHandler()
			setupTestEnvWithHandler(t, handler)

			var err error
			_ = captureStderr(t, func() {
				err = Execute(context.Background(), append([]string{"addresses", "create"}, tt.args...))
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, handler.Requests())
		})
	}
}

func TestAddressesUpdateCommand(t *testing.T) {
	var raw []byte
	handler := newRouteHandler().
		On("PATCH", "/customers/ctm_01/addresses/add_01", func(w http.ResponseWriter, r *http.Request) {
			raw, _ = io.ReadAll(r.Body)
			jsonResponse(200, `{"data": `+addressJSON+`}`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"addresses", "update", "add_01", "--customer", "ctm_01", "--status", "archived"})
		require.NoError(t, err)
	})
	assert.Equal(t, "Updated address add_01 (US)\n", output)
	assert.JSONEq(t, `{"status": "archived"}`, string(raw))
}
