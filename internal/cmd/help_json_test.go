package cmd

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpJSON(t *testing.T) {
	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"prices", "create", "--help-json"}))
	})

	var doc commandDoc
	require.NoError(t, json.Unmarshal([]byte(output), &doc))
	assert.Equal(t, "paddle prices create", doc.Path)

	byName := make(map[string]flagDoc)
	for _, f := range doc.Flags {
		byName[f.Name] = f
	}
	require.Contains(t, byName, "product")
	assert.Equal(t, []string{"product-id"}, byName["product"].Aliases)
	assert.Equal(t, []string{"desc"}, byName["description"].Aliases)
	assert.Equal(t, "USD", byName["currency"].Default)
	assert.True(t, byName["sandbox"].Inherited)
	assert.NotContains(t, byName, "product-id")
	assert.NotContains(t, byName, "help")
}

func TestHelpJSON_RequiredFlagsAndSubcommands(t *testing.T) {
	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"addresses", "list", "--help-json=true"}))
	})
	var doc commandDoc
	require.NoError(t, json.Unmarshal([]byte(output), &doc))
	for _, f := range doc.Flags {
		if f.Name == "customer" {
			assert.True(t, f.Required)
		}
	}

	output = captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"--help-json"}))
	})
	doc = commandDoc{}
	require.NoError(t, json.Unmarshal([]byte(output), &doc))
	var names []string
	for _, s := range doc.Subcommands {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "products")
	assert.Contains(t, names, "businesses")
	assert.NotContains(t, names, "completion")
}

func TestHelpJSONTarget(t *testing.T) {
	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"nonsense", "--help-json"}))
	})
	var doc commandDoc
	require.NoError(t, json.Unmarshal([]byte(output), &doc))
	assert.Equal(t, "paddle", doc.Path)

	output = captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"version", "--help-json=false"}))
	})
	assert.Contains(t, output, "paddle-cli version")
}

func TestStripHelpJSON(t *testing.T) {
	tests := []struct {
		args []string
		rest []string
		want bool
	}{
		{[]string{"products", "--help-json"}, []string{"products"}, true},
		{[]string{"--help-json=1", "prices", "list"}, []string{"prices", "list"}, true},
		{[]string{"products", "--help-json=no"}, []string{"products"}, false},
		{[]string{"products", "list", "--json"}, []string{"products", "list", "--json"}, false},
	}
	for _, tt := range tests {
		rest, want := stripHelpJSON(tt.args)
		assert.Equal(t, tt.rest, rest)
		assert.Equal(t, tt.want, want)
	}
}
