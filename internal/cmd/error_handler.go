package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paddle-billing/paddle-cli/internal/api"
	"github.com/paddle-billing/paddle-cli/internal/config"
)

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder

	var apiErr *api.APIError
	var transportErr *api.TransportError
	var decodeErr *api.DecodeError

	switch {
	case errors.As(err, &apiErr):
		fmt.Fprintf(&msg, "%s\n\n", err.Error())
		msg.WriteString(suggestionsForAPIError(apiErr))
		if apiErr.DocumentationURL != "" {
			fmt.Fprintf(&msg, "\nDocs: %s\n", apiErr.DocumentationURL)
		}
		if apiErr.RequestID != "" {
			fmt.Fprintf(&msg, "Request ID: %s\n", apiErr.RequestID)
		}

	case errors.Is(err, config.ErrNotConfigured):
		msg.WriteString("No API key configured.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: paddle auth login --api-key <key>\n")
		msg.WriteString("  - Or set PADDLE_API_KEY\n")

	case errors.As(err, &transportErr):
		fmt.Fprintf(&msg, "Error: %s\n\n", transportErr.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check your network connection\n")
		msg.WriteString("  - Increase --timeout for slow connections\n")

	case errors.As(err, &decodeErr):
		fmt.Fprintf(&msg, "Error: %s\n\n", decodeErr.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - The API returned something other than JSON; retry later\n")
		msg.WriteString("  - Use --debug to see the request\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func suggestionsForAPIError(apiErr *api.APIError) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	switch exitCodeFromAPIError(apiErr) {
	case exitAuth:
		suggestions.WriteString("  - Your API key may be invalid or revoked\n")
		suggestions.WriteString("  - Sandbox keys only work with --sandbox\n")
		suggestions.WriteString("  - Run: paddle auth login --api-key <key>\n")

	case exitForbidden:
		suggestions.WriteString("  - The API key lacks a permission needed for this action\n")
		suggestions.WriteString("  - Check the key's permissions in the Paddle dashboard\n")

	case exitNotFound:
		suggestions.WriteString("  - Check the ID is correct\n")
		suggestions.WriteString("  - Check you are using the right environment (--sandbox)\n")

	case exitRateLimited:
		suggestions.WriteString("  - Wait a minute and retry\n")
		suggestions.WriteString("  - Lower --concurrency\n")

	case exitServer:
		suggestions.WriteString("  - Server error, not caused by your request\n")
		suggestions.WriteString("  - Wait and retry\n")

	case exitUsage:
		suggestions.WriteString("  - Check your request parameters\n")
		if len(apiErr.Fields) > 0 {
			suggestions.WriteString("  - Fix the fields listed above\n")
		}
		suggestions.WriteString("  - Use --dry-run to see the request body\n")

	default:
		suggestions.WriteString("  - Use --debug for more details\n")
	}

	return suggestions.String()
}
