package cmd

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/spf13/pflag"

	"github.com/paddle-billing/paddle-cli/internal/api"
	"github.com/paddle-billing/paddle-cli/internal/config"
)

const (
	exitOK          = 0
	exitGeneric     = 1
	exitUsage       = 2
	exitAuth        = 3
	exitNotFound    = 4
	exitForbidden   = 5
	exitRateLimited = 6
	exitServer      = 7
	exitNetwork     = 8
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	var handled *handledError
	if errors.As(err, &handled) {
		if handled.exitCode != 0 {
			return handled.exitCode
		}
		err = handled.err
	}

	if code := exitCodeFromAPIError(err); code != 0 {
		return code
	}
	if errors.Is(err, config.ErrNotConfigured) {
		return exitAuth
	}
	var decodeErr *api.DecodeError
	if errors.As(err, &decodeErr) {
		if decodeErr.StatusCode >= 500 {
			return exitServer
		}
		return exitGeneric
	}
	if isNetworkError(err) {
		return exitNetwork
	}
	if isUsageError(err) {
		return exitUsage
	}
	return exitGeneric
}

func exitCodeFromAPIError(err error) int {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		return 0
	}
	switch {
	case strings.HasPrefix(apiErr.Code, "authentication_"), apiErr.Code == "invalid_token":
		return exitAuth
	case apiErr.Code == "forbidden":
		return exitForbidden
	case api.IsNotFoundError(apiErr):
		return exitNotFound
	case apiErr.Code == "too_many_requests":
		return exitRateLimited
	case apiErr.Type == "api_error", apiErr.Code == "internal_error", apiErr.Code == "service_unavailable":
		return exitServer
	case apiErr.Code == "bad_request", apiErr.Code == "invalid_field", apiErr.Code == "invalid_json":
		return exitUsage
	default:
		return exitGeneric
	}
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if api.IsTransportError(err) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func isUsageError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	indicators := []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"flag provided but not defined",
		"requires at least",
		"requires exactly",
		"accepts at most",
		"accepts between",
		"invalid argument",
		"invalid --",
		"invalid value",
		"unknown relation",
		"must be",
		"is required",
		"required flag",
		"if any flags in the group",
		"conflicts with",
		"--jq/--query require",
		"missing",
	}
	for _, indicator := range indicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
