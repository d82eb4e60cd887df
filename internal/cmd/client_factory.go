package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/paddle-billing/paddle-cli/internal/api"
	"github.com/paddle-billing/paddle-cli/internal/config"
	"github.com/paddle-billing/paddle-cli/internal/dryrun"
	"github.com/paddle-billing/paddle-cli/internal/iocontext"
	"github.com/paddle-billing/paddle-cli/internal/outfmt"
)

// newHTTPDoer returns the transport for API clients. A nil Doer selects the
// client's default transport. Tests replace it to reach an httptest server.
var newHTTPDoer = func(timeout time.Duration) api.Doer {
	return nil
}

type clientFactory struct {
	timeout   time.Duration
	userAgent string
	profile   string
	sandbox   bool
	dryRun    bool
	streams   *iocontext.IO
	json      bool
}

func newClientFactory(cmd *cobra.Command) *clientFactory {
	ctx := cmdContext(cmd)
	return &clientFactory{
		timeout:   flags.Timeout,
		userAgent: fmt.Sprintf("paddle-cli/%s", version),
		profile:   flags.Profile,
		sandbox:   flags.Sandbox,
		dryRun:    dryrun.IsEnabled(ctx),
		streams:   iocontext.GetIO(ctx),
		json:      outfmt.IsJSON(ctx),
	}
}

// client builds a client from the resolved credentials.
func (f *clientFactory) client() (*api.Client, error) {
	creds, err := config.Resolve(f.profile)
	if err != nil {
		return nil, err
	}
	return f.newClient(creds.APIKey, creds.Sandbox), nil
}

// newClient builds a client for an explicit key. --sandbox always wins over
// the stored environment.
func (f *clientFactory) newClient(apiKey string, sandbox bool) *api.Client {
	opts := []api.Option{
		api.WithSandbox(sandbox || f.sandbox),
		api.WithUserAgent(f.userAgent),
	}
	if f.timeout > 0 {
		opts = append(opts, api.WithTimeout(f.timeout))
	}
	if f.dryRun {
		opts = append(opts, api.WithHTTPClient(dryrun.Transport{Out: f.streams.Out, JSON: f.json}))
	} else if doer := newHTTPDoer(f.timeout); doer != nil {
		opts = append(opts, api.WithHTTPClient(doer))
	}
	return api.New(apiKey, opts...)
}
