package api

import "context"

// Requester is the request surface resource helpers depend on. *Client
// implements it; tests can substitute a recorder to check the descriptor a
// helper builds without any HTTP traffic.
type Requester interface {
	// Send performs r and decodes the JSON response into out.
	Send(ctx context.Context, r Request, out any) error
}
