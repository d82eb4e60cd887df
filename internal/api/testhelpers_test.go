package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// handlerDoer serves requests in-process through an http.Handler.
type handlerDoer struct {
	handler http.Handler
}

func (d handlerDoer) Do(req *http.Request) (*http.Response, error) {
	rec := httptest.NewRecorder()
	d.handler.ServeHTTP(rec, req)
	return rec.Result(), nil
}

// serverDoer forwards requests to a test server, keeping path and query.
type serverDoer struct {
	server *httptest.Server
}

func (d serverDoer) Do(req *http.Request) (*http.Response, error) {
	target, err := url.Parse(d.server.URL)
	if err != nil {
		return nil, err
	}
	out := req.Clone(req.Context())
	out.URL.Scheme = target.Scheme
	out.URL.Host = target.Host
	out.Host = target.Host
	out.RequestURI = ""
	return d.server.Client().Do(out)
}

// newTestClient returns a client whose transport is served by handler.
func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithHTTPClient(handlerDoer{handler: handler})}, opts...)
	return New("test-key", opts...)
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// recordingRequester captures request descriptors without sending them.
type recordingRequester struct {
	mu       sync.Mutex
	requests []Request
	response string
}

func (r *recordingRequester) Send(_ context.Context, req Request, out any) error {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()
	body := r.response
	if body == "" {
		body = `{"data":{},"meta":{"request_id":"req_1"}}`
	}
	return json.Unmarshal([]byte(body), out)
}

func (r *recordingRequester) last() Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.requests) == 0 {
		return Request{}
	}
	return r.requests[len(r.requests)-1]
}
