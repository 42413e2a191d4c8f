package boxview

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"
)

const (
	// authScheme is the Authorization scheme the API expects:
	// "Authorization: Token <api-key>".
	authScheme = "Token"

	defaultUserAgent = "boxview-go/" + Version
)

// newHTTPClient layers auth and default headers on top of cfg.HTTPClient,
// or on top of the default transport chain when it is nil. cfg.HTTPClient is
// never modified.
func newHTTPClient(cfg Config, apiKey string, logger hclog.Logger) *http.Client {
	var client http.Client
	if cfg.HTTPClient != nil {
		client = *cfg.HTTPClient
		base := client.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		client.Transport = &headerTransport{base: base, header: cfg.Header}
	} else {
		client.Transport = &retryTransport{
			base:       &headerTransport{base: defaultTransport(), header: cfg.Header},
			maxRetries: cfg.MaxRetries,
			logger:     logger,
			newBackOff: newExponentialBackOff,
		}
	}
	if client.Timeout == 0 {
		client.Timeout = cfg.Timeout
	}

	client.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: apiKey,
			TokenType:   authScheme,
		}),
		Base: client.Transport,
	}
	if client.CheckRedirect == nil {
		client.CheckRedirect = redirectIdempotentOnly
	}
	return &client
}

func defaultTransport() http.RoundTripper {
	if t, ok := http.DefaultTransport.(*http.Transport); ok {
		return t.Clone()
	}
	return http.DefaultTransport
}

// redirectIdempotentOnly follows redirects for GET and HEAD only; any other
// method gets the redirect response back as-is.
func redirectIdempotentOnly(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return errors.New("stopped after 10 redirects")
	}
	switch via[0].Method {
	case http.MethodGet, http.MethodHead:
		return nil
	}
	return http.ErrUseLastResponse
}

// headerTransport fills in default headers the caller has not set.
type headerTransport struct {
	base   http.RoundTripper
	header http.Header
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", defaultUserAgent)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "*/*")
	}
	for k, vs := range t.header {
		if _, ok := req.Header[http.CanonicalHeaderKey(k)]; !ok {
			req.Header[http.CanonicalHeaderKey(k)] = vs
		}
	}
	return t.base.RoundTrip(req)
}

// retryTransport retries requests that failed before a response was
// received. Responses, whatever their status, are never retried. GET, HEAD
// and DELETE are retried on any transport error; other methods only when
// the connection could not be established, since the server may already
// have acted on them.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	logger     hclog.Logger
	newBackOff func() backoff.BackOff
}

func newExponentialBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	return b
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.maxRetries < 0 || (req.Body != nil && req.Body != http.NoBody && req.GetBody == nil) {
		return t.base.RoundTrip(req)
	}

	ctx := req.Context()
	attempt := 0
	var resp *http.Response
	op := func() error {
		r := req
		if attempt > 0 {
			r = req.Clone(ctx)
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return backoff.Permanent(err)
				}
				r.Body = body
			}
		}
		attempt++

		var err error
		resp, err = t.base.RoundTrip(r)
		if err != nil && (ctx.Err() != nil || !retryable(req.Method, err)) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(t.newBackOff(), uint64(t.maxRetries)), ctx)
	notify := func(err error, wait time.Duration) {
		t.logger.Warn("request failed, retrying",
			"method", req.Method,
			"url", req.URL.Redacted(),
			"attempt", attempt,
			"wait", wait,
			"error", err,
		)
	}
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return nil, err
	}
	return resp, nil
}

func retryable(method string, err error) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
