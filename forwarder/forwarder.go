// Package forwarder builds and sends the outbound HTTP requests the
// interceptor issues against the new backend service, for both the
// synchronous RN path and the cancellable RP shadow path.
package forwarder

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Timeout is the fixed per-call overall timeout applied to every
// forwarded request, independent of any caller-supplied cancellation.
const Timeout = 10 * time.Second

// ForwardedHeader marks every outbound request this module issues, and
// is checked on inbound requests as the loop-break signal.
const ForwardedHeader = "X-RequestRouting-Forwarded"

// excludedHeaders are never copied onto the outbound request; they are
// either connection-specific or re-derived explicitly (Content-Type).
var excludedHeaders = map[string]struct{}{
	"host":              {},
	"connection":        {},
	"content-length":    {},
	"expect":            {},
	"transfer-encoding": {},
	"content-type":      {},
}

// Response is the outcome of a forwarded call, already drained into
// memory so callers never have to manage a live connection.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// Forwarder sends requests to the new service using a single shared,
// process-wide *http.Client, safe for concurrent use across requests.
type Forwarder struct {
	client *http.Client
}

// New wraps client for use as a Forwarder. Passing nil builds a fresh
// zero-value http.Client.
func New(client *http.Client) *Forwarder {
	if client == nil {
		client = &http.Client{}
	}
	return &Forwarder{client: client}
}

// ForwardSync builds and sends a request, blocking until it completes
// or the fixed timeout elapses. It never returns an error: transport
// failures and timeouts are logged and reported as a nil Response.
func (f *Forwarder) ForwardSync(url, method string, headers http.Header, contentType string, body []byte) *Response {
	return f.forward(context.Background(), url, method, headers, contentType, body)
}

// ForwardAsync is identical to ForwardSync but also aborts in flight
// when ctx is cancelled, both at dispatch and while draining the
// response body (the http transport ties body reads to ctx as well).
func (f *Forwarder) ForwardAsync(ctx context.Context, url, method string, headers http.Header, contentType string, body []byte) *Response {
	return f.forward(ctx, url, method, headers, contentType, body)
}

func (f *Forwarder) forward(parent context.Context, url, method string, headers http.Header, contentType string, body []byte) *Response {
	ctx, cancel := context.WithTimeout(parent, Timeout)
	defer cancel()

	var reqBody io.Reader
	attachBody := len(body) > 0 && (method == http.MethodPost || method == http.MethodPut)
	if attachBody {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		logrus.Errorf("forwarder: failed to build request for %s %s: %v", method, url, err)
		return nil
	}

	req.Header.Set(ForwardedHeader, "true")
	copyHeaders(req.Header, headers)

	if attachBody {
		if _, _, err := mime.ParseMediaType(contentType); err != nil {
			logrus.Errorf("forwarder: invalid content-type %q, omitting: %v", contentType, err)
		} else {
			req.Header.Set("Content-Type", contentType)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() == context.Canceled {
			logrus.Info("forwarder: request cancelled")
		} else {
			logrus.Errorf("forwarder: request to %s failed: %v", url, err)
		}
		return nil
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() == context.Canceled {
			logrus.Info("forwarder: response read cancelled")
		} else {
			logrus.Errorf("forwarder: failed to read response from %s: %v", url, err)
		}
		return nil
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       data,
	}
}

func copyHeaders(dst, src http.Header) {
	for name, values := range src {
		if _, skip := excludedHeaders[strings.ToLower(name)]; skip {
			continue
		}
		for _, v := range values {
			if v == "" {
				continue
			}
			dst.Add(name, v)
		}
	}
}
