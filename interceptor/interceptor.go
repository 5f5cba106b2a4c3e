// Package interceptor implements the per-request hook that decides,
// for each request to the legacy XML endpoint, whether to let it
// through unchanged, replace it with the new service's response, or
// shadow it for asynchronous comparison.
package interceptor

import (
	"context"
	"net/http"
	"strings"

	"github.com/dctlabs/requestrouting/capture"
	"github.com/dctlabs/requestrouting/forwarder"
	"github.com/dctlabs/requestrouting/metrics"
	"github.com/dctlabs/requestrouting/routing"
	"github.com/sirupsen/logrus"
)

// InterceptedPath is the single fixed path this module acts on; the
// core does not generalize to a route table.
const InterceptedPath = "/dctserver.aspx"

// shadowState is the per-request state that exists only for the
// lifetime of an RP request, owned entirely by the interceptor.
type shadowState struct {
	cancel   context.CancelFunc
	resultCh chan *forwarder.Response
}

// Interceptor orchestrates the decision, forwarding, capture, and
// comparison steps. It holds no per-request mutable state outside the
// request-scoped shadowState, so a single Interceptor is safe to use
// concurrently across many requests.
type Interceptor struct {
	source  routing.Source
	fwd     *forwarder.Forwarder
	metrics *metrics.Metrics
}

// New builds an Interceptor. source supplies the routing configuration
// snapshot, fwd issues outbound calls to the new service, and m (may
// be nil) records counters alongside the log lines.
func New(source routing.Source, fwd *forwarder.Forwarder, m *metrics.Metrics) *Interceptor {
	return &Interceptor{source: source, fwd: fwd, metrics: m}
}

// Wrap adapts the Interceptor into net/http middleware in front of the
// legacy handler, combining on_request_mapped and on_request_end into
// a single ServeHTTP call the way a Go reverse proxy naturally would.
func (i *Interceptor) Wrap(legacy http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, completed := i.onRequestMapped(w, r)
		if completed {
			return
		}

		if state == nil {
			legacy.ServeHTTP(w, r)
			return
		}

		rec := capture.New(w)
		legacy.ServeHTTP(rec, r)
		i.onRequestEnd(state, rec)
	})
}

// onRequestMapped returns (nil, false) for RO and for any bypass/no-op
// case, in which case the caller must run the legacy handler normally.
// It returns (state, false) for RP, where state must be passed to
// onRequestEnd once the legacy handler has produced its response. It
// returns (nil, true) for RN, having already written the complete
// response to w itself.
func (i *Interceptor) onRequestMapped(w http.ResponseWriter, r *http.Request) (st *shadowState, completed bool) {
	defer func() {
		if rec := recover(); rec != nil {
			logrus.Errorf("interceptor: unexpected panic handling request: %v", rec)
			http.Error(w, "Error routing request", http.StatusInternalServerError)
			st, completed = nil, true
		}
	}()

	if strings.EqualFold(r.Header.Get(forwarder.ForwardedHeader), "true") {
		return nil, false
	}

	if !strings.EqualFold(r.URL.Path, InterceptedPath) {
		return nil, false
	}

	ensureCorrelationID(r)

	cfg := routing.Load(i.source)
	mode := routing.Decide(r, cfg)
	i.recordDecision(mode)

	switch mode {
	case routing.RO:
		return nil, false
	case routing.RN:
		i.handleRouteNew(w, r, cfg)
		return nil, true
	case routing.RP:
		return i.handleRunParallel(r, cfg), false
	default:
		return nil, false
	}
}

func (i *Interceptor) handleRouteNew(w http.ResponseWriter, r *http.Request, cfg routing.Config) {
	body := routing.ReadBody(r)

	resp := i.fwd.ForwardSync(cfg.NewServiceURL, r.Method, r.Header, r.Header.Get("Content-Type"), body)
	if resp == nil {
		i.recordForwardFailure()
		http.Error(w, "Error contacting backend service", http.StatusServiceUnavailable)
		return
	}

	copyResponse(w, resp)
}

func (i *Interceptor) handleRunParallel(r *http.Request, cfg routing.Config) *shadowState {
	body := routing.ReadBody(r)
	headers := r.Header.Clone()
	contentType := r.Header.Get("Content-Type")
	method := r.Method
	url := cfg.NewServiceURL

	ctx, cancel := context.WithCancel(context.Background())
	st := &shadowState{
		cancel:   cancel,
		resultCh: make(chan *forwarder.Response, 1),
	}

	go func() {
		resp := i.fwd.ForwardAsync(ctx, url, method, headers, contentType, body)
		if resp == nil && ctx.Err() == nil {
			i.recordForwardFailure()
		}
		st.resultCh <- resp
	}()

	return st
}

// onRequestEnd runs only for RP requests. It always triggers
// cancellation and always disposes state; it only performs the
// comparison when the shadow task had already produced a result.
func (i *Interceptor) onRequestEnd(st *shadowState, rec *capture.Recorder) {
	defer st.cancel()

	select {
	case resp := <-st.resultCh:
		if resp == nil {
			return
		}
		compareResponses(rec.CapturedBytes(), string(resp.Body), i.metrics)
	default:
		// shadow still running or result already consumed; never block.
	}
}

func (i *Interceptor) recordDecision(mode routing.Mode) {
	if i.metrics == nil {
		return
	}
	i.metrics.Decisions.WithLabelValues(mode.String()).Inc()
}

func (i *Interceptor) recordForwardFailure() {
	if i.metrics == nil {
		return
	}
	i.metrics.ForwardFailures.WithLabelValues(InterceptedPath).Inc()
}
