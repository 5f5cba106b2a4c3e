package interceptor

import (
	"net/http"
	"strings"

	"github.com/dctlabs/requestrouting/forwarder"
	"github.com/sirupsen/logrus"
)

// excludedResponseHeaders are never mirrored onto the outgoing
// response; Content-Type is mirrored explicitly below instead.
var excludedResponseHeaders = map[string]struct{}{
	"transfer-encoding": {},
	"server":            {},
	"x-powered-by":      {},
}

// copyResponse mirrors an upstream Response onto the host's outgoing
// response: status, Content-Type, and every other header except the
// excluded set. Multi-valued headers are joined with a comma, which
// can mangle headers whose grammar is not list-based (e.g. Set-Cookie);
// kept as-is rather than silently special-cased.
func copyResponse(w http.ResponseWriter, resp *forwarder.Response) {
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}

	for name, values := range resp.Header {
		if strings.EqualFold(name, "Content-Type") {
			continue
		}
		if _, skip := excludedResponseHeaders[strings.ToLower(name)]; skip {
			continue
		}
		w.Header().Set(name, strings.Join(values, ","))
	}

	w.WriteHeader(resp.StatusCode)

	if len(resp.Body) == 0 {
		return
	}

	if _, err := w.Write(resp.Body); err != nil {
		logrus.Errorf("interceptor: failed to write response body to client: %v", err)
	}
}
