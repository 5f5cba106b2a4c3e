package interceptor

import (
	"net/http"

	"github.com/google/uuid"
)

// CorrelationHeader carries a per-request id on the intercepted
// request. Because the header is copied onto forwarded requests, the
// legacy handler and the new service see the same id; the module's own
// log lines, including the comparison result, do not include it. This
// is a supplemental feature, not part of the routing decision itself.
const CorrelationHeader = "X-Request-Routing-Id"

// ensureCorrelationID stamps req with a correlation id if it doesn't
// already carry one.
func ensureCorrelationID(req *http.Request) string {
	if id := req.Header.Get(CorrelationHeader); id != "" {
		return id
	}
	id := uuid.NewString()
	req.Header.Set(CorrelationHeader, id)
	return id
}
