package interceptor

import (
	"unicode/utf8"

	"github.com/dctlabs/requestrouting/metrics"
	"github.com/sirupsen/logrus"
)

// compareResponses implements the Comparator: it has no return value
// and no effect on the client, it only logs and records a metric. The
// client has already received the legacy handler's response by the
// time this runs.
func compareResponses(original []byte, newBody string, m *metrics.Metrics) {
	var originalText string
	if len(original) > 0 {
		if !utf8.Valid(original) {
			logrus.Error("interceptor: captured original response is not valid UTF-8, skipping comparison")
			recordComparison(m, "decode_error")
			return
		}
		originalText = string(original)
	}

	originalEmpty := originalText == ""
	newEmpty := newBody == ""

	switch {
	case originalEmpty && newEmpty:
		logrus.Info("interceptor: Both responses are null/empty")
		recordComparison(m, "empty")
	case originalEmpty != newEmpty:
		logrus.Info("interceptor: One response is null/empty, the other is not")
		recordComparison(m, "one_empty")
	case originalText == newBody:
		logrus.Info("interceptor: Responses match.")
		recordComparison(m, "match")
	default:
		logrus.Info("interceptor: Responses DO NOT match.")
		recordComparison(m, "mismatch")
	}
}

func recordComparison(m *metrics.Metrics, result string) {
	if m == nil {
		return
	}
	m.Comparisons.WithLabelValues(result).Inc()
}
