// Package capture implements the Capture Filter: a transparent
// tee over an http.ResponseWriter that accumulates everything written
// to it while passing every byte through to the real client unchanged.
package capture

import (
	"bytes"
	"net/http"
)

// Recorder wraps an http.ResponseWriter, copying every body byte into
// an in-memory buffer while still delivering it to the underlying
// writer untouched. Headers and status are passed through but not
// captured. Reading CapturedBytes never
// alters, delays, or truncates what the client receives.
type Recorder struct {
	http.ResponseWriter
	buf         bytes.Buffer
	wroteHeader bool
}

// New installs a Recorder over w.
func New(w http.ResponseWriter) *Recorder {
	return &Recorder{ResponseWriter: w}
}

// Write tees b into the capture buffer and the real response.
func (r *Recorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

// WriteHeader only forwards status; response headers for the legacy
// path are whatever the legacy handler already set on the real writer,
// they are not reconstructed from the capture buffer.
func (r *Recorder) WriteHeader(status int) {
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(status)
}

// CapturedBytes returns every byte written to the response so far. The
// returned slice is a copy; callers must not mutate the Recorder's
// internal buffer.
func (r *Recorder) CapturedBytes() []byte {
	out := make([]byte, r.buf.Len())
	copy(out, r.buf.Bytes())
	return out
}
