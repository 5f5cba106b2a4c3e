package routing

import (
	"bytes"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

// ReadBody reads the entire request body into memory and rewinds the
// request so that req.Body reads from offset 0 again for whichever
// handler runs next (the Decision Engine itself, and/or the legacy
// handler). It returns nil if the body is absent, empty, or fails to
// read; it never returns an error to the caller, per the Body Buffer
// contract (I/O failures are logged and treated as "no body").
func ReadBody(req *http.Request) []byte {
	if req.Body == nil || req.Body == http.NoBody {
		return nil
	}

	data, err := io.ReadAll(req.Body)
	req.Body.Close()

	// Always leave the request with a fresh, rewound reader, even on
	// a partial read, so downstream consumers never see a closed body.
	req.Body = io.NopCloser(bytes.NewReader(data))
	req.ContentLength = int64(len(data))

	if err != nil {
		logrus.Errorf("routing: failed to read request body: %v", err)
		return nil
	}

	if len(data) == 0 {
		return nil
	}

	return data
}
