package forwarder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardSync_success(t *testing.T) {
	var gotHost, gotConn, gotForwarded string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Header.Get("Host")
		gotConn = r.Header.Get("Connection")
		gotForwarded = r.Header.Get(ForwardedHeader)
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<ok/>"))
	}))
	defer srv.Close()

	f := New(srv.Client())
	headers := http.Header{
		"Host":           {"should-not-forward"},
		"Connection":     {"keep-alive"},
		"Content-Length": {"999"},
		"X-Custom":       {"keep-me"},
	}

	resp := f.ForwardSync(srv.URL, http.MethodGet, headers, "", nil)

	require.NotNil(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<ok/>", string(resp.Body))
	assert.Equal(t, "application/xml", resp.Header.Get("Content-Type"))
	assert.Equal(t, "true", gotForwarded)
	assert.Empty(t, gotHost)
	assert.Empty(t, gotConn)
}

func TestForwardSync_transportFailureReturnsNil(t *testing.T) {
	f := New(http.DefaultClient)
	resp := f.ForwardSync("http://127.0.0.1:1", http.MethodGet, http.Header{}, "", nil)
	assert.Nil(t, resp)
}

func TestForwardSync_postBodyAndContentType(t *testing.T) {
	var gotBody []byte
	var gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = buf
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := New(srv.Client())
	resp := f.ForwardSync(srv.URL, http.MethodPost, http.Header{}, "application/xml; charset=utf-8", []byte("<x/>"))

	require.NotNil(t, resp)
	assert.Equal(t, "application/xml; charset=utf-8", gotCT)
	assert.Equal(t, "<x/>", string(gotBody))
}

func TestForwardSync_invalidContentTypeOmitted(t *testing.T) {
	var sawCT bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawCT = r.Header["Content-Type"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := New(srv.Client())
	resp := f.ForwardSync(srv.URL, http.MethodPost, http.Header{}, "not a content type;;;===", []byte("<x/>"))

	require.NotNil(t, resp)
	assert.False(t, sawCT)
}

func TestForwardAsync_cancellation(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer wg.Done()
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	f := New(srv.Client())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan *Response, 1)
	go func() {
		done <- f.ForwardAsync(ctx, srv.URL, http.MethodGet, http.Header{}, "", nil)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case resp := <-done:
		assert.Nil(t, resp)
	case <-time.After(2 * time.Second):
		t.Fatal("ForwardAsync did not observe cancellation in time")
	}
}
