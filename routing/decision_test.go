package routing

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecide_invalidConfigAlwaysRO(t *testing.T) {
	cfg := Config{Valid: false, GetMode: RN, PostModes: map[string]Mode{"foo": RP}}
	req := httptest.NewRequest(http.MethodGet, "/dctserver.aspx", nil)

	if got := Decide(req, cfg); got != RO {
		t.Fatalf("expected RO for invalid config, got %v", got)
	}
}

func TestDecide_getUsesGetMode(t *testing.T) {
	cfg := Config{Valid: true, GetMode: RN}
	req := httptest.NewRequest(http.MethodGet, "/dctserver.aspx", nil)

	if got := Decide(req, cfg); got != RN {
		t.Fatalf("expected RN, got %v", got)
	}
}

func TestDecide_unsupportedMethodIsRO(t *testing.T) {
	cfg := Config{Valid: true, GetMode: RN}
	req := httptest.NewRequest(http.MethodDelete, "/dctserver.aspx", nil)

	if got := Decide(req, cfg); got != RO {
		t.Fatalf("expected RO for DELETE, got %v", got)
	}
}

func TestDecide_postEmptyModesIsRO(t *testing.T) {
	cfg := Config{Valid: true, PostModes: map[string]Mode{}}
	req := httptest.NewRequest(http.MethodPost, "/dctserver.aspx", strings.NewReader("<root><requests><Foo/></requests></root>"))

	if got := Decide(req, cfg); got != RO {
		t.Fatalf("expected RO when PostModes empty, got %v", got)
	}
}

func TestDecide_postEmptyBodyIsRO(t *testing.T) {
	cfg := Config{Valid: true, PostModes: map[string]Mode{"foo": RP}}
	req := httptest.NewRequest(http.MethodPost, "/dctserver.aspx", nil)

	if got := Decide(req, cfg); got != RO {
		t.Fatalf("expected RO for empty body, got %v", got)
	}
}

func TestDecide_malformedXMLIsRO(t *testing.T) {
	cfg := Config{Valid: true, PostModes: map[string]Mode{"foo": RP}}
	req := httptest.NewRequest(http.MethodPost, "/dctserver.aspx", strings.NewReader("not xml at all"))

	if got := Decide(req, cfg); got != RO {
		t.Fatalf("expected RO for malformed XML, got %v", got)
	}
}

func TestDecide_emptyRequestsElementIsRO(t *testing.T) {
	cfg := Config{Valid: true, PostModes: map[string]Mode{"foo": RP}}
	req := httptest.NewRequest(http.MethodPost, "/dctserver.aspx", strings.NewReader("<root><requests></requests></root>"))

	if got := Decide(req, cfg); got != RO {
		t.Fatalf("expected RO for empty requests element, got %v", got)
	}
}

func TestDecide_missingRequestsElementIsRO(t *testing.T) {
	cfg := Config{Valid: true, PostModes: map[string]Mode{"foo": RP}}
	req := httptest.NewRequest(http.MethodPost, "/dctserver.aspx", strings.NewReader("<root><other><Foo/></other></root>"))

	if got := Decide(req, cfg); got != RO {
		t.Fatalf("expected RO when root/requests absent, got %v", got)
	}
}

func TestDecide_firstMatchWinsInDocumentOrder(t *testing.T) {
	cfg := Config{Valid: true, PostModes: map[string]Mode{"a": RN, "b": RP}}
	req := httptest.NewRequest(http.MethodPost, "/dctserver.aspx", strings.NewReader("<root><requests><A/><B/></requests></root>"))

	if got := Decide(req, cfg); got != RN {
		t.Fatalf("expected first-match A -> RN, got %v", got)
	}
}

func TestDecide_caseInsensitiveLocalNameMatch(t *testing.T) {
	cfg := Config{Valid: true, PostModes: map[string]Mode{"foo": RP}}
	req := httptest.NewRequest(http.MethodPost, "/dctserver.aspx", strings.NewReader("<root><requests><FOO/></requests></root>"))

	if got := Decide(req, cfg); got != RP {
		t.Fatalf("expected case-insensitive match to RP, got %v", got)
	}
}

func TestDecide_unmatchedChildrenIsRO(t *testing.T) {
	cfg := Config{Valid: true, PostModes: map[string]Mode{"foo": RP}}
	req := httptest.NewRequest(http.MethodPost, "/dctserver.aspx", strings.NewReader("<root><requests><Bar/><Baz/></requests></root>"))

	if got := Decide(req, cfg); got != RO {
		t.Fatalf("expected RO for no matching child, got %v", got)
	}
}

func TestDecide_namespacesIgnored(t *testing.T) {
	cfg := Config{Valid: true, PostModes: map[string]Mode{"foo": RN}}
	req := httptest.NewRequest(http.MethodPost, "/dctserver.aspx", strings.NewReader(
		`<root xmlns:ns="urn:example"><requests><ns:Foo/></requests></root>`))

	if got := Decide(req, cfg); got != RN {
		t.Fatalf("expected namespaced Foo to match local name, got %v", got)
	}
}

func TestDecide_bodyIsRewoundForDownstream(t *testing.T) {
	cfg := Config{Valid: true, PostModes: map[string]Mode{"foo": RP}}
	body := "<root><requests><Foo/></requests></root>"
	req := httptest.NewRequest(http.MethodPost, "/dctserver.aspx", strings.NewReader(body))

	Decide(req, cfg)

	data := ReadBody(req)
	if string(data) != body {
		t.Fatalf("expected body to remain readable after Decide, got %q", data)
	}
}
