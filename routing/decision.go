package routing

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// requestsElement is the local name of the element whose direct
// children carry the request-type names matched against PostModes.
const requestsElement = "requests"

// Decide is a pure function of method, the request (read only for its
// body and method), and the configuration snapshot. It never mutates
// config and always rewinds the request body before returning, so it
// can be called ahead of the legacy handler without consuming state
// the handler still needs.
func Decide(req *http.Request, cfg Config) Mode {
	if !cfg.Valid {
		return RO
	}

	method := strings.ToUpper(req.Method)

	switch method {
	case http.MethodGet:
		return cfg.GetMode
	case http.MethodPost:
		return decidePost(req, cfg)
	default:
		return RO
	}
}

func decidePost(req *http.Request, cfg Config) Mode {
	if len(cfg.PostModes) == 0 {
		return RO
	}

	body := ReadBody(req)
	if len(body) == 0 {
		logrus.Info("routing: POST body empty, defaulting to RO")
		return RO
	}

	if !utf8.Valid(body) {
		logrus.Error("routing: POST body is not valid UTF-8, defaulting to RO")
		return RO
	}

	name, ok := firstMatchingRequestType(body, cfg.PostModes)
	if !ok {
		return RO
	}

	return cfg.PostModes[name]
}

// firstMatchingRequestType walks root/requests' direct children in
// document order, ignoring namespaces, and returns the local name of
// the first child whose lower-cased local name is a key in modes.
func firstMatchingRequestType(body []byte, modes map[string]Mode) (string, bool) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var depth int
	var inRequests bool
	var requestsDepth int

	for {
		tok, err := dec.Token()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logrus.Errorf("routing: failed to parse POST body as XML: %v", err)
			}
			return "", false
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if !inRequests && depth == 2 && strings.EqualFold(t.Name.Local, requestsElement) {
				inRequests = true
				requestsDepth = depth
				continue
			}

			if inRequests && depth == requestsDepth+1 {
				name := strings.ToLower(t.Name.Local)
				if _, ok := modes[name]; ok {
					return name, true
				}
			}
		case xml.EndElement:
			if inRequests && depth == requestsDepth {
				// requests element closed with no match found
				return "", false
			}
			depth--
		}
	}
}
