// Package soapcalls speaks SOAP to UPnP AVTransport and RenderingControl
// endpoints: envelope construction, action invocation and the small pieces
// of XML and DIDL-Lite plumbing around them.
package soapcalls

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"

	"github.com/seba2390/SymMediaStreamer/internal/domain"
)

const (
	callTimeout    = 10 * time.Second
	snippetMaxSize = 200
)

// Arg is one ordered argument inside a SOAP action body. Values are escaped
// at envelope build time, so callers pass raw text (or pre-built XML via
// RawArg).
type Arg struct {
	Name  string
	Value string
	// Raw marks Value as already-escaped XML to embed verbatim.
	Raw bool
}

func RawArg(name, value string) Arg { return Arg{Name: name, Value: value, Raw: true} }

// Client invokes actions of one UPnP service at one control endpoint.
type Client struct {
	endpoint    string
	serviceType string
	httpClient  *http.Client
}

// NewClient validates the control URL once; Invoke reuses the parsed form.
// Some renderers reset pooled connections between calls, so every request
// rides a fresh connection.
func NewClient(controlURL, serviceType string) (*Client, error) {
	u, err := url.Parse(controlURL)
	if err != nil {
		return nil, fmt.Errorf("control url %q: %w", controlURL, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("control url %q: not absolute", controlURL)
	}

	transport := cleanhttp.DefaultTransport()
	transport.DisableKeepAlives = true

	return &Client{
		endpoint:    u.String(),
		serviceType: serviceType,
		httpClient:  &http.Client{Transport: transport, Timeout: callTimeout},
	}, nil
}

func (c *Client) Endpoint() string { return c.endpoint }

// Invoke posts one SOAP action and returns the raw response body. Any status
// of 400 or above becomes a *domain.ControlError carrying the leading bytes
// of the device's fault document.
func (c *Client) Invoke(ctx context.Context, action string, args []Arg) (string, error) {
	envelope := c.buildEnvelope(action, args)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(envelope))
	if err != nil {
		return "", &domain.ControlError{Action: action, Err: err}
	}
	req.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	// assigned directly: Set would canonicalize to "Soapaction" on the
	// wire, and some renderers match the header name literally
	req.Header["SOAPACTION"] = []string{fmt.Sprintf("%q", c.serviceType+"#"+action)}
	req.Header.Set("Connection", "close")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.ControlError{Action: action, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.ControlError{Action: action, Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return "", &domain.ControlError{
			Action:     action,
			StatusCode: resp.StatusCode,
			Snippet:    snippet(body),
		}
	}
	return string(body), nil
}

func (c *Client) buildEnvelope(action string, args []Arg) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
	b.WriteString(`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" `)
	b.WriteString(`s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">`)
	b.WriteString(`<s:Body>`)
	fmt.Fprintf(&b, `<u:%s xmlns:u="%s">`, action, c.serviceType)
	for _, arg := range args {
		value := arg.Value
		if !arg.Raw {
			value = Escape(value)
		}
		fmt.Fprintf(&b, "<%s>%s</%s>", arg.Name, value, arg.Name)
	}
	fmt.Fprintf(&b, `</u:%s>`, action)
	b.WriteString(`</s:Body></s:Envelope>`)
	return b.String()
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > snippetMaxSize {
		s = s[:snippetMaxSize]
	}
	return s
}
