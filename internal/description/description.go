// Package description fetches and parses UPnP device description documents,
// extracting the control endpoints a playback session needs.
package description

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"

	"github.com/seba2390/SymMediaStreamer/internal/domain"
)

const fetchTimeout = 5 * time.Second

var httpClient = &http.Client{
	Transport: cleanhttp.DefaultPooledTransport(),
	Timeout:   fetchTimeout,
}

type service struct {
	serviceType string
	controlURL  string
}

// Fetch retrieves the description document at location and extracts the
// friendly name and the AVTransport and RenderingControl control URLs.
// Network and HTTP failures come back as *domain.FetchError, document
// problems as *domain.ParseError.
func Fetch(ctx context.Context, location string) (domain.Description, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return domain.Description{}, &domain.FetchError{Location: location, Err: err}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return domain.Description{}, &domain.FetchError{Location: location, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Description{}, &domain.FetchError{
			Location: location,
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Description{}, &domain.FetchError{Location: location, Err: err}
	}

	desc, err := Parse(body, location)
	if err != nil {
		return domain.Description{}, err
	}
	return desc, nil
}

// Parse walks the description XML without binding to any namespace: vendors
// disagree on prefixes, so elements are matched by local name only. The
// first friendlyName and URLBase win; among duplicate services of the same
// class the last control URL wins.
func Parse(body []byte, location string) (domain.Description, error) {
	var (
		friendlyName string
		urlBase      string
		services     []service
		current      *service
		inService    bool
		field        string
	)

	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.Description{}, &domain.ParseError{Location: location, Err: err}
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "service":
				inService = true
				current = &service{}
			case "serviceType", "controlURL":
				if inService {
					field = el.Name.Local
				}
			case "friendlyName", "URLBase":
				field = el.Name.Local
			default:
				field = ""
			}
		case xml.CharData:
			text := strings.TrimSpace(string(el))
			if text == "" {
				break
			}
			switch field {
			case "friendlyName":
				if friendlyName == "" {
					friendlyName = text
				}
			case "URLBase":
				if urlBase == "" {
					urlBase = text
				}
			case "serviceType":
				if current != nil {
					current.serviceType = text
				}
			case "controlURL":
				if current != nil {
					current.controlURL = text
				}
			}
		case xml.EndElement:
			field = ""
			if el.Name.Local == "service" && current != nil {
				services = append(services, *current)
				current = nil
				inService = false
			}
		}
	}

	base, err := resolveBase(urlBase, location)
	if err != nil {
		return domain.Description{}, &domain.ParseError{Location: location, Err: err}
	}

	desc := domain.Description{FriendlyName: friendlyName}
	for _, svc := range services {
		ctrl, err := resolveControlURL(base, svc.controlURL)
		if err != nil || ctrl == "" {
			continue
		}
		switch {
		case strings.Contains(svc.serviceType, "AVTransport"):
			desc.AVTransportControlURL = ctrl
		case strings.Contains(svc.serviceType, "RenderingControl"):
			desc.RenderingControlControlURL = ctrl
		}
	}
	return desc, nil
}

// resolveBase prefers the document's URLBase element and falls back to the
// location the document was fetched from.
func resolveBase(urlBase, location string) (*url.URL, error) {
	if urlBase != "" {
		if u, err := url.Parse(urlBase); err == nil && u.IsAbs() {
			return u, nil
		}
	}
	return url.Parse(location)
}

func resolveControlURL(base *url.URL, control string) (string, error) {
	if control == "" {
		return "", nil
	}
	ref, err := url.Parse(control)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return control, nil
	}
	return base.ResolveReference(ref).String(), nil
}
