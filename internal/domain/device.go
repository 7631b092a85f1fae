package domain

import "strings"

// Device is a single SSDP discovery hit. It lives only for the duration of
// one discovery pass and is never persisted.
type Device struct {
	// Location is the URL of the device description document.
	Location string
	// SearchTarget is the ST header value that produced this match.
	SearchTarget string
	// USN is the unique service name: a root device UUID, optionally followed
	// by "::" and a device or service type.
	USN string
	// Server is the advertised server string, informational only.
	Server string
}

// RootUUID returns the USN portion before the first "::" separator.
func (d Device) RootUUID() string {
	uuid, _, _ := strings.Cut(d.USN, "::")
	return uuid
}

// Description holds what we need from a UPnP device description document.
// Immutable once constructed; control URLs are absolute or empty.
type Description struct {
	FriendlyName               string
	AVTransportControlURL      string
	RenderingControlControlURL string
}

// HasAVTransport reports whether the device exposes an AVTransport service.
func (d Description) HasAVTransport() bool {
	return d.AVTransportControlURL != ""
}
