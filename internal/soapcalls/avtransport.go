package soapcalls

import (
	"context"
	"errors"
	"time"

	"github.com/seba2390/SymMediaStreamer/internal/domain"
)

const avTransportService = "urn:schemas-upnp-org:service:AVTransport:1"

// AVTransport drives the playback engine of one renderer. All actions
// address instance 0, the only instance non-exotic renderers expose.
type AVTransport struct {
	client *Client
}

func NewAVTransport(controlURL string) (*AVTransport, error) {
	client, err := NewClient(controlURL, avTransportService)
	if err != nil {
		return nil, err
	}
	return &AVTransport{client: client}, nil
}

// SetURIWithMetadata loads mediaURL on the renderer with DIDL-Lite metadata
// built from title and mimeType. Renderers that reject the metadata get
// exactly one retry with an empty CurrentURIMetaData; any other failure is
// returned as-is.
func (t *AVTransport) SetURIWithMetadata(ctx context.Context, mediaURL, title, mimeType string) error {
	if mimeType == "" {
		mimeType = "video/mp4"
	}
	didl := BuildDIDL(mediaURL, title, mimeType)

	err := t.setURI(ctx, mediaURL, didl)
	if err == nil {
		return nil
	}
	var cerr *domain.ControlError
	if !errors.As(err, &cerr) {
		return err
	}
	return t.setURI(ctx, mediaURL, "")
}

func (t *AVTransport) setURI(ctx context.Context, mediaURL, metadata string) error {
	_, err := t.client.Invoke(ctx, "SetAVTransportURI", []Arg{
		{Name: "InstanceID", Value: "0"},
		{Name: "CurrentURI", Value: mediaURL},
		{Name: "CurrentURIMetaData", Value: metadata},
	})
	return err
}

func (t *AVTransport) Play(ctx context.Context) error {
	_, err := t.client.Invoke(ctx, "Play", []Arg{
		{Name: "InstanceID", Value: "0"},
		{Name: "Speed", Value: "1"},
	})
	return err
}

func (t *AVTransport) Pause(ctx context.Context) error {
	_, err := t.client.Invoke(ctx, "Pause", []Arg{
		{Name: "InstanceID", Value: "0"},
	})
	return err
}

func (t *AVTransport) Stop(ctx context.Context) error {
	_, err := t.client.Invoke(ctx, "Stop", []Arg{
		{Name: "InstanceID", Value: "0"},
	})
	return err
}

// Seek jumps to an absolute position using the REL_TIME unit.
func (t *AVTransport) Seek(ctx context.Context, position time.Duration) error {
	_, err := t.client.Invoke(ctx, "Seek", []Arg{
		{Name: "InstanceID", Value: "0"},
		{Name: "Unit", Value: "REL_TIME"},
		{Name: "Target", Value: FormatClock(position)},
	})
	return err
}

// GetPositionInfo returns the raw response body; callers pick fields out
// with ExtractTag.
func (t *AVTransport) GetPositionInfo(ctx context.Context) (string, error) {
	return t.client.Invoke(ctx, "GetPositionInfo", []Arg{
		{Name: "InstanceID", Value: "0"},
	})
}

func (t *AVTransport) GetMediaInfo(ctx context.Context) (string, error) {
	return t.client.Invoke(ctx, "GetMediaInfo", []Arg{
		{Name: "InstanceID", Value: "0"},
	})
}

func (t *AVTransport) GetTransportInfo(ctx context.Context) (string, error) {
	return t.client.Invoke(ctx, "GetTransportInfo", []Arg{
		{Name: "InstanceID", Value: "0"},
	})
}
