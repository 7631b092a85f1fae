package soapcalls

import (
	"context"
	"fmt"
	"strconv"
)

const renderingControlService = "urn:schemas-upnp-org:service:RenderingControl:1"

// RenderingControl adjusts volume and mute on the Master audio channel of
// instance 0.
type RenderingControl struct {
	client *Client
}

func NewRenderingControl(controlURL string) (*RenderingControl, error) {
	client, err := NewClient(controlURL, renderingControlService)
	if err != nil {
		return nil, err
	}
	return &RenderingControl{client: client}, nil
}

func (r *RenderingControl) SetVolume(ctx context.Context, volume int) error {
	if volume < 0 || volume > 100 {
		return fmt.Errorf("volume %d out of range 0-100", volume)
	}
	_, err := r.client.Invoke(ctx, "SetVolume", []Arg{
		{Name: "InstanceID", Value: "0"},
		{Name: "Channel", Value: "Master"},
		{Name: "DesiredVolume", Value: strconv.Itoa(volume)},
	})
	return err
}

// GetVolume returns the raw response; CurrentVolume is extracted by the
// caller so a garbled reply degrades to a default instead of an error.
func (r *RenderingControl) GetVolume(ctx context.Context) (string, error) {
	return r.client.Invoke(ctx, "GetVolume", []Arg{
		{Name: "InstanceID", Value: "0"},
		{Name: "Channel", Value: "Master"},
	})
}

func (r *RenderingControl) SetMute(ctx context.Context, mute bool) error {
	desired := "0"
	if mute {
		desired = "1"
	}
	_, err := r.client.Invoke(ctx, "SetMute", []Arg{
		{Name: "InstanceID", Value: "0"},
		{Name: "Channel", Value: "Master"},
		{Name: "DesiredMute", Value: desired},
	})
	return err
}

func (r *RenderingControl) GetMute(ctx context.Context) (string, error) {
	return r.client.Invoke(ctx, "GetMute", []Arg{
		{Name: "InstanceID", Value: "0"},
		{Name: "Channel", Value: "Master"},
	})
}
