package domain

import "fmt"

// FetchError means a device description document could not be retrieved.
type FetchError struct {
	Location string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch device description %s: %v", e.Location, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means a retrieved description document is not well-formed XML.
type ParseError struct {
	Location string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse device description %s: %v", e.Location, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ControlError is a failed SOAP control call: either the renderer answered
// with a non-2xx status, or the HTTP round trip itself failed. When the
// failure is an HTTP status, StatusCode is set and Snippet carries a bounded
// prefix of the response body; the body must not be assumed parseable.
type ControlError struct {
	Action     string
	StatusCode int
	Snippet    string
	Err        error
}

func (e *ControlError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("control action %s: %v", e.Action, e.Err)
	}
	return fmt.Sprintf("control action %s: device returned %d: %s", e.Action, e.StatusCode, e.Snippet)
}

func (e *ControlError) Unwrap() error { return e.Err }
