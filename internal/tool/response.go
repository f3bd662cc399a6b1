// Package tool provides the uniform tool response envelope, the parameter
// validation helpers, and the typed-tool factory shared by every tool the
// server exposes.
package tool

import "fmt"

// Content types for response fragments.
const (
	ContentTypeText  = "text"
	ContentTypeImage = "image"
)

// Content is one ordered, human-readable fragment of a tool response.
// Order matters: the status line comes first, details and next steps after.
type Content struct {
	// Type is "text" or "image".
	Type string `json:"type"`

	// Text is the fragment body for text content.
	Text string `json:"text,omitempty"`

	// Data is the base64-encoded payload for image content.
	Data string `json:"data,omitempty"`

	// MimeType is the image MIME type (e.g. "image/png").
	MimeType string `json:"mimeType,omitempty"`
}

// Response is the uniform envelope every tool returns. It is constructed
// fresh per invocation, never mutated after return, and never persisted.
//
// Failure is always communicated in-band through IsError; nothing crosses
// the tool boundary as a Go error or panic. Consumers treat IsError != true
// as success.
type Response struct {
	// Content holds the ordered result fragments.
	Content []Content `json:"content"`

	// IsError is true on failure, false or absent on success.
	IsError bool `json:"isError,omitempty"`

	// NextStepParams optionally hints at a follow-up tool invocation with
	// pre-filled arguments. Purely advisory, never schema-validated.
	NextStepParams map[string]any `json:"nextStepParams,omitempty"`
}

// NewTextResponse creates a success response from ordered text fragments.
func NewTextResponse(lines ...string) *Response {
	r := &Response{}
	for _, line := range lines {
		r.Content = append(r.Content, Content{Type: ContentTypeText, Text: line})
	}
	return r
}

// NewErrorResponse creates a failure response from ordered text fragments.
func NewErrorResponse(lines ...string) *Response {
	r := NewTextResponse(lines...)
	r.IsError = true
	return r
}

// NewErrorResponsef creates a single-fragment failure response.
func NewErrorResponsef(format string, args ...any) *Response {
	return NewErrorResponse(fmt.Sprintf(format, args...))
}

// AddText appends a text fragment and returns the response for chaining.
func (r *Response) AddText(text string) *Response {
	r.Content = append(r.Content, Content{Type: ContentTypeText, Text: text})
	return r
}

// AddImage appends a base64-encoded image fragment.
func (r *Response) AddImage(data, mimeType string) *Response {
	r.Content = append(r.Content, Content{Type: ContentTypeImage, Data: data, MimeType: mimeType})
	return r
}

// WithNextStep attaches advisory follow-up parameters.
func (r *Response) WithNextStep(params map[string]any) *Response {
	r.NextStepParams = params
	return r
}

// FirstText returns the first text fragment, or "" when none exists.
// Tests and callers use it to check the status line.
func (r *Response) FirstText() string {
	for _, c := range r.Content {
		if c.Type == ContentTypeText {
			return c.Text
		}
	}
	return ""
}
