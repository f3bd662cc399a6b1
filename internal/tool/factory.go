package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/executor"
)

// LogicFunc is a tool's business logic. It receives validated, defaulted
// parameters and an executor, and is individually responsible for catching
// every executor and filesystem failure and converting it into a Response
// with IsError set. Nothing may escape it as a Go error.
type LogicFunc[In any] func(ctx context.Context, in In, exec executor.Executor) *Response

// HandlerFunc is the uniform handler produced by the factory. Callers may
// pass a nil executor to use the definition's provider (a real
// process-spawning executor in production, a mock in tests).
type HandlerFunc func(ctx context.Context, rawArgs map[string]any, exec executor.Executor) *Response

// DefaultsFunc returns the currently active session defaults. A nil
// DefaultsFunc disables session-default injection.
type DefaultsFunc func() map[string]any

// Definition describes one typed tool: its schema surface, its business
// logic, and how it obtains an executor.
type Definition[In any] struct {
	// Name is the tool name exposed to the host.
	Name string

	// Description is the tool description exposed to the host.
	Description string

	// Required lists JSON field names that must be present and non-empty
	// after session-default injection.
	Required []string

	// SessionKeys lists JSON field names that may be resolved from the
	// active session-defaults profile when the caller omits them.
	SessionKeys []string

	// Logic is the business logic invoked with validated parameters.
	Logic LogicFunc[In]
}

// Handler wraps the definition into a uniform handler: session-default
// injection, then schema validation, then executor resolution, then Logic.
// The Logic's response is propagated unchanged.
func (d *Definition[In]) Handler(defaults DefaultsFunc, provider executor.Provider) HandlerFunc {
	return func(ctx context.Context, rawArgs map[string]any, exec executor.Executor) *Response {
		args := make(map[string]any, len(rawArgs))
		for k, v := range rawArgs {
			args[k] = v
		}

		if defaults != nil && len(d.SessionKeys) > 0 {
			session := defaults()
			for _, key := range d.SessionKeys {
				if !argBlank(args[key]) {
					continue
				}
				if v, ok := session[key]; ok {
					args[key] = v
				}
			}
		}

		var violations []string
		for _, name := range d.Required {
			if argBlank(args[name]) {
				violations = append(violations, fmt.Sprintf("%s: Required", name))
			}
		}

		var in In
		if len(violations) == 0 {
			data, err := json.Marshal(args)
			if err != nil {
				violations = append(violations, fmt.Sprintf("arguments: %v", err))
			} else if err := json.Unmarshal(data, &in); err != nil {
				violations = append(violations, decodeViolation(err))
			}
		}

		if len(violations) > 0 {
			sort.Strings(violations)
			return NewErrorResponse(
				"Error: Parameter validation failed\nDetails: Invalid parameters:\n" +
					strings.Join(violations, "\n"))
		}

		if exec == nil {
			if provider == nil {
				return NewErrorResponse("Error: No executor available for tool " + d.Name)
			}
			exec = provider()
		}

		return d.Logic(ctx, in, exec)
	}
}

// argBlank reports whether a raw argument counts as absent: missing, nil, or
// an empty/whitespace string.
func argBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// decodeViolation converts a JSON decode error into a field-first violation
// line.
func decodeViolation(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s: Expected %s, received %s", typeErr.Field, typeErr.Type, typeErr.Value)
	}
	return fmt.Sprintf("arguments: %v", err)
}
