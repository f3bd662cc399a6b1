package tool

import (
	"fmt"
	"strings"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/filesystem"
)

// ValidationResult is the uniform shape returned by the validation helpers.
// When IsValid is false, ErrorResponse carries the ready-to-return failure
// envelope.
type ValidationResult struct {
	IsValid       bool
	ErrorResponse *Response
}

// validOK is the shared success result.
var validOK = ValidationResult{IsValid: true}

// ValidateRequiredParam checks that a required parameter has a value.
//
// The error text is an exact external contract; tests and downstream agents
// pattern-match on it. A value is invalid when it is nil or an empty string.
func ValidateRequiredParam(name string, value any) ValidationResult {
	missing := value == nil
	if s, ok := value.(string); ok && s == "" {
		missing = true
	}
	if !missing {
		return validOK
	}
	return ValidationResult{
		IsValid: false,
		ErrorResponse: NewErrorResponse(fmt.Sprintf(
			"Required parameter '%s' is missing. Please provide a value for this parameter.", name)),
	}
}

// ValidateRequiredString is the string-typed convenience form of
// ValidateRequiredParam.
func ValidateRequiredString(name, value string) ValidationResult {
	if value != "" {
		return validOK
	}
	return ValidateRequiredParam(name, nil)
}

// ValidateFileExists checks that path exists on the given filesystem.
func ValidateFileExists(path string, fs filesystem.FileSystem) ValidationResult {
	if fs == nil {
		fs = filesystem.NewOSFileSystem()
	}
	if fs.Exists(path) {
		return validOK
	}
	return ValidationResult{
		IsValid: false,
		ErrorResponse: NewErrorResponse(fmt.Sprintf(
			"File not found: '%s'. Please check the path and try again.", path)),
	}
}

// ValidateExactlyOne checks that exactly one of the named parameters is set.
// Used for mutually exclusive pairs such as projectPath/workspacePath.
func ValidateExactlyOne(names []string, values ...string) ValidationResult {
	var set int
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			set++
		}
	}
	if set == 1 {
		return validOK
	}
	return ValidationResult{
		IsValid: false,
		ErrorResponse: NewErrorResponse(fmt.Sprintf(
			"Exactly one of %s must be provided.", strings.Join(names, " or "))),
	}
}
