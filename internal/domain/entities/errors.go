package entities

import (
	"errors"
	"fmt"
)

// BuildErrorKind categorizes the different failure modes of a deck build
type BuildErrorKind string

const (
	ErrorKindNotFound            BuildErrorKind = "not_found"
	ErrorKindFormat              BuildErrorKind = "format"
	ErrorKindPlaceholderNotFound BuildErrorKind = "placeholder_not_found"
	ErrorKindAssetNotFound       BuildErrorKind = "asset_not_found"
	ErrorKindTypeMismatch        BuildErrorKind = "type_mismatch"
	ErrorKindIO                  BuildErrorKind = "io"
)

// BuildError provides detailed error information with categorization
type BuildError struct {
	Kind    BuildErrorKind `json:"kind"`
	Message string         `json:"message"`
	Details string         `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

func (e *BuildError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s error: %s - %s", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *BuildError) Unwrap() error {
	return e.Cause
}

// NewNotFoundError reports a missing input file
func NewNotFoundError(path string, cause error) *BuildError {
	return &BuildError{
		Kind:    ErrorKindNotFound,
		Message: "input file does not exist",
		Details: path,
		Cause:   cause,
	}
}

// NewFormatError reports an unreadable or corrupt template document
func NewFormatError(path string, cause error) *BuildError {
	return &BuildError{
		Kind:    ErrorKindFormat,
		Message: "not a valid presentation document",
		Details: path,
		Cause:   cause,
	}
}

// NewPlaceholderNotFoundError reports a content map entry that references a
// slide or placeholder the template does not have
func NewPlaceholderNotFoundError(slide int, placeholder string) *BuildError {
	return &BuildError{
		Kind:    ErrorKindPlaceholderNotFound,
		Message: "placeholder not found in template",
		Details: fmt.Sprintf("slide %d, placeholder %q", slide, placeholder),
	}
}

// NewAssetNotFoundError reports an image asset that could not be read
func NewAssetNotFoundError(path string, cause error) *BuildError {
	return &BuildError{
		Kind:    ErrorKindAssetNotFound,
		Message: "image asset is unreadable",
		Details: path,
		Cause:   cause,
	}
}

// NewTypeMismatchError reports a content value of the wrong kind for its
// target placeholder (e.g. text aimed at a picture frame)
func NewTypeMismatchError(slide int, placeholder string, details string) *BuildError {
	return &BuildError{
		Kind:    ErrorKindTypeMismatch,
		Message: "content value kind does not match placeholder",
		Details: fmt.Sprintf("slide %d, placeholder %q: %s", slide, placeholder, details),
	}
}

// NewIOError reports a failure writing the output document
func NewIOError(path string, cause error) *BuildError {
	return &BuildError{
		Kind:    ErrorKindIO,
		Message: "writing output document failed",
		Details: path,
		Cause:   cause,
	}
}

// IsKind reports whether err is (or wraps) a BuildError of the given kind
func IsKind(err error, kind BuildErrorKind) bool {
	var buildErr *BuildError
	if errors.As(err, &buildErr) {
		return buildErr.Kind == kind
	}
	return false
}
