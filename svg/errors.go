package svg

import (
	"errors"
	"fmt"
)

// Exception names, as reported to scripts.
const (
	IndexSizeError             = "IndexSizeError"
	NoModificationAllowedError = "NoModificationAllowedError"
	SyntaxError                = "SyntaxError"
	NotSupportedError          = "NotSupportedError"
	TypeMismatchError          = "TypeMismatchError"
)

// DOMError represents a DOM exception with a name and message.
type DOMError struct {
	Name    string
	Message string
}

func (e *DOMError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// ErrIndexSize creates an IndexSizeError.
func ErrIndexSize(message string) *DOMError {
	return &DOMError{Name: IndexSizeError, Message: message}
}

// ErrNoModificationAllowed creates a NoModificationAllowedError.
func ErrNoModificationAllowed(message string) *DOMError {
	return &DOMError{Name: NoModificationAllowedError, Message: message}
}

// ErrSyntax creates a SyntaxError.
func ErrSyntax(message string) *DOMError {
	return &DOMError{Name: SyntaxError, Message: message}
}

// ErrNotSupported creates a NotSupportedError.
func ErrNotSupported(message string) *DOMError {
	return &DOMError{Name: NotSupportedError, Message: message}
}

// ErrTypeMismatch creates a TypeMismatchError.
func ErrTypeMismatch(message string) *DOMError {
	return &DOMError{Name: TypeMismatchError, Message: message}
}

// ErrorName returns the DOM exception name carried by err, or "" if err is
// not a *DOMError.
func ErrorName(err error) string {
	var domErr *DOMError
	if errors.As(err, &domErr) {
		return domErr.Name
	}
	return ""
}

// IsIndexSize reports whether err is an IndexSizeError.
func IsIndexSize(err error) bool {
	return ErrorName(err) == IndexSizeError
}

// IsNoModificationAllowed reports whether err is a NoModificationAllowedError.
func IsNoModificationAllowed(err error) bool {
	return ErrorName(err) == NoModificationAllowedError
}

func errReadOnly() *DOMError {
	return ErrNoModificationAllowed("The list is read-only.")
}

func errIndex(index, count int) *DOMError {
	return ErrIndexSize(fmt.Sprintf("The index provided (%d) is outside the range [0, %d).", index, count))
}
