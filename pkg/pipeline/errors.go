package pipeline

import "fmt"

// MissingSourceError is returned when a bundle source doesn't resolve to an
// existing regular file.
type MissingSourceError struct {
	Path string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("bundle source %s does not exist or is not a regular file", e.Path)
}

// UnsupportedTypeError is returned when no minifier is registered for a
// file extension.
type UnsupportedTypeError struct {
	Ext string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("no minifier registered for type %q", e.Ext)
}

// TransformError wraps a failure inside a minification transform and records
// which source file triggered it.
type TransformError struct {
	Path  string
	Cause error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("failed to minify %s: %v", e.Path, e.Cause)
}

func (e *TransformError) Unwrap() error {
	return e.Cause
}

// SpawnError is returned when the OS couldn't launch a child process. A
// nonzero exit status of a successfully launched process is not an error.
type SpawnError struct {
	Command string
	Cause   error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %s: %v", e.Command, e.Cause)
}

func (e *SpawnError) Unwrap() error {
	return e.Cause
}
