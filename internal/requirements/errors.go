package requirements

import (
	"fmt"
	"strings"
)

// NotFoundError reports a missing schema document.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("requirements document not found: %s", e.Path)
}

// ParseError reports a schema document that could not be parsed into the
// expected shape.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid requirements document %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigNotFoundError reports a lookup key absent from the document. Known
// carries every key the document does define so callers can render a catalog.
type ConfigNotFoundError struct {
	Key   string
	Known []string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("no requirements defined for configuration %s (available: %s)",
		e.Key, strings.Join(e.Known, ", "))
}
