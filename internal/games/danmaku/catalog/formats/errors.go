// Package formats holds the stage catalog file parsers. Each parser turns one
// file into descriptors or fails as a whole.
package formats

import "fmt"

// ParseError locates a bad record inside a catalog source.
// Row is 1-based and counts data records, not the header.
type ParseError struct {
	Source string
	Row    int
	Field  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: row %d: field %s: %v", e.Source, e.Row, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: row %d: %v", e.Source, e.Row, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".csv", ".yaml", ".yml"}
}
