package pngfmt

import "fmt"

// FormatError reports a malformed PNG container: missing signature,
// truncated chunk, or a structurally invalid IHDR/PLTE.
type FormatError struct{ msg string }

func (e *FormatError) Error() string { return "png: " + e.msg }

func formatErrorf(format string, args ...any) error {
	return &FormatError{msg: fmt.Sprintf(format, args...)}
}

// UnsupportedFeatureError reports a colour type, bit depth, or interlace
// method this decoder does not implement.
type UnsupportedFeatureError struct{ msg string }

func (e *UnsupportedFeatureError) Error() string { return "png: unsupported: " + e.msg }

func unsupportedf(format string, args ...any) error {
	return &UnsupportedFeatureError{msg: fmt.Sprintf(format, args...)}
}

// FilterError reports an unknown per-row filter byte or a row shorter
// than the stride implies.
type FilterError struct{ msg string }

func (e *FilterError) Error() string { return "png: filter: " + e.msg }

func filterErrorf(format string, args ...any) error {
	return &FilterError{msg: fmt.Sprintf(format, args...)}
}
