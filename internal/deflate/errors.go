package deflate

import "errors"

// Error is the taxonomy member reported to callers for every failure this
// package can produce: invalid block type, truncated Huffman code, a
// stored-block length mismatch, or a back-reference past the start of the
// decoded output.
type Error struct {
	msg string
}

func (e *Error) Error() string { return "deflate: " + e.msg }

func newError(msg string) error {
	return &Error{msg: msg}
}

// IsDeflateError reports whether err is (or wraps) a deflate.Error.
func IsDeflateError(err error) bool {
	var de *Error
	return errors.As(err, &de)
}
