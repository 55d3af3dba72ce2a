// Package filter provides incremental byte transducers that encode or
// decode data as it passes between a consumer and a backing stream.
package filter

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Filter transforms a byte sequence incrementally. Each call to
// Transform consumes up to len(in) input bytes and produces up to
// len(out) output bytes, returning how many of each it handled.
//
// A call with an empty in signals the end of input: the filter drains
// whatever it has buffered into out and reports (0, 0, nil) once
// nothing is left. Filters run in a single direction; after reporting
// a drained state, behaviour of further non-empty input is undefined.
// Filters may buffer arbitrarily, so (0, len(in), nil) on a non-final
// call is a valid result.
type Filter interface {
	Transform(out, in []byte) (outWritten, inRead int, err error)
}

// Apply runs data through f in one go and returns the full output.
func Apply(f Filter, data []byte) ([]byte, error) {
	var result []byte
	buf := make([]byte, 4096)
	for len(data) > 0 {
		outN, inN, err := f.Transform(buf, data)
		if err != nil {
			return nil, err
		}
		if outN == 0 && inN == 0 {
			return nil, status.Errorf(codes.Internal, "Filter made no progress with %d input bytes remaining", len(data))
		}
		result = append(result, buf[:outN]...)
		data = data[inN:]
	}
	for {
		outN, _, err := f.Transform(buf, nil)
		if err != nil {
			return nil, err
		}
		if outN == 0 {
			return result, nil
		}
		result = append(result, buf[:outN]...)
	}
}
