// Package util provides helpers for annotating gRPC status errors as
// they propagate up through stream adapters.
package util

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StatusWrap prepends context to the message of an existing error,
// keeping its status code.
func StatusWrap(err error, msg string) error {
	s := status.Convert(err)
	return status.Errorf(s.Code(), "%s: %s", msg, s.Message())
}

// StatusWrapf prepends formatted context to the message of an existing
// error, keeping its status code.
func StatusWrapf(err error, format string, args ...interface{}) error {
	return StatusWrap(err, fmt.Sprintf(format, args...))
}

// StatusWrapWithCode prepends context to the message of an existing
// error while replacing its status code. This is used where a raw OS
// or library failure must surface under a well known code, such as a
// missing file reported as NotFound.
func StatusWrapWithCode(err error, code codes.Code, msg string) error {
	return status.Errorf(code, "%s: %s", msg, status.Convert(err).Message())
}
