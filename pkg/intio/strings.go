package intio

import (
	"strings"

	"github.com/camoto-project/gamecommon/pkg/stream"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ReadPrefixedBytes reads a byte string preceded by its length, a
// little-endian unsigned integer of prefixWidth bytes (1, 2 or 4).
func ReadPrefixedBytes(r stream.Reader, prefixWidth int) ([]byte, error) {
	var length uint32
	switch prefixWidth {
	case 1:
		v, err := ReadU8(r)
		if err != nil {
			return nil, err
		}
		length = uint32(v)
	case 2:
		v, err := ReadU16LE(r)
		if err != nil {
			return nil, err
		}
		length = uint32(v)
	case 4:
		v, err := ReadU32LE(r)
		if err != nil {
			return nil, err
		}
		length = v
	default:
		return nil, status.Errorf(codes.InvalidArgument, "Prefix width %d is not 1, 2 or 4", prefixWidth)
	}
	data := make([]byte, length)
	if err := stream.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}

// WritePrefixedBytes writes a byte string preceded by its length, a
// little-endian unsigned integer of prefixWidth bytes (1, 2 or 4). A
// string too long for the prefix is InvalidArgument.
func WritePrefixedBytes(w stream.Writer, prefixWidth int, data []byte) error {
	length := len(data)
	switch prefixWidth {
	case 1:
		if length > 0xff {
			return status.Errorf(codes.InvalidArgument, "Length %d does not fit in a 1 byte prefix", length)
		}
		if err := WriteU8(w, uint8(length)); err != nil {
			return err
		}
	case 2:
		if length > 0xffff {
			return status.Errorf(codes.InvalidArgument, "Length %d does not fit in a 2 byte prefix", length)
		}
		if err := WriteU16LE(w, uint16(length)); err != nil {
			return err
		}
	case 4:
		if int64(length) > 0xffffffff {
			return status.Errorf(codes.InvalidArgument, "Length %d does not fit in a 4 byte prefix", length)
		}
		if err := WriteU32LE(w, uint32(length)); err != nil {
			return err
		}
	default:
		return status.Errorf(codes.InvalidArgument, "Prefix width %d is not 1, 2 or 4", prefixWidth)
	}
	return stream.WriteFull(w, data)
}

// ReadPaddedString reads a field of exactly n bytes and returns it as
// a string. With chop set, the result ends at the first NUL byte;
// either way all n bytes are consumed.
func ReadPaddedString(r stream.Reader, n int, chop bool) (string, error) {
	data := make([]byte, n)
	if err := stream.ReadFull(r, data); err != nil {
		return "", err
	}
	s := string(data)
	if chop {
		if i := strings.IndexByte(s, 0); i >= 0 {
			s = s[:i]
		}
	}
	return s, nil
}

// WritePaddedString writes s into a field of exactly n bytes, filling
// the remainder with pad. A string longer than the field is
// InvalidArgument.
func WritePaddedString(w stream.Writer, s string, n int, pad byte) error {
	if len(s) > n {
		return status.Errorf(codes.InvalidArgument, "String of %d bytes does not fit in a %d byte field", len(s), n)
	}
	field := make([]byte, n)
	copy(field, s)
	for i := len(s); i < n; i++ {
		field[i] = pad
	}
	return stream.WriteFull(w, field)
}
