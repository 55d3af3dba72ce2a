// Package iff walks and writes chunked containers in the IFF family:
// a four byte chunk identifier, a 32 bit payload length and the
// payload, padded to an even boundary. IFF-85 stores the length big
// endian, RIFF little endian.
package iff

import (
	"io"

	"github.com/camoto-project/gamecommon/pkg/intio"
	"github.com/camoto-project/gamecommon/pkg/stream"
	"github.com/camoto-project/gamecommon/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ByteOrder selects how chunk lengths are stored.
type ByteOrder int

const (
	// BigEndian length fields, as used by IFF-85 containers.
	BigEndian ByteOrder = iota
	// LittleEndian length fields, as used by RIFF containers.
	LittleEndian
)

// Reader walks the chunks of a container sequentially.
type Reader struct {
	s         stream.Stream
	byteOrder ByteOrder
	next      int64
	end       int64
}

// Open creates a Reader over the container in s, positioned at its
// first chunk.
func Open(s stream.Stream, byteOrder ByteOrder) (*Reader, error) {
	size, err := s.Size()
	if err != nil {
		return nil, util.StatusWrap(err, "Failed to obtain container size")
	}
	return &Reader{s: s, byteOrder: byteOrder, end: size}, nil
}

// NextChunk advances to the next chunk and returns its identifier and
// a window onto its payload. The window stays valid until the parent
// stream is modified. io.EOF is returned after the last chunk.
func (r *Reader) NextChunk() (string, *stream.SubStream, error) {
	if r.next >= r.end {
		return "", nil, io.EOF
	}
	if r.end-r.next < 8 {
		return "", nil, status.Errorf(codes.InvalidArgument, "Trailing %d bytes are too short for a chunk header", r.end-r.next)
	}
	if err := r.s.SeekRead(r.next, stream.Start); err != nil {
		return "", nil, util.StatusWrap(err, "Failed to seek to chunk header")
	}
	id, err := stream.ReadString(r.s, 4)
	if err != nil {
		return "", nil, util.StatusWrap(err, "Failed to read chunk identifier")
	}
	var length uint32
	if r.byteOrder == BigEndian {
		length, err = intio.ReadU32BE(r.s)
	} else {
		length, err = intio.ReadU32LE(r.s)
	}
	if err != nil {
		return "", nil, util.StatusWrapf(err, "Failed to read length of chunk %q", id)
	}
	payloadStart := r.next + 8
	if payloadStart+int64(length) > r.end {
		return "", nil, status.Errorf(codes.InvalidArgument, "Chunk %q of %d bytes extends beyond the container end at %d", id, length, r.end)
	}
	sub, err := stream.NewSubStream(r.s, payloadStart, int64(length))
	if err != nil {
		return "", nil, util.StatusWrapf(err, "Failed to open payload of chunk %q", id)
	}
	r.next = payloadStart + int64(length)
	// Payloads are padded to an even length; the pad byte belongs to
	// no chunk.
	if length%2 != 0 {
		r.next++
	}
	return id, sub, nil
}

// Writer produces a chunked container, back-patching each chunk's
// length once it is closed.
type Writer struct {
	s         stream.Stream
	byteOrder ByteOrder

	// lengthOffsets records where the open chunks' length fields
	// live, innermost last.
	lengthOffsets []int64
}

// NewWriter creates a Writer producing chunks at the current write
// position of s.
func NewWriter(s stream.Stream, byteOrder ByteOrder) *Writer {
	return &Writer{s: s, byteOrder: byteOrder}
}

// BeginChunk writes a chunk header with a placeholder length. The
// chunk's payload is whatever is written to the underlying stream
// before the matching EndChunk, including any nested chunks.
func (w *Writer) BeginChunk(id string) error {
	if len(id) != 4 {
		return status.Errorf(codes.InvalidArgument, "Chunk identifier %q is not 4 bytes", id)
	}
	if err := stream.WriteString(w.s, id); err != nil {
		return util.StatusWrapf(err, "Failed to write identifier of chunk %q", id)
	}
	w.lengthOffsets = append(w.lengthOffsets, w.s.TellWrite())
	var err error
	if w.byteOrder == BigEndian {
		err = intio.WriteU32BE(w.s, 0)
	} else {
		err = intio.WriteU32LE(w.s, 0)
	}
	if err != nil {
		return util.StatusWrapf(err, "Failed to write length of chunk %q", id)
	}
	return nil
}

// EndChunk closes the innermost open chunk, back-patching its length
// and emitting a pad byte when the payload length is odd.
func (w *Writer) EndChunk() error {
	if len(w.lengthOffsets) == 0 {
		return status.Error(codes.FailedPrecondition, "No chunk is open")
	}
	lengthOffset := w.lengthOffsets[len(w.lengthOffsets)-1]
	w.lengthOffsets = w.lengthOffsets[:len(w.lengthOffsets)-1]
	end := w.s.TellWrite()
	length := end - lengthOffset - 4
	if length > 0xffffffff {
		return status.Errorf(codes.InvalidArgument, "Chunk payload of %d bytes exceeds the 32 bit length field", length)
	}
	if err := w.s.SeekWrite(lengthOffset, stream.Start); err != nil {
		return util.StatusWrap(err, "Failed to seek to chunk length field")
	}
	var err error
	if w.byteOrder == BigEndian {
		err = intio.WriteU32BE(w.s, uint32(length))
	} else {
		err = intio.WriteU32LE(w.s, uint32(length))
	}
	if err != nil {
		return util.StatusWrap(err, "Failed to back-patch chunk length")
	}
	if err := w.s.SeekWrite(end, stream.Start); err != nil {
		return util.StatusWrap(err, "Failed to seek back to end of chunk")
	}
	if length%2 != 0 {
		if err := stream.WriteFull(w.s, []byte{0}); err != nil {
			return util.StatusWrap(err, "Failed to write pad byte")
		}
	}
	return nil
}
