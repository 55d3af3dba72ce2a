// Package filtered provides a stream adapter that exposes the decoded
// form of a backing stream whose bytes are stored in an encoded form,
// such as a compressed file inside an archive.
//
// The adapter materialises the whole decoded image in memory on first
// use. Reads, writes, seeks and truncation operate on that image;
// Flush re-encodes it and rewrites the backing. This trades memory
// for the ability to freely seek and resize data whose encoded and
// decoded lengths differ.
package filtered

import (
	"github.com/camoto-project/gamecommon/pkg/filter"
	"github.com/camoto-project/gamecommon/pkg/stream"
	"github.com/camoto-project/gamecommon/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Stream exposes the decoded form of an encoded backing stream.
type Stream struct {
	backing     stream.Stream
	readFilter  filter.Filter
	writeFilter filter.Filter
	truncate    stream.TruncateCallback

	cache    []byte
	loaded   bool
	dirty    bool
	readPos  int64
	writePos int64
}

var _ stream.Stream = (*Stream)(nil)

// New creates a filtered stream over backing. readFilter decodes the
// backing's bytes on load, writeFilter encodes the cache on Flush.
// truncate, which may be nil, is invoked on Flush with the encoded
// length so the owner of the backing can resize it first; when nil,
// the backing's own Truncate is used.
func New(backing stream.Stream, readFilter, writeFilter filter.Filter, truncate stream.TruncateCallback) *Stream {
	return &Stream{
		backing:     backing,
		readFilter:  readFilter,
		writeFilter: writeFilter,
		truncate:    truncate,
	}
}

// ensureLoaded decodes the backing into the cache on first use.
func (s *Stream) ensureLoaded() error {
	if s.loaded {
		return nil
	}
	size, err := s.backing.Size()
	if err != nil {
		return util.StatusWrap(err, "Failed to obtain backing stream size")
	}
	encoded := make([]byte, size)
	if err := s.backing.SeekRead(0, stream.Start); err != nil {
		return util.StatusWrap(err, "Failed to seek backing stream")
	}
	if err := stream.ReadFull(s.backing, encoded); err != nil {
		return util.StatusWrap(err, "Failed to read backing stream")
	}
	decoded, err := filter.Apply(s.readFilter, encoded)
	if err != nil {
		return util.StatusWrap(err, "Failed to decode backing stream")
	}
	s.cache = decoded
	s.loaded = true
	return nil
}

func (s *Stream) TryRead(p []byte) (int, error) {
	if err := s.ensureLoaded(); err != nil {
		return 0, err
	}
	if s.readPos >= int64(len(s.cache)) {
		return 0, nil
	}
	n := copy(p, s.cache[s.readPos:])
	s.readPos += int64(n)
	return n, nil
}

func (s *Stream) seek(offset int64, whence stream.Whence, current int64) (int64, error) {
	if err := s.ensureLoaded(); err != nil {
		return current, err
	}
	size := int64(len(s.cache))
	var target int64
	switch whence {
	case stream.Start:
		target = offset
	case stream.Current:
		target = current + offset
	case stream.End:
		target = size + offset
	default:
		return current, status.Errorf(codes.InvalidArgument, "Invalid whence value %d", whence)
	}
	if target < 0 {
		return current, status.Errorf(codes.InvalidArgument, "Attempted to seek to offset %d, before the start of the stream", target)
	}
	if target > size {
		return current, status.Errorf(codes.OutOfRange, "Attempted to seek to offset %d, beyond the end of the stream at %d", target, size)
	}
	return target, nil
}

func (s *Stream) SeekRead(offset int64, whence stream.Whence) error {
	target, err := s.seek(offset, whence, s.readPos)
	if err != nil {
		return err
	}
	s.readPos = target
	return nil
}

func (s *Stream) TellRead() int64 {
	return s.readPos
}

// Size returns the decoded length, not the length of the encoded
// backing.
func (s *Stream) Size() (int64, error) {
	if err := s.ensureLoaded(); err != nil {
		return 0, err
	}
	return int64(len(s.cache)), nil
}

func (s *Stream) TryWrite(p []byte) (int, error) {
	if err := s.ensureLoaded(); err != nil {
		return 0, err
	}
	if end := s.writePos + int64(len(p)); end > int64(len(s.cache)) {
		grown := make([]byte, end)
		copy(grown, s.cache)
		s.cache = grown
	}
	n := copy(s.cache[s.writePos:], p)
	s.writePos += int64(n)
	s.dirty = true
	return n, nil
}

func (s *Stream) SeekWrite(offset int64, whence stream.Whence) error {
	target, err := s.seek(offset, whence, s.writePos)
	if err != nil {
		return err
	}
	s.writePos = target
	return nil
}

func (s *Stream) TellWrite() int64 {
	return s.writePos
}

func (s *Stream) Truncate(size int64) error {
	if size < 0 {
		return status.Errorf(codes.InvalidArgument, "Size %d is negative", size)
	}
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	if size > int64(len(s.cache)) {
		grown := make([]byte, size)
		copy(grown, s.cache)
		s.cache = grown
	} else {
		s.cache = s.cache[:size]
	}
	if s.readPos > size {
		s.readPos = size
	}
	if s.writePos > size {
		s.writePos = size
	}
	s.dirty = true
	return nil
}

// Flush re-encodes the cache through the write filter, rewrites the
// backing with the result and resizes it to the encoded length, then
// flushes the backing. Without pending changes only the backing is
// flushed.
func (s *Stream) Flush() error {
	if s.dirty {
		encoded, err := filter.Apply(s.writeFilter, s.cache)
		if err != nil {
			return util.StatusWrap(err, "Failed to encode stream contents")
		}
		if s.truncate != nil {
			if err := s.truncate(int64(len(encoded))); err != nil {
				return util.StatusWrap(err, "Failed to resize backing stream")
			}
		} else if err := s.backing.Truncate(int64(len(encoded))); err != nil {
			return util.StatusWrap(err, "Failed to resize backing stream")
		}
		if err := s.backing.SeekWrite(0, stream.Start); err != nil {
			return util.StatusWrap(err, "Failed to seek backing stream")
		}
		if err := stream.WriteFull(s.backing, encoded); err != nil {
			return util.StatusWrap(err, "Failed to write backing stream")
		}
		s.dirty = false
	}
	return s.backing.Flush()
}
