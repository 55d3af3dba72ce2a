// Package segmented provides an edit overlay on top of a backing
// stream. Bytes can be overwritten, inserted and removed at arbitrary
// positions without moving any data in the backing; the backing is
// only modified when Commit flattens the accumulated edits back into
// it, shifting the unchanged regions the minimum distance required.
//
// The overlay is a chain of segments. Each segment has three sources:
// a range of the backing (first), an in-memory buffer (second) and a
// nested child segment (third) holding everything after the buffer.
// Splitting a segment at an edit point turns its tail into a child,
// so a long series of edits builds a chain whose depth equals the
// number of distinct edit points.
//
// The backing must not be accessed by other code between the first
// edit and Commit; the overlay assumes the backing's bytes stay where
// they were.
package segmented

import (
	"github.com/camoto-project/gamecommon/pkg/stream"
	"github.com/camoto-project/gamecommon/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Stream is an edit overlay over a backing stream.
type Stream struct {
	backing stream.Stream

	// first is the backing range [firstStart, firstEnd).
	firstStart int64
	firstEnd   int64

	// second holds bytes staged in memory, logically following first.
	second []byte

	// third holds everything after second, or nil.
	third *Stream

	// pos is the shared read/write cursor. Only the root segment's
	// cursor is used.
	pos int64
}

var _ stream.Stream = (*Stream)(nil)

// New creates an overlay whose initial content is the whole of
// backing.
func New(backing stream.Stream) (*Stream, error) {
	size, err := backing.Size()
	if err != nil {
		return nil, util.StatusWrap(err, "Failed to obtain backing stream size")
	}
	return &Stream{
		backing:  backing,
		firstEnd: size,
	}, nil
}

func (s *Stream) lenFirst() int64 {
	return s.firstEnd - s.firstStart
}

func (s *Stream) lenSecondEnd() int64 {
	return s.lenFirst() + int64(len(s.second))
}

func (s *Stream) length() int64 {
	total := s.lenSecondEnd()
	if s.third != nil {
		total += s.third.length()
	}
	return total
}

// split cuts the segment at off, which must lie within first. The
// segment's tail, everything from off onward, becomes a new child
// holding the old buffer and child, leaving this segment with an
// empty buffer at the cut point.
func (s *Stream) split(off int64) {
	child := &Stream{
		backing:    s.backing,
		firstStart: s.firstStart + off,
		firstEnd:   s.firstEnd,
		second:     s.second,
		third:      s.third,
	}
	s.firstEnd = s.firstStart + off
	s.second = nil
	s.third = child
}

// readAt reads into p starting at logical offset off, stopping at the
// end of the overlay's content.
func (s *Stream) readAt(off int64, p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		lenFirst := s.lenFirst()
		switch {
		case off < lenFirst:
			chunk := p
			if max := lenFirst - off; int64(len(chunk)) > max {
				chunk = chunk[:max]
			}
			if err := s.backing.SeekRead(s.firstStart+off, stream.Start); err != nil {
				return total, util.StatusWrap(err, "Failed to seek backing stream")
			}
			if err := stream.ReadFull(s.backing, chunk); err != nil {
				return total, util.StatusWrap(err, "Failed to read backing stream")
			}
			off += int64(len(chunk))
			total += len(chunk)
			p = p[len(chunk):]
		case off < s.lenSecondEnd():
			n := copy(p, s.second[off-lenFirst:])
			off += int64(n)
			total += n
			p = p[n:]
		case s.third != nil:
			n, err := s.third.readAt(off-s.lenSecondEnd(), p)
			total += n
			return total, err
		default:
			return total, nil
		}
	}
	return total, nil
}

// writeAt stages p at logical offset off. The backing is never
// touched: bytes overwritten inside first are split off into a child
// and restaged in the buffer, and writes past the end of the content
// extend it.
func (s *Stream) writeAt(off int64, p []byte) {
	for len(p) > 0 {
		if off < s.lenFirst() {
			s.split(off)
		}
		lenFirst := s.lenFirst()
		secondEnd := s.lenSecondEnd()
		switch {
		case off < secondEnd:
			n := copy(s.second[off-lenFirst:], p)
			off += int64(n)
			p = p[n:]
		case off == secondEnd:
			if s.third == nil || s.third.length() == 0 {
				s.second = append(s.second, p...)
				off += int64(len(p))
				p = nil
				break
			}
			// Overwriting the start of third: stage the bytes in the
			// buffer and drop the same count from third's front.
			k := int64(len(p))
			if max := s.third.length(); k > max {
				k = max
			}
			s.second = append(s.second, p[:k]...)
			s.third.removeAt(0, k)
			off += k
			p = p[k:]
		default:
			s.third.writeAt(off-secondEnd, p)
			return
		}
	}
}

// insertAt inserts n zero bytes at logical offset off, shifting
// everything after it.
func (s *Stream) insertAt(off, n int64) {
	if off < s.lenFirst() {
		s.split(off)
		s.second = make([]byte, n)
		return
	}
	if off <= s.lenSecondEnd() {
		idx := off - s.lenFirst()
		grown := make([]byte, int64(len(s.second))+n)
		copy(grown, s.second[:idx])
		copy(grown[idx+n:], s.second[idx:])
		s.second = grown
		return
	}
	s.third.insertAt(off-s.lenSecondEnd(), n)
}

// removeAt deletes n bytes at logical offset off. The caller has
// verified that the range lies within the content.
func (s *Stream) removeAt(off, n int64) {
	for n > 0 {
		lenFirst := s.lenFirst()
		switch {
		case off < lenFirst:
			switch {
			case off+n >= lenFirst:
				// The range reaches the end of first: trim first and
				// keep removing from the sources after it.
				n -= lenFirst - off
				s.firstEnd = s.firstStart + off
			case off == 0:
				s.firstStart += n
				return
			default:
				// Entirely inside first: cut the segment at the start
				// of the range and drop the range from the child's
				// front.
				s.split(off)
				s.third.firstStart += n
				return
			}
		case off < s.lenSecondEnd():
			idx := off - lenFirst
			k := int64(len(s.second)) - idx
			if k > n {
				k = n
			}
			s.second = append(s.second[:idx], s.second[idx+k:]...)
			n -= k
		default:
			s.third.removeAt(off-s.lenSecondEnd(), n)
			return
		}
	}
}

func (s *Stream) TryRead(p []byte) (int, error) {
	n, err := s.readAt(s.pos, p)
	s.pos += int64(n)
	return n, err
}

func (s *Stream) TryWrite(p []byte) (int, error) {
	s.writeAt(s.pos, p)
	s.pos += int64(len(p))
	return len(p), nil
}

// seek resolves a seek against the overlay's content. Out of range
// targets are clamped to the nearest end.
func (s *Stream) seek(offset int64, whence stream.Whence) error {
	var base int64
	switch whence {
	case stream.Start:
		base = 0
	case stream.Current:
		base = s.pos
	case stream.End:
		base = s.length()
	default:
		return status.Errorf(codes.InvalidArgument, "Invalid whence value %d", whence)
	}
	target := base + offset
	if target < 0 {
		target = 0
	}
	if total := s.length(); target > total {
		target = total
	}
	s.pos = target
	return nil
}

// SeekRead repositions the cursor. The overlay keeps a single cursor
// for reads and writes, so this is equivalent to SeekWrite.
func (s *Stream) SeekRead(offset int64, whence stream.Whence) error {
	return s.seek(offset, whence)
}

// SeekWrite repositions the cursor. The overlay keeps a single cursor
// for reads and writes, so this is equivalent to SeekRead.
func (s *Stream) SeekWrite(offset int64, whence stream.Whence) error {
	return s.seek(offset, whence)
}

func (s *Stream) TellRead() int64 {
	return s.pos
}

func (s *Stream) TellWrite() int64 {
	return s.pos
}

// Size returns the length of the overlay's content, including edits
// not yet committed.
func (s *Stream) Size() (int64, error) {
	return s.length(), nil
}

// Insert adds n zero bytes at the cursor, shifting everything after
// it. The cursor stays where it was, at the start of the new bytes.
func (s *Stream) Insert(n int64) error {
	if n < 0 {
		return status.Errorf(codes.InvalidArgument, "Count %d is negative", n)
	}
	s.insertAt(s.pos, n)
	return nil
}

// Remove deletes n bytes at the cursor, shifting everything after
// them down. The cursor stays where it was, now at the byte that
// followed the removed range.
func (s *Stream) Remove(n int64) error {
	if n < 0 {
		return status.Errorf(codes.InvalidArgument, "Count %d is negative", n)
	}
	if avail := s.length() - s.pos; n > avail {
		return status.Errorf(codes.OutOfRange, "Attempted to remove %d bytes with only %d available", n, avail)
	}
	s.removeAt(s.pos, n)
	return nil
}

// Truncate sets the length of the content, removing bytes from the
// end or appending zero bytes.
func (s *Stream) Truncate(size int64) error {
	if size < 0 {
		return status.Errorf(codes.InvalidArgument, "Size %d is negative", size)
	}
	total := s.length()
	if size < total {
		s.removeAt(size, total-size)
	} else if size > total {
		s.insertAt(total, size-total)
	}
	if s.pos > size {
		s.pos = size
	}
	return nil
}

// Flush is a no-op: edits stay in the overlay until Commit.
func (s *Stream) Flush() error {
	return nil
}

// Commit flattens all edits into the backing, moving the retained
// backing ranges the minimum distance and writing the staged buffers
// between them. truncate resizes the backing and may be nil, in which
// case the backing's own Truncate is used; when the content grew it
// runs before any data is moved, when it shrank it runs after.
//
// After a successful commit the overlay is a single segment covering
// the whole backing and can continue to be used. A failed commit
// leaves the backing with some regions moved; the overlay's logical
// content is unspecified.
func (s *Stream) Commit(truncate stream.TruncateCallback) error {
	if truncate == nil {
		truncate = s.backing.Truncate
	}
	total := s.length()
	backingSize, err := s.backing.Size()
	if err != nil {
		return util.StatusWrap(err, "Failed to obtain backing stream size")
	}
	if backingSize < total {
		// The backing must be able to hold the relocated data before
		// anything moves into the new space.
		if err := truncate(total); err != nil {
			return util.StatusWrap(err, "Failed to grow backing stream")
		}
	}
	if err := s.commitAt(0); err != nil {
		return err
	}
	if backingSize > total {
		if err := truncate(total); err != nil {
			return util.StatusWrap(err, "Failed to shrink backing stream")
		}
	}
	if s.pos > total {
		s.pos = total
	}
	return nil
}

// commitAt flattens this segment so that first lands at dest in the
// backing. The sources are processed so that no byte is overwritten
// before it has been moved out of the way: a first range moving
// toward the start of the backing moves before the sources after it,
// one moving toward the end moves after them, and the staged buffer,
// whose bytes live in memory, is always written last.
func (s *Stream) commitAt(dest int64) error {
	lenFirst := s.lenFirst()
	destSecond := dest + lenFirst
	destThird := destSecond + int64(len(s.second))

	moveFirst := func() error {
		if err := stream.Move(s.backing, s.firstStart, dest, lenFirst); err != nil {
			return util.StatusWrap(err, "Failed to move retained range")
		}
		s.firstStart = dest
		s.firstEnd = dest + lenFirst
		return nil
	}

	switch {
	case s.firstStart > dest:
		if err := moveFirst(); err != nil {
			return err
		}
		if s.third != nil {
			if err := s.third.commitAt(destThird); err != nil {
				return err
			}
		}
	case s.firstStart < dest:
		// Third moves out of the way before first advances over it.
		if s.third != nil {
			if err := s.third.commitAt(destThird); err != nil {
				return err
			}
		}
		if err := moveFirst(); err != nil {
			return err
		}
	default:
		if s.third != nil {
			if err := s.third.commitAt(destThird); err != nil {
				return err
			}
		}
	}

	if len(s.second) > 0 {
		if err := s.backing.SeekWrite(destSecond, stream.Start); err != nil {
			return util.StatusWrap(err, "Failed to seek backing stream")
		}
		if err := stream.WriteFull(s.backing, s.second); err != nil {
			return util.StatusWrap(err, "Failed to write staged bytes")
		}
		s.firstEnd += int64(len(s.second))
		s.second = nil
	}
	if s.third != nil {
		s.firstEnd += s.third.length()
		s.third = nil
	}
	return nil
}
