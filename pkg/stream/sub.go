package stream

import (
	"github.com/camoto-project/gamecommon/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SubStream exposes a window of a parent stream as a stream of its
// own. Offsets within the window are translated onto the parent, so
// byte 0 of the sub-stream is byte Offset() of the parent.
//
// The window's placement and length are bookkeeping only: Resize and
// Relocate adjust them without touching the parent, which is how
// archive handlers move files around after rewriting an index. To
// actually change the parent's length, use the parent directly or a
// TruncateCallback.
type SubStream struct {
	parent Stream
	offset int64
	length int64

	readPos  int64
	writePos int64
}

var _ Stream = (*SubStream)(nil)

// NewSubStream creates a window of length bytes into parent, starting
// at offset. The window must lie entirely within the parent.
func NewSubStream(parent Stream, offset, length int64) (*SubStream, error) {
	if offset < 0 || length < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "Window [%d, %d) is negative", offset, offset+length)
	}
	parentSize, err := parent.Size()
	if err != nil {
		return nil, util.StatusWrap(err, "Failed to obtain parent stream size")
	}
	if offset+length > parentSize {
		return nil, status.Errorf(codes.InvalidArgument, "Window [%d, %d) extends beyond the parent stream end at %d", offset, offset+length, parentSize)
	}
	return &SubStream{parent: parent, offset: offset, length: length}, nil
}

func (ss *SubStream) TryRead(p []byte) (int, error) {
	if ss.readPos >= ss.length {
		return 0, nil
	}
	if max := ss.length - ss.readPos; int64(len(p)) > max {
		p = p[:max]
	}
	if err := ss.parent.SeekRead(ss.offset+ss.readPos, Start); err != nil {
		return 0, util.StatusWrap(err, "Failed to seek parent stream")
	}
	n, err := ss.parent.TryRead(p)
	ss.readPos += int64(n)
	return n, err
}

// clampSeek resolves a sub-stream seek. Out of range targets are
// clamped to the nearest end of the window rather than rejected.
func (ss *SubStream) clampSeek(offset int64, whence Whence, current int64) (int64, error) {
	target, err := resolveSeek(offset, whence, current, ss.length)
	if err != nil {
		return 0, err
	}
	if target < 0 {
		return 0, nil
	}
	if target > ss.length {
		return ss.length, nil
	}
	return target, nil
}

func (ss *SubStream) SeekRead(offset int64, whence Whence) error {
	target, err := ss.clampSeek(offset, whence, ss.readPos)
	if err != nil {
		return err
	}
	ss.readPos = target
	return nil
}

func (ss *SubStream) TellRead() int64 {
	return ss.readPos
}

func (ss *SubStream) Size() (int64, error) {
	return ss.length, nil
}

func (ss *SubStream) TryWrite(p []byte) (int, error) {
	if ss.writePos >= ss.length {
		return 0, nil
	}
	if max := ss.length - ss.writePos; int64(len(p)) > max {
		p = p[:max]
	}
	if err := ss.parent.SeekWrite(ss.offset+ss.writePos, Start); err != nil {
		return 0, util.StatusWrap(err, "Failed to seek parent stream")
	}
	n, err := ss.parent.TryWrite(p)
	ss.writePos += int64(n)
	return n, err
}

func (ss *SubStream) SeekWrite(offset int64, whence Whence) error {
	target, err := ss.clampSeek(offset, whence, ss.writePos)
	if err != nil {
		return err
	}
	ss.writePos = target
	return nil
}

func (ss *SubStream) TellWrite() int64 {
	return ss.writePos
}

// Truncate is not supported: the parent bytes beyond the window do
// not belong to this stream, so cutting them off here would corrupt
// whatever follows. Use Resize to adjust the window.
func (ss *SubStream) Truncate(size int64) error {
	return status.Error(codes.FailedPrecondition, "A sub-stream window cannot truncate its parent; use Resize instead")
}

func (ss *SubStream) Flush() error {
	return ss.parent.Flush()
}

// Offset returns the position of the window within the parent stream.
func (ss *SubStream) Offset() int64 {
	return ss.offset
}

// Resize changes the length of the window without touching the
// parent. Cursors beyond the new length are clamped to it. The caller
// is responsible for ensuring the parent holds enough data behind the
// enlarged window.
func (ss *SubStream) Resize(length int64) error {
	if length < 0 {
		return status.Errorf(codes.InvalidArgument, "Length %d is negative", length)
	}
	ss.length = length
	if ss.readPos > length {
		ss.readPos = length
	}
	if ss.writePos > length {
		ss.writePos = length
	}
	return nil
}

// Relocate slides the window within the parent by delta bytes. It
// does not move any data; the caller has already rearranged the
// parent's contents.
func (ss *SubStream) Relocate(delta int64) error {
	if ss.offset+delta < 0 {
		return status.Errorf(codes.InvalidArgument, "Relocating by %d would place the window at %d, before the start of the parent", delta, ss.offset+delta)
	}
	ss.offset += delta
	return nil
}
