package stream

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type memoryStream struct {
	data     []byte
	readPos  int64
	writePos int64
}

// NewMemoryStream creates an empty growable in-memory stream.
func NewMemoryStream() Stream {
	return &memoryStream{}
}

// NewMemoryStreamFromBytes creates an in-memory stream seeded with the
// given contents. The slice is used directly, without copying.
func NewMemoryStreamFromBytes(data []byte) Stream {
	return &memoryStream{data: data}
}

// NewMemoryStreamFromString creates an in-memory stream seeded with
// the bytes of s.
func NewMemoryStreamFromString(s string) Stream {
	return &memoryStream{data: []byte(s)}
}

// MemoryContents returns the current contents of a stream created by
// one of the memory stream constructors. The slice aliases the
// stream's storage until the next growing write.
func MemoryContents(s Stream) []byte {
	return s.(*memoryStream).data
}

func (ms *memoryStream) TryRead(p []byte) (int, error) {
	if ms.readPos >= int64(len(ms.data)) {
		return 0, nil
	}
	n := copy(p, ms.data[ms.readPos:])
	ms.readPos += int64(n)
	return n, nil
}

func resolveSeek(offset int64, whence Whence, current, size int64) (int64, error) {
	switch whence {
	case Start:
		return offset, nil
	case Current:
		return current + offset, nil
	case End:
		return size + offset, nil
	}
	return 0, status.Errorf(codes.InvalidArgument, "Invalid whence value %d", whence)
}

func (ms *memoryStream) SeekRead(offset int64, whence Whence) error {
	target, err := resolveSeek(offset, whence, ms.readPos, int64(len(ms.data)))
	if err != nil {
		return err
	}
	if target < 0 {
		return status.Errorf(codes.InvalidArgument, "Attempted to seek to offset %d, before the start of the stream", target)
	}
	if target > int64(len(ms.data)) {
		return status.Errorf(codes.OutOfRange, "Attempted to seek to offset %d, beyond the end of the stream at %d", target, len(ms.data))
	}
	ms.readPos = target
	return nil
}

func (ms *memoryStream) TellRead() int64 {
	return ms.readPos
}

func (ms *memoryStream) Size() (int64, error) {
	return int64(len(ms.data)), nil
}

func (ms *memoryStream) TryWrite(p []byte) (int, error) {
	end := ms.writePos + int64(len(p))
	if end > int64(len(ms.data)) {
		ms.grow(end)
	}
	n := copy(ms.data[ms.writePos:], p)
	ms.writePos += int64(n)
	return n, nil
}

// grow extends the storage to the given size, zero filling the new
// bytes.
func (ms *memoryStream) grow(size int64) {
	if size <= int64(cap(ms.data)) {
		old := len(ms.data)
		ms.data = ms.data[:size]
		for i := old; i < int(size); i++ {
			ms.data[i] = 0
		}
		return
	}
	grown := make([]byte, size)
	copy(grown, ms.data)
	ms.data = grown
}

func (ms *memoryStream) SeekWrite(offset int64, whence Whence) error {
	target, err := resolveSeek(offset, whence, ms.writePos, int64(len(ms.data)))
	if err != nil {
		return err
	}
	if target < 0 {
		return status.Errorf(codes.InvalidArgument, "Attempted to seek to offset %d, before the start of the stream", target)
	}
	// Seeking past the end is permitted. The gap is zero filled as
	// soon as data is written there.
	ms.writePos = target
	return nil
}

func (ms *memoryStream) TellWrite() int64 {
	return ms.writePos
}

func (ms *memoryStream) Truncate(size int64) error {
	if size < 0 {
		return status.Errorf(codes.InvalidArgument, "Size %d is negative", size)
	}
	if size > int64(len(ms.data)) {
		ms.grow(size)
	} else {
		ms.data = ms.data[:size]
	}
	if ms.readPos > size {
		ms.readPos = size
	}
	if ms.writePos > size {
		ms.writePos = size
	}
	return nil
}

func (ms *memoryStream) Flush() error {
	return nil
}
