package stream

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Whence controls how a seek offset is interpreted.
type Whence int

const (
	// Start seeks relative to the beginning of the stream.
	Start Whence = iota
	// Current seeks relative to the stream's current position.
	Current
	// End seeks relative to the end of the stream.
	End
)

// Reader provides random access reads over a byte sequence. The read
// position is independent of any write position the same object may
// carry.
type Reader interface {
	// TryRead reads up to len(p) bytes at the current read position,
	// advancing it by the number of bytes read. Reads that run into
	// the end of the stream return a short count without error; a
	// read entirely at the end returns (0, nil).
	TryRead(p []byte) (int, error)

	// SeekRead repositions the read cursor. Seeking before the start
	// of the stream fails with InvalidArgument; seeking past the end
	// fails with OutOfRange. SubStream and the segmented overlay
	// instead clamp out of range targets to the nearest end.
	SeekRead(offset int64, whence Whence) error

	// TellRead returns the current read position.
	TellRead() int64

	// Size returns the current length of the stream in bytes.
	Size() (int64, error)
}

// Writer provides random access writes over a byte sequence.
type Writer interface {
	// TryWrite writes up to len(p) bytes at the current write
	// position, advancing it by the number of bytes written. Writers
	// with a fixed length return a short count when the write runs
	// into the end.
	TryWrite(p []byte) (int, error)

	// SeekWrite repositions the write cursor. The memory and file
	// streams, unlike SeekRead, permit seeking past the current end;
	// the gap is zero filled once data is written there. Other
	// implementations bound write seeks the same way as SeekRead.
	SeekWrite(offset int64, whence Whence) error

	// TellWrite returns the current write position.
	TellWrite() int64

	// Size returns the current length of the stream in bytes.
	Size() (int64, error)

	// Truncate sets the length of the stream. Both cursors are
	// clamped to the new length.
	Truncate(size int64) error

	// Flush writes any buffered data through to the underlying
	// storage.
	Flush() error
}

// Stream provides combined random access reads and writes over a
// single byte sequence.
type Stream interface {
	Reader
	Writer
}

// TruncateCallback is invoked when a stream needs its underlying
// storage resized to the given number of bytes. It is used where the
// stream object itself cannot resize its backing, such as a window
// into a larger file whose directory structures must be rewritten
// first.
type TruncateCallback func(size int64) error

// ReadFull reads exactly len(p) bytes. A short read is converted into
// an OutOfRange error, with any partial data left in p.
func ReadFull(r Reader, p []byte) error {
	total := 0
	for total < len(p) {
		n, err := r.TryRead(p[total:])
		if err != nil {
			return err
		}
		if n == 0 {
			return status.Errorf(codes.OutOfRange, "Incomplete read: got %d bytes, wanted %d", total, len(p))
		}
		total += n
	}
	return nil
}

// WriteFull writes exactly len(p) bytes. A short write is converted
// into an OutOfRange error.
func WriteFull(w Writer, p []byte) error {
	total := 0
	for total < len(p) {
		n, err := w.TryWrite(p[total:])
		if err != nil {
			return err
		}
		if n == 0 {
			return status.Errorf(codes.OutOfRange, "Incomplete write: wrote %d bytes, wanted %d", total, len(p))
		}
		total += n
	}
	return nil
}

// ReadString reads exactly n bytes and returns them as a string.
func ReadString(r Reader, n int) (string, error) {
	p := make([]byte, n)
	if err := ReadFull(r, p); err != nil {
		return "", err
	}
	return string(p), nil
}

// WriteString writes the bytes of s in full.
func WriteString(w Writer, s string) error {
	return WriteFull(w, []byte(s))
}

// Copy reads from r until the end of the stream, writing everything to
// w. It returns the number of bytes copied.
func Copy(w Writer, r Reader) (int64, error) {
	var buf [4096]byte
	var total int64
	for {
		n, err := r.TryRead(buf[:])
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, nil
		}
		if err := WriteFull(w, buf[:n]); err != nil {
			return total, err
		}
		total += int64(n)
	}
}
