package stream

import (
	"io"
	"os"

	"github.com/camoto-project/gamecommon/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FileStream is a Stream backed by a file on disk. Its read and write
// cursors are tracked independently of the operating system file
// offset, so interleaved reads and writes do not disturb each other.
type FileStream struct {
	file     *os.File
	readPos  int64
	writePos int64
	readOnly bool
}

var _ Stream = (*FileStream)(nil)

// OpenFileStream opens an existing file for reading and writing.
func OpenFileStream(path string) (*FileStream, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, convertFileError(err, path)
	}
	return &FileStream{file: f}, nil
}

// OpenFileStreamReadOnly opens an existing file for reading. Writes
// and truncation fail with FailedPrecondition; Flush does nothing.
func OpenFileStreamReadOnly(path string) (*FileStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, convertFileError(err, path)
	}
	return &FileStream{file: f, readOnly: true}, nil
}

// CreateFileStream creates a new file, or truncates an existing one,
// and opens it for reading and writing.
func CreateFileStream(path string) (*FileStream, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return nil, convertFileError(err, path)
	}
	return &FileStream{file: f}, nil
}

func convertFileError(err error, path string) error {
	code := codes.Internal
	switch {
	case os.IsNotExist(err):
		code = codes.NotFound
	case os.IsPermission(err):
		code = codes.PermissionDenied
	}
	return util.StatusWrapWithCode(err, code, "Failed to open \""+path+"\"")
}

func (fs *FileStream) TryRead(p []byte) (int, error) {
	n, err := fs.file.ReadAt(p, fs.readPos)
	if err != nil && err != io.EOF {
		return n, util.StatusWrapWithCode(err, codes.Internal, "Failed to read from file")
	}
	fs.readPos += int64(n)
	return n, nil
}

func (fs *FileStream) SeekRead(offset int64, whence Whence) error {
	size, err := fs.Size()
	if err != nil {
		return err
	}
	target, err := resolveSeek(offset, whence, fs.readPos, size)
	if err != nil {
		return err
	}
	if target < 0 {
		return status.Errorf(codes.InvalidArgument, "Attempted to seek to offset %d, before the start of the stream", target)
	}
	if target > size {
		return status.Errorf(codes.OutOfRange, "Attempted to seek to offset %d, beyond the end of the stream at %d", target, size)
	}
	fs.readPos = target
	return nil
}

func (fs *FileStream) TellRead() int64 {
	return fs.readPos
}

func (fs *FileStream) Size() (int64, error) {
	info, err := fs.file.Stat()
	if err != nil {
		return 0, util.StatusWrapWithCode(err, codes.Internal, "Failed to obtain file size")
	}
	return info.Size(), nil
}

func (fs *FileStream) TryWrite(p []byte) (int, error) {
	if fs.readOnly {
		return 0, status.Error(codes.FailedPrecondition, "Stream is read only")
	}
	n, err := fs.file.WriteAt(p, fs.writePos)
	fs.writePos += int64(n)
	if err != nil {
		return n, util.StatusWrapWithCode(err, codes.Internal, "Failed to write to file")
	}
	return n, nil
}

func (fs *FileStream) SeekWrite(offset int64, whence Whence) error {
	size, err := fs.Size()
	if err != nil {
		return err
	}
	target, err := resolveSeek(offset, whence, fs.writePos, size)
	if err != nil {
		return err
	}
	if target < 0 {
		return status.Errorf(codes.InvalidArgument, "Attempted to seek to offset %d, before the start of the stream", target)
	}
	// Seeking past the end is permitted. The file grows once data is
	// written there, with the gap zero filled by the operating
	// system.
	fs.writePos = target
	return nil
}

func (fs *FileStream) TellWrite() int64 {
	return fs.writePos
}

func (fs *FileStream) Truncate(size int64) error {
	if fs.readOnly {
		return status.Error(codes.FailedPrecondition, "Stream is read only")
	}
	if size < 0 {
		return status.Errorf(codes.InvalidArgument, "Size %d is negative", size)
	}
	if err := fs.file.Truncate(size); err != nil {
		return util.StatusWrapWithCode(err, codes.Internal, "Failed to truncate file")
	}
	if fs.readPos > size {
		fs.readPos = size
	}
	if fs.writePos > size {
		fs.writePos = size
	}
	return nil
}

func (fs *FileStream) Flush() error {
	if fs.readOnly {
		return nil
	}
	if err := fs.file.Sync(); err != nil {
		return util.StatusWrapWithCode(err, codes.Internal, "Failed to flush file")
	}
	return nil
}

// Close releases the underlying file descriptor. The stream must not
// be used afterwards.
func (fs *FileStream) Close() error {
	if err := fs.file.Close(); err != nil {
		return util.StatusWrapWithCode(err, codes.Internal, "Failed to close file")
	}
	return nil
}
