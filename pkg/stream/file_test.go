package stream_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/camoto-project/gamecommon/pkg/stream"
	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestFileStream(t *testing.T) {
	t.Run("CreateWriteReopenRead", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.bin")

		fs, err := stream.CreateFileStream(path)
		require.NoError(t, err)
		require.NoError(t, stream.WriteString(fs, "ABCDEFGH"))
		require.NoError(t, fs.Flush())
		require.NoError(t, fs.Close())

		fs, err = stream.OpenFileStream(path)
		require.NoError(t, err)
		defer fs.Close()
		size, err := fs.Size()
		require.NoError(t, err)
		require.Equal(t, int64(8), size)
		got, err := stream.ReadString(fs, 8)
		require.NoError(t, err)
		require.Equal(t, "ABCDEFGH", got)
	})

	t.Run("IndependentCursors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.bin")
		fs, err := stream.CreateFileStream(path)
		require.NoError(t, err)
		defer fs.Close()

		require.NoError(t, stream.WriteString(fs, "ABCDEFGH"))
		require.NoError(t, fs.SeekWrite(4, stream.Start))
		got, err := stream.ReadString(fs, 2)
		require.NoError(t, err)
		require.Equal(t, "AB", got)
		require.NoError(t, stream.WriteString(fs, "12"))

		require.NoError(t, fs.SeekRead(0, stream.Start))
		got, err = stream.ReadString(fs, 8)
		require.NoError(t, err)
		require.Equal(t, "ABCD12GH", got)
	})

	t.Run("TruncateClampsCursors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.bin")
		fs, err := stream.CreateFileStream(path)
		require.NoError(t, err)
		defer fs.Close()

		require.NoError(t, stream.WriteString(fs, "ABCDEFGH"))
		require.NoError(t, fs.Truncate(4))
		require.Equal(t, int64(4), fs.TellWrite())
		size, err := fs.Size()
		require.NoError(t, err)
		require.Equal(t, int64(4), size)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := stream.OpenFileStream(filepath.Join(t.TempDir(), "absent.bin"))
		require.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("ReadOnly", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.bin")
		require.NoError(t, os.WriteFile(path, []byte("ABCD"), 0o644))

		fs, err := stream.OpenFileStreamReadOnly(path)
		require.NoError(t, err)
		defer fs.Close()

		got, err := stream.ReadString(fs, 4)
		require.NoError(t, err)
		require.Equal(t, "ABCD", got)

		_, err = fs.TryWrite([]byte("X"))
		require.Equal(t, codes.FailedPrecondition, status.Code(err))
		require.Equal(t, codes.FailedPrecondition, status.Code(fs.Truncate(2)))
	})
}
