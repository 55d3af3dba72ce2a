package stream_test

import (
	"testing"

	"github.com/camoto-project/gamecommon/pkg/stream"
	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestSubStream(t *testing.T) {
	t.Run("WindowMustFitInsideParent", func(t *testing.T) {
		parent := stream.NewMemoryStreamFromString("ABCDEFGHIJ")
		_, err := stream.NewSubStream(parent, 8, 5)
		require.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("ReadsAreTranslatedAndClipped", func(t *testing.T) {
		parent := stream.NewMemoryStreamFromString("ABCDEFGHIJ")
		sub, err := stream.NewSubStream(parent, 3, 4)
		require.NoError(t, err)

		size, err := sub.Size()
		require.NoError(t, err)
		require.Equal(t, int64(4), size)

		p := make([]byte, 10)
		n, err := sub.TryRead(p)
		require.NoError(t, err)
		require.Equal(t, 4, n)
		require.Equal(t, []byte("DEFG"), p[:n])

		n, err = sub.TryRead(p)
		require.NoError(t, err)
		require.Equal(t, 0, n)
	})

	t.Run("WritesAreTranslatedAndClipped", func(t *testing.T) {
		parent := stream.NewMemoryStreamFromString("ABCDEFGHIJ")
		sub, err := stream.NewSubStream(parent, 3, 4)
		require.NoError(t, err)

		n, err := sub.TryWrite([]byte("123456"))
		require.NoError(t, err)
		require.Equal(t, 4, n)
		require.Equal(t, []byte("ABC1234HIJ"), stream.MemoryContents(parent))
	})

	t.Run("SeeksClampToWindow", func(t *testing.T) {
		parent := stream.NewMemoryStreamFromString("ABCDEFGHIJ")
		sub, err := stream.NewSubStream(parent, 3, 4)
		require.NoError(t, err)

		require.NoError(t, sub.SeekRead(100, stream.Start))
		require.Equal(t, int64(4), sub.TellRead())

		require.NoError(t, sub.SeekRead(-100, stream.Current))
		require.Equal(t, int64(0), sub.TellRead())

		require.NoError(t, sub.SeekRead(-1, stream.End))
		require.Equal(t, int64(3), sub.TellRead())
	})

	t.Run("TruncateIsRejected", func(t *testing.T) {
		parent := stream.NewMemoryStreamFromString("ABCDEFGHIJ")
		sub, err := stream.NewSubStream(parent, 3, 4)
		require.NoError(t, err)
		require.Equal(t, codes.FailedPrecondition, status.Code(sub.Truncate(2)))
	})

	t.Run("ResizeIsBookkeepingOnly", func(t *testing.T) {
		parent := stream.NewMemoryStreamFromString("ABCDEFGHIJ")
		sub, err := stream.NewSubStream(parent, 3, 4)
		require.NoError(t, err)

		require.NoError(t, sub.SeekRead(0, stream.End))
		require.NoError(t, sub.Resize(2))
		require.Equal(t, int64(2), sub.TellRead())
		size, err := sub.Size()
		require.NoError(t, err)
		require.Equal(t, int64(2), size)
		require.Equal(t, []byte("ABCDEFGHIJ"), stream.MemoryContents(parent))
	})

	t.Run("RelocateMovesTheWindow", func(t *testing.T) {
		parent := stream.NewMemoryStreamFromString("ABCDEFGHIJ")
		sub, err := stream.NewSubStream(parent, 3, 4)
		require.NoError(t, err)

		require.NoError(t, sub.Relocate(2))
		require.Equal(t, int64(5), sub.Offset())
		s, err := stream.ReadString(sub, 4)
		require.NoError(t, err)
		require.Equal(t, "FGHI", s)

		require.Equal(t, codes.InvalidArgument, status.Code(sub.Relocate(-10)))
	})
}
