package intio_test

import (
	"testing"

	"github.com/camoto-project/gamecommon/pkg/intio"
	"github.com/camoto-project/gamecommon/pkg/stream"
	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIntegerByteOrder(t *testing.T) {
	ms := stream.NewMemoryStreamFromBytes([]byte{0x12, 0x34, 0x56, 0x78})

	v16, err := intio.ReadU16LE(ms)
	require.NoError(t, err)
	require.Equal(t, uint16(0x3412), v16)

	v16, err = intio.ReadU16BE(ms)
	require.NoError(t, err)
	require.Equal(t, uint16(0x5678), v16)

	require.NoError(t, ms.SeekRead(0, stream.Start))
	v32, err := intio.ReadU32LE(ms)
	require.NoError(t, err)
	require.Equal(t, uint32(0x78563412), v32)

	require.NoError(t, ms.SeekRead(0, stream.Start))
	v32, err = intio.ReadU32BE(ms)
	require.NoError(t, err)
	require.Equal(t, uint32(0x12345678), v32)
}

func TestIntegerRoundTrip(t *testing.T) {
	ms := stream.NewMemoryStream()
	require.NoError(t, intio.WriteU8(ms, 0xFE))
	require.NoError(t, intio.WriteU16LE(ms, 0x1234))
	require.NoError(t, intio.WriteU32BE(ms, 0xDEADBEEF))
	require.NoError(t, intio.WriteS16LE(ms, -2))
	require.NoError(t, intio.WriteU64LE(ms, 0x0102030405060708))

	v8, err := intio.ReadU8(ms)
	require.NoError(t, err)
	require.Equal(t, uint8(0xFE), v8)
	v16, err := intio.ReadU16LE(ms)
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), v16)
	v32, err := intio.ReadU32BE(ms)
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), v32)
	s16, err := intio.ReadS16LE(ms)
	require.NoError(t, err)
	require.Equal(t, int16(-2), s16)
	v64, err := intio.ReadU64LE(ms)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), v64)
}

func TestIntegerShortStream(t *testing.T) {
	ms := stream.NewMemoryStreamFromBytes([]byte{0x12})
	_, err := intio.ReadU32LE(ms)
	require.Equal(t, codes.OutOfRange, status.Code(err))
}

func TestPrefixedBytes(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		for _, width := range []int{1, 2, 4} {
			ms := stream.NewMemoryStream()
			require.NoError(t, intio.WritePrefixedBytes(ms, width, []byte("payload")))
			got, err := intio.ReadPrefixedBytes(ms, width)
			require.NoError(t, err)
			require.Equal(t, []byte("payload"), got)
		}
	})

	t.Run("TooLongForPrefix", func(t *testing.T) {
		ms := stream.NewMemoryStream()
		err := intio.WritePrefixedBytes(ms, 1, make([]byte, 256))
		require.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("InvalidWidth", func(t *testing.T) {
		ms := stream.NewMemoryStream()
		require.Equal(t, codes.InvalidArgument, status.Code(intio.WritePrefixedBytes(ms, 3, nil)))
		_, err := intio.ReadPrefixedBytes(ms, 3)
		require.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestPaddedString(t *testing.T) {
	t.Run("WritePadsToWidth", func(t *testing.T) {
		ms := stream.NewMemoryStream()
		require.NoError(t, intio.WritePaddedString(ms, "GAME", 8, 0))
		require.Equal(t, []byte("GAME\x00\x00\x00\x00"), stream.MemoryContents(ms))
	})

	t.Run("ReadChopsAtFirstNul", func(t *testing.T) {
		ms := stream.NewMemoryStreamFromBytes([]byte("GAME\x00X\x00\x00"))
		s, err := intio.ReadPaddedString(ms, 8, true)
		require.NoError(t, err)
		require.Equal(t, "GAME", s)
		// The whole field was consumed either way.
		require.Equal(t, int64(8), ms.TellRead())
	})

	t.Run("ReadKeepsNulsWithoutChop", func(t *testing.T) {
		ms := stream.NewMemoryStreamFromBytes([]byte("GAME\x00X\x00\x00"))
		s, err := intio.ReadPaddedString(ms, 8, false)
		require.NoError(t, err)
		require.Equal(t, "GAME\x00X\x00\x00", s)
	})

	t.Run("TooLongForField", func(t *testing.T) {
		ms := stream.NewMemoryStream()
		err := intio.WritePaddedString(ms, "OVERSIZED", 4, ' ')
		require.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}
