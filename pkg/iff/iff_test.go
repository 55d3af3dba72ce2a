package iff_test

import (
	"io"
	"testing"

	"github.com/camoto-project/gamecommon/pkg/iff"
	"github.com/camoto-project/gamecommon/pkg/stream"
	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestReader(t *testing.T) {
	t.Run("WalksChunksWithOddPadding", func(t *testing.T) {
		// "NAME" holds 5 bytes, so a pad byte precedes the next
		// chunk header.
		container := []byte("NAME\x00\x00\x00\x05HELLO\x00DATA\x00\x00\x00\x04\x01\x02\x03\x04")
		r, err := iff.Open(stream.NewMemoryStreamFromBytes(container), iff.BigEndian)
		require.NoError(t, err)

		id, sub, err := r.NextChunk()
		require.NoError(t, err)
		require.Equal(t, "NAME", id)
		payload, err := stream.ReadString(sub, 5)
		require.NoError(t, err)
		require.Equal(t, "HELLO", payload)

		id, sub, err = r.NextChunk()
		require.NoError(t, err)
		require.Equal(t, "DATA", id)
		size, err := sub.Size()
		require.NoError(t, err)
		require.Equal(t, int64(4), size)

		_, _, err = r.NextChunk()
		require.Equal(t, io.EOF, err)
	})

	t.Run("LittleEndianLengths", func(t *testing.T) {
		container := []byte("fmt \x02\x00\x00\x00AB")
		r, err := iff.Open(stream.NewMemoryStreamFromBytes(container), iff.LittleEndian)
		require.NoError(t, err)

		id, sub, err := r.NextChunk()
		require.NoError(t, err)
		require.Equal(t, "fmt ", id)
		payload, err := stream.ReadString(sub, 2)
		require.NoError(t, err)
		require.Equal(t, "AB", payload)

		_, _, err = r.NextChunk()
		require.Equal(t, io.EOF, err)
	})

	t.Run("TruncatedHeader", func(t *testing.T) {
		r, err := iff.Open(stream.NewMemoryStreamFromString("NAME\x00"), iff.BigEndian)
		require.NoError(t, err)
		_, _, err = r.NextChunk()
		require.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("LengthBeyondContainer", func(t *testing.T) {
		r, err := iff.Open(stream.NewMemoryStreamFromBytes([]byte("NAME\x00\x00\x00\xffAB")), iff.BigEndian)
		require.NoError(t, err)
		_, _, err = r.NextChunk()
		require.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestWriter(t *testing.T) {
	t.Run("BackPatchesLengths", func(t *testing.T) {
		ms := stream.NewMemoryStream()
		w := iff.NewWriter(ms, iff.BigEndian)

		require.NoError(t, w.BeginChunk("NAME"))
		require.NoError(t, stream.WriteString(ms, "HELLO"))
		require.NoError(t, w.EndChunk())
		require.NoError(t, w.BeginChunk("DATA"))
		require.NoError(t, stream.WriteFull(ms, []byte{0x01, 0x02, 0x03, 0x04}))
		require.NoError(t, w.EndChunk())

		require.Equal(t,
			[]byte("NAME\x00\x00\x00\x05HELLO\x00DATA\x00\x00\x00\x04\x01\x02\x03\x04"),
			stream.MemoryContents(ms))
	})

	t.Run("NestedChunks", func(t *testing.T) {
		ms := stream.NewMemoryStream()
		w := iff.NewWriter(ms, iff.LittleEndian)

		require.NoError(t, w.BeginChunk("RIFF"))
		require.NoError(t, stream.WriteString(ms, "WAVE"))
		require.NoError(t, w.BeginChunk("fmt "))
		require.NoError(t, stream.WriteString(ms, "AB"))
		require.NoError(t, w.EndChunk())
		require.NoError(t, w.EndChunk())

		// Outer length covers the form type and the whole inner
		// chunk.
		require.Equal(t,
			[]byte("RIFF\x0e\x00\x00\x00WAVEfmt \x02\x00\x00\x00AB"),
			stream.MemoryContents(ms))
	})

	t.Run("EndWithoutBegin", func(t *testing.T) {
		w := iff.NewWriter(stream.NewMemoryStream(), iff.BigEndian)
		require.Equal(t, codes.FailedPrecondition, status.Code(w.EndChunk()))
	})

	t.Run("RoundTrip", func(t *testing.T) {
		ms := stream.NewMemoryStream()
		w := iff.NewWriter(ms, iff.BigEndian)
		require.NoError(t, w.BeginChunk("BODY"))
		require.NoError(t, stream.WriteString(ms, "XYZ"))
		require.NoError(t, w.EndChunk())

		r, err := iff.Open(ms, iff.BigEndian)
		require.NoError(t, err)
		id, sub, err := r.NextChunk()
		require.NoError(t, err)
		require.Equal(t, "BODY", id)
		payload, err := stream.ReadString(sub, 3)
		require.NoError(t, err)
		require.Equal(t, "XYZ", payload)
		_, _, err = r.NextChunk()
		require.Equal(t, io.EOF, err)
	})
}
