package filter

import (
	"bytes"
	"io"

	"github.com/camoto-project/gamecommon/pkg/util"
	"github.com/klauspost/compress/flate"

	"google.golang.org/grpc/codes"
)

// deflateCompressor buffers its whole input and emits the DEFLATE
// encoding of it once the end of input is signalled. Whole-stream
// buffering keeps the emitted data identical regardless of how the
// input was chunked.
type deflateCompressor struct {
	input   []byte
	encoded []byte
	coded   bool
}

// NewDeflateCompressor creates a Filter that DEFLATE compresses the
// data passing through it. Once drained, the filter resets and can
// encode a fresh stream.
func NewDeflateCompressor() Filter {
	return &deflateCompressor{}
}

func (f *deflateCompressor) Transform(out, in []byte) (int, int, error) {
	if len(in) > 0 {
		f.input = append(f.input, in...)
		return 0, len(in), nil
	}
	if f.coded && len(f.encoded) == 0 {
		*f = deflateCompressor{}
		return 0, 0, nil
	}
	if !f.coded {
		var buf bytes.Buffer
		w, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			return 0, 0, util.StatusWrapWithCode(err, codes.Internal, "Failed to create DEFLATE writer")
		}
		if _, err := w.Write(f.input); err != nil {
			return 0, 0, util.StatusWrapWithCode(err, codes.Internal, "Failed to compress data")
		}
		if err := w.Close(); err != nil {
			return 0, 0, util.StatusWrapWithCode(err, codes.Internal, "Failed to compress data")
		}
		f.encoded = buf.Bytes()
		f.coded = true
	}
	n := copy(out, f.encoded)
	f.encoded = f.encoded[n:]
	return n, 0, nil
}

// deflateDecompressor buffers its whole input and emits the decoded
// bytes once the end of input is signalled.
type deflateDecompressor struct {
	input   []byte
	decoded []byte
	coded   bool
}

// NewDeflateDecompressor creates a Filter that decompresses DEFLATE
// data passing through it. Corrupt input surfaces as an
// InvalidArgument error at end of input. Once drained, the filter
// resets and can decode a fresh stream.
func NewDeflateDecompressor() Filter {
	return &deflateDecompressor{}
}

func (f *deflateDecompressor) Transform(out, in []byte) (int, int, error) {
	if len(in) > 0 {
		f.input = append(f.input, in...)
		return 0, len(in), nil
	}
	if f.coded && len(f.decoded) == 0 {
		*f = deflateDecompressor{}
		return 0, 0, nil
	}
	if !f.coded {
		r := flate.NewReader(bytes.NewReader(f.input))
		decoded, err := io.ReadAll(r)
		if err != nil {
			r.Close()
			return 0, 0, util.StatusWrapWithCode(err, codes.InvalidArgument, "Failed to decompress data")
		}
		if err := r.Close(); err != nil {
			return 0, 0, util.StatusWrapWithCode(err, codes.InvalidArgument, "Failed to decompress data")
		}
		f.decoded = decoded
		f.coded = true
	}
	n := copy(out, f.decoded)
	f.decoded = f.decoded[n:]
	return n, 0, nil
}
