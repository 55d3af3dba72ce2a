// Package bitstream provides sub-byte reads and writes on top of a
// byte oriented stream.
//
// A BitStream tracks its position in bits. Values narrower than a
// byte are packed according to the configured endianness:
// little-endian fills each byte starting at its least significant
// bit, big-endian starting at its most significant bit. Writes that
// cover part of a byte are merged with the byte already in the
// backing, so interleaved reads and writes at arbitrary bit
// boundaries observe each other's effects.
package bitstream

import (
	"github.com/camoto-project/gamecommon/pkg/stream"
	"github.com/camoto-project/gamecommon/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Endian selects the bit packing order within each byte.
type Endian int

const (
	// LittleEndian packs values starting at the least significant
	// bit of each byte.
	LittleEndian Endian = iota
	// BigEndian packs values starting at the most significant bit of
	// each byte.
	BigEndian
)

// BitStream adapts a byte oriented stream to bit granularity.
type BitStream struct {
	backing stream.Stream
	endian  Endian

	// pos is the absolute position in bits.
	pos int64

	// One-byte cache through which all reads and writes pass.
	// cacheOff is the byte offset in the backing, or -1 when the
	// cache is empty. dirty marks bits not yet written back.
	cacheOff  int64
	cacheByte byte
	dirty     bool
}

// New creates a BitStream on top of backing, starting at bit 0.
func New(backing stream.Stream, e Endian) *BitStream {
	return &BitStream{
		backing:  backing,
		endian:   e,
		cacheOff: -1,
	}
}

// writeBack flushes a dirty cached byte into the backing. The cache
// stays valid for further reads and writes at the same offset.
func (bs *BitStream) writeBack() error {
	if !bs.dirty {
		return nil
	}
	if err := bs.backing.SeekWrite(bs.cacheOff, stream.Start); err != nil {
		return util.StatusWrap(err, "Failed to seek to cached byte")
	}
	if err := stream.WriteFull(bs.backing, []byte{bs.cacheByte}); err != nil {
		return util.StatusWrap(err, "Failed to write back cached byte")
	}
	bs.dirty = false
	return nil
}

// loadForRead fills the cache with the byte at byteOff. It returns
// false when the backing ends before that byte.
func (bs *BitStream) loadForRead(byteOff int64) (bool, error) {
	if bs.cacheOff == byteOff {
		return true, nil
	}
	if err := bs.writeBack(); err != nil {
		return false, err
	}
	size, err := bs.backing.Size()
	if err != nil {
		return false, err
	}
	if byteOff >= size {
		return false, nil
	}
	if err := bs.backing.SeekRead(byteOff, stream.Start); err != nil {
		return false, util.StatusWrapf(err, "Failed to seek to byte %d", byteOff)
	}
	var b [1]byte
	if err := stream.ReadFull(bs.backing, b[:]); err != nil {
		return false, err
	}
	bs.cacheOff = byteOff
	bs.cacheByte = b[0]
	return true, nil
}

// loadForWrite fills the cache with the byte at byteOff, producing a
// zero byte when the backing ends before it, so writes past the end
// extend the stream.
func (bs *BitStream) loadForWrite(byteOff int64) error {
	ok, err := bs.loadForRead(byteOff)
	if err != nil {
		return err
	}
	if !ok {
		bs.cacheOff = byteOff
		bs.cacheByte = 0
	}
	return nil
}

// Read reads the next n bits, 1 <= n <= 32, and returns them as an
// unsigned value together with the number of bits consumed.
//
// At the end of the stream a little-endian read returns the bits that
// were available with their count, while a big-endian read pads the
// value with zero bits up to the requested width and reports the full
// count. A read that starts at the end returns (0, 0, nil).
func (bs *BitStream) Read(n int) (uint32, int, error) {
	if n < 1 || n > 32 {
		return 0, 0, status.Errorf(codes.InvalidArgument, "Bit count %d is not in [1, 32]", n)
	}
	var value uint32
	bitsRead := 0
	for bitsRead < n {
		byteOff := bs.pos / 8
		bit := int(bs.pos % 8)
		ok, err := bs.loadForRead(byteOff)
		if err != nil {
			return 0, 0, err
		}
		if !ok {
			if bitsRead == 0 {
				return 0, 0, nil
			}
			if bs.endian == BigEndian {
				value <<= uint(n - bitsRead)
				bitsRead = n
			}
			return value, bitsRead, nil
		}
		take := 8 - bit
		if rem := n - bitsRead; take > rem {
			take = rem
		}
		mask := byte(1<<uint(take) - 1)
		if bs.endian == LittleEndian {
			chunk := (bs.cacheByte >> uint(bit)) & mask
			value |= uint32(chunk) << uint(bitsRead)
		} else {
			chunk := (bs.cacheByte >> uint(8-bit-take)) & mask
			value = value<<uint(take) | uint32(chunk)
		}
		bitsRead += take
		bs.pos += int64(take)
	}
	return value, bitsRead, nil
}

// Write writes the low n bits of value, 1 <= n <= 32. Bits of value
// above the low n must be zero. Writes past the end of the backing
// extend it.
func (bs *BitStream) Write(n int, value uint32) (int, error) {
	if n < 1 || n > 32 {
		return 0, status.Errorf(codes.InvalidArgument, "Bit count %d is not in [1, 32]", n)
	}
	if n < 32 && value >= 1<<uint(n) {
		return 0, status.Errorf(codes.InvalidArgument, "Value %d does not fit in %d bits", value, n)
	}
	rem := n
	for rem > 0 {
		byteOff := bs.pos / 8
		bit := int(bs.pos % 8)
		if err := bs.loadForWrite(byteOff); err != nil {
			return n - rem, err
		}
		take := 8 - bit
		if take > rem {
			take = rem
		}
		mask := byte(1<<uint(take) - 1)
		var chunk, shift byte
		if bs.endian == LittleEndian {
			chunk = byte(value) & mask
			value >>= uint(take)
			shift = byte(bit)
		} else {
			chunk = byte(value>>uint(rem-take)) & mask
			shift = byte(8 - bit - take)
		}
		bs.cacheByte = bs.cacheByte&^(mask<<shift) | chunk<<shift
		bs.dirty = true
		rem -= take
		bs.pos += int64(take)
	}
	return n, nil
}

// Seek repositions the stream to an absolute or relative bit offset
// and returns the new position in bits. Any pending partial byte is
// written back first. Seeking before bit 0 is InvalidArgument;
// seeking beyond the end of the backing is OutOfRange.
func (bs *BitStream) Seek(offset int64, whence stream.Whence) (int64, error) {
	if err := bs.writeBack(); err != nil {
		return bs.pos, err
	}
	size, err := bs.backing.Size()
	if err != nil {
		return bs.pos, err
	}
	sizeBits := size * 8
	var target int64
	switch whence {
	case stream.Start:
		target = offset
	case stream.Current:
		target = bs.pos + offset
	case stream.End:
		target = sizeBits + offset
	default:
		return bs.pos, status.Errorf(codes.InvalidArgument, "Invalid whence value %d", whence)
	}
	if target < 0 {
		return bs.pos, status.Errorf(codes.InvalidArgument, "Attempted to seek to bit %d, before the start of the stream", target)
	}
	if target > sizeBits {
		return bs.pos, status.Errorf(codes.OutOfRange, "Attempted to seek to bit %d, beyond the end of the stream at %d", target, sizeBits)
	}
	bs.pos = target
	return bs.pos, nil
}

// Tell returns the current position in bits.
func (bs *BitStream) Tell() int64 {
	return bs.pos
}

// Flush writes any pending partial byte back into the backing and
// flushes the backing. The position is unchanged and further bit
// writes continue to merge into the same byte.
func (bs *BitStream) Flush() error {
	if err := bs.writeBack(); err != nil {
		return err
	}
	return bs.backing.Flush()
}

// ChangeEndian switches the bit packing order from the current
// position onward. A pending partial byte is written back first, so
// bits already written keep their original packing.
func (bs *BitStream) ChangeEndian(e Endian) error {
	if err := bs.writeBack(); err != nil {
		return err
	}
	bs.endian = e
	return nil
}
