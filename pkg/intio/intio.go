// Package intio reads and writes fixed-width integers and
// length-delimited strings against the stream contracts, converting
// between byte order on the wire and native values.
package intio

import (
	"encoding/binary"

	"github.com/camoto-project/gamecommon/pkg/stream"
)

// ReadU8 reads one unsigned byte.
func ReadU8(r stream.Reader) (uint8, error) {
	var b [1]byte
	if err := stream.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16LE reads a little-endian unsigned 16 bit integer.
func ReadU16LE(r stream.Reader) (uint16, error) {
	var b [2]byte
	if err := stream.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// ReadU16BE reads a big-endian unsigned 16 bit integer.
func ReadU16BE(r stream.Reader) (uint16, error) {
	var b [2]byte
	if err := stream.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

// ReadU32LE reads a little-endian unsigned 32 bit integer.
func ReadU32LE(r stream.Reader) (uint32, error) {
	var b [4]byte
	if err := stream.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// ReadU32BE reads a big-endian unsigned 32 bit integer.
func ReadU32BE(r stream.Reader) (uint32, error) {
	var b [4]byte
	if err := stream.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

// ReadU64LE reads a little-endian unsigned 64 bit integer.
func ReadU64LE(r stream.Reader) (uint64, error) {
	var b [8]byte
	if err := stream.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// ReadU64BE reads a big-endian unsigned 64 bit integer.
func ReadU64BE(r stream.Reader) (uint64, error) {
	var b [8]byte
	if err := stream.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

// ReadS8 reads one signed byte.
func ReadS8(r stream.Reader) (int8, error) {
	v, err := ReadU8(r)
	return int8(v), err
}

// ReadS16LE reads a little-endian signed 16 bit integer.
func ReadS16LE(r stream.Reader) (int16, error) {
	v, err := ReadU16LE(r)
	return int16(v), err
}

// ReadS16BE reads a big-endian signed 16 bit integer.
func ReadS16BE(r stream.Reader) (int16, error) {
	v, err := ReadU16BE(r)
	return int16(v), err
}

// ReadS32LE reads a little-endian signed 32 bit integer.
func ReadS32LE(r stream.Reader) (int32, error) {
	v, err := ReadU32LE(r)
	return int32(v), err
}

// ReadS32BE reads a big-endian signed 32 bit integer.
func ReadS32BE(r stream.Reader) (int32, error) {
	v, err := ReadU32BE(r)
	return int32(v), err
}

// ReadS64LE reads a little-endian signed 64 bit integer.
func ReadS64LE(r stream.Reader) (int64, error) {
	v, err := ReadU64LE(r)
	return int64(v), err
}

// ReadS64BE reads a big-endian signed 64 bit integer.
func ReadS64BE(r stream.Reader) (int64, error) {
	v, err := ReadU64BE(r)
	return int64(v), err
}

// WriteU8 writes one unsigned byte.
func WriteU8(w stream.Writer, v uint8) error {
	return stream.WriteFull(w, []byte{v})
}

// WriteU16LE writes a little-endian unsigned 16 bit integer.
func WriteU16LE(w stream.Writer, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return stream.WriteFull(w, b[:])
}

// WriteU16BE writes a big-endian unsigned 16 bit integer.
func WriteU16BE(w stream.Writer, v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return stream.WriteFull(w, b[:])
}

// WriteU32LE writes a little-endian unsigned 32 bit integer.
func WriteU32LE(w stream.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return stream.WriteFull(w, b[:])
}

// WriteU32BE writes a big-endian unsigned 32 bit integer.
func WriteU32BE(w stream.Writer, v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return stream.WriteFull(w, b[:])
}

// WriteU64LE writes a little-endian unsigned 64 bit integer.
func WriteU64LE(w stream.Writer, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return stream.WriteFull(w, b[:])
}

// WriteU64BE writes a big-endian unsigned 64 bit integer.
func WriteU64BE(w stream.Writer, v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return stream.WriteFull(w, b[:])
}

// WriteS8 writes one signed byte.
func WriteS8(w stream.Writer, v int8) error {
	return WriteU8(w, uint8(v))
}

// WriteS16LE writes a little-endian signed 16 bit integer.
func WriteS16LE(w stream.Writer, v int16) error {
	return WriteU16LE(w, uint16(v))
}

// WriteS16BE writes a big-endian signed 16 bit integer.
func WriteS16BE(w stream.Writer, v int16) error {
	return WriteU16BE(w, uint16(v))
}

// WriteS32LE writes a little-endian signed 32 bit integer.
func WriteS32LE(w stream.Writer, v int32) error {
	return WriteU32LE(w, uint32(v))
}

// WriteS32BE writes a big-endian signed 32 bit integer.
func WriteS32BE(w stream.Writer, v int32) error {
	return WriteU32BE(w, uint32(v))
}

// WriteS64LE writes a little-endian signed 64 bit integer.
func WriteS64LE(w stream.Writer, v int64) error {
	return WriteU64LE(w, uint64(v))
}

// WriteS64BE writes a big-endian signed 64 bit integer.
func WriteS64BE(w stream.Writer, v int64) error {
	return WriteU64BE(w, uint64(v))
}
