package segment

import (
	"encoding/binary"
	"math"
)

// decode.go holds pure byte-slice -> value conversions, following the same
// read/interpret split the wider forward-index and dictionary decoders are
// built on: a function takes a slice known to be the right length and
// returns the typed value, doing no bounds-checking of its own.

// magicMarker is the 8-byte big-endian sentinel written at the start of
// every dictionary and fixed-bit-width packed forward-index block.
const magicMarker uint64 = 0xDEADBEEFDEAFBEAD

func beUint32(b []byte) uint32   { return binary.BigEndian.Uint32(b) }
func beUint64(b []byte) uint64   { return binary.BigEndian.Uint64(b) }
func beInt32(b []byte) int32     { return int32(binary.BigEndian.Uint32(b)) }
func beInt64(b []byte) int64     { return int64(binary.BigEndian.Uint64(b)) }
func beFloat32(b []byte) float32 { return math.Float32frombits(binary.BigEndian.Uint32(b)) }
func beFloat64(b []byte) float64 { return math.Float64frombits(binary.BigEndian.Uint64(b)) }
