package segment

// FixedBitReader decodes a packed dictionary-id forward index: M values
// each occupying exactly b bits of a big-endian bit stream (bit 0 is the
// most significant bit of byte 0), per §4.5.
type FixedBitReader struct {
	buf       []byte
	bitsWidth int
	numValues int
}

// readFixedBitWidth loads a packed forward-index block at [offset,
// offset+size). The leading 8-byte magic marker is skipped but, per §4.5,
// not re-validated (its presence is already implied by the dictionary's own
// contract).
func readFixedBitWidth(blob dataBlob, loc IndexLocation, bitsPerValue int, numValues int) (*FixedBitReader, error) {
	buf, err := blob.readAt(loc.StartOffset, loc.Size)
	if err != nil {
		return nil, err
	}
	if len(buf) < 8 {
		return nil, invalidFormatErr("fixed-bit-width block too short: %d bytes", len(buf))
	}

	needed := (numValues*bitsPerValue + 7) / 8
	packed := buf[8:]
	if len(packed) < needed {
		return nil, invalidFormatErr("fixed-bit-width block has %d packed bytes, need %d", len(packed), needed)
	}

	return &FixedBitReader{buf: packed, bitsWidth: bitsPerValue, numValues: numValues}, nil
}

// Get decodes the value at index i. This is a direct implementation of the
// §4.5 algorithm; it must be treated as bit-for-bit normative, including at
// boundary widths (b ∈ {1, 7, 8, 9, 31}).
func (r *FixedBitReader) Get(i int) (uint32, error) {
	if i < 0 || i >= r.numValues {
		return 0, invalidFormatErr("fixed-bit-width index %d out of range [0,%d)", i, r.numValues)
	}

	b := r.bitsWidth
	bitOff := i * b
	byteOff := bitOff / 8
	lead := bitOff % 8

	if byteOff >= len(r.buf) {
		return 0, invalidFormatErr("fixed-bit-width index %d out of bounds", i)
	}

	acc := uint32(r.buf[byteOff]) & (0xFF >> uint(lead))
	remaining := b - (8 - lead)

	if remaining <= 0 {
		return acc >> uint(-remaining), nil
	}

	for remaining > 8 {
		byteOff++
		if byteOff >= len(r.buf) {
			return 0, invalidFormatErr("fixed-bit-width index %d out of bounds", i)
		}
		acc = (acc << 8) | uint32(r.buf[byteOff])
		remaining -= 8
	}

	byteOff++
	if byteOff >= len(r.buf) {
		return 0, invalidFormatErr("fixed-bit-width index %d out of bounds", i)
	}
	result := (acc << uint(remaining)) | (uint32(r.buf[byteOff]) >> uint(8-remaining))

	return result, nil
}

// ReadAll decodes every value in doc-id order. Implementations may optimize
// this relative to repeated Get calls, but the result must always be
// equivalent to per-index decoding (§4.5).
func (r *FixedBitReader) ReadAll() ([]uint32, error) {
	out := make([]uint32, r.numValues)
	for i := range out {
		v, err := r.Get(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
