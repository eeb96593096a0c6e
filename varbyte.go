package segment

import (
	"encoding/binary"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// compressionType is the compression scheme applied to each chunk of a
// var-byte v4 forward index, per §4.6.
type compressionType int32

const (
	compressionPassthrough compressionType = 0
	compressionSnappy      compressionType = 1
	compressionZstd        compressionType = 2
	compressionLZ4Block    compressionType = 3
	compressionLZ4Prefixed compressionType = 4
)

// chunkEntry is one little-endian metadata entry: the first doc-id of a
// chunk (with the top bit repurposed as the "huge value" flag) and the
// chunk's byte offset within the chunks section.
type chunkEntry struct {
	firstDocID int64
	isHuge     bool
	offset     uint32
}

// VarByteReader decodes a version-4 variable-byte chunked forward index,
// used for RAW (dictionary-less) String/Bytes columns.
type VarByteReader struct {
	compression   compressionType
	targetChunk   int32
	chunksStart   int64
	entries       []chunkEntry
	chunksSection []byte
}

// readVarByte parses the header and metadata section at [offset,
// offset+size) of the data blob and prepares a reader over the chunks
// section. The chunks themselves are decompressed on demand: each
// GetString/GetBytes call decompresses the chunk holding its doc, and
// ReadAll* decompresses every physical chunk once.
func readVarByte(blob dataBlob, loc IndexLocation) (*VarByteReader, error) {
	buf, err := blob.readAt(loc.StartOffset, loc.Size)
	if err != nil {
		return nil, err
	}

	pos := 0
	// The 8-byte magic marker is optional: probe for it and skip past it
	// if present, otherwise read the header from the very start.
	if len(buf) >= 8 && binary.BigEndian.Uint64(buf[:8]) == magicMarker {
		pos = 8
	}

	if len(buf) < pos+16 {
		return nil, invalidFormatErr("var-byte header too short: %d bytes", len(buf))
	}

	header := buf[pos : pos+16]
	version := beInt32(header[0:4])
	if version != 4 {
		return nil, invalidFormatErr("var-byte header: expected version 4, got %d", version)
	}
	targetChunk := beInt32(header[4:8])
	compression := compressionType(beInt32(header[8:12]))
	chunksStartOffset := beInt32(header[12:16])

	metaStart := pos + 16
	chunksStart := int64(pos) + int64(chunksStartOffset)
	if chunksStart < int64(metaStart) || chunksStart > int64(len(buf)) {
		return nil, invalidFormatErr("var-byte chunks_start_offset %d out of bounds", chunksStartOffset)
	}

	metaBytes := buf[metaStart:chunksStart]
	if len(metaBytes)%8 != 0 {
		return nil, invalidFormatErr("var-byte metadata section length %d not a multiple of 8", len(metaBytes))
	}
	numEntries := len(metaBytes) / 8

	entries := make([]chunkEntry, 0, numEntries)
	for i := 0; i < numEntries; i++ {
		e := metaBytes[i*8 : i*8+8]
		docIDAndFlag := binary.LittleEndian.Uint32(e[0:4])
		chunkOffset := binary.LittleEndian.Uint32(e[4:8])

		entry := chunkEntry{
			firstDocID: int64(docIDAndFlag & 0x7FFFFFFF),
			isHuge:     docIDAndFlag&0x80000000 != 0,
			offset:     chunkOffset,
		}

		// A sentinel chunk_offset of 0xFFFFFFFF marks the preceding entry as
		// the last real chunk; the sentinel entry and any after it are dropped.
		if chunkOffset == 0xFFFFFFFF {
			break
		}
		entries = append(entries, entry)
	}

	return &VarByteReader{
		compression:   compression,
		targetChunk:   targetChunk,
		chunksStart:   chunksStart,
		entries:       entries,
		chunksSection: buf[chunksStart:],
	}, nil
}

// chunkSpan returns the compressed byte range of chunk i within the chunks
// section, using the next entry's offset as the end (or the end of the
// forward-index block for the last chunk).
func (r *VarByteReader) chunkSpan(i int) (start, end uint32) {
	start = r.entries[i].offset
	if i+1 < len(r.entries) {
		end = r.entries[i+1].offset
	} else {
		end = uint32(len(r.chunksSection))
	}
	return start, end
}

// decompressChunk returns the decompressed bytes of physical chunk i.
func (r *VarByteReader) decompressChunk(i int) ([]byte, error) {
	start, end := r.chunkSpan(i)
	if start > end || end > uint32(len(r.chunksSection)) {
		return nil, invalidFormatErr("var-byte chunk %d has invalid byte range [%d,%d)", i, start, end)
	}
	raw := r.chunksSection[start:end]

	switch r.compression {
	case compressionPassthrough:
		return raw, nil

	case compressionSnappy:
		out, err := snappy.Decode(nil, raw)
		if err != nil {
			return nil, invalidFormatErr("var-byte chunk %d: snappy decode failed: %v", i, err)
		}
		return out, nil

	case compressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, invalidFormatErr("var-byte chunk %d: zstd init failed: %v", i, err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(raw, nil)
		if err != nil {
			return nil, invalidFormatErr("var-byte chunk %d: zstd decode failed: %v", i, err)
		}
		return out, nil

	case compressionLZ4Block:
		out := make([]byte, r.targetChunk)
		n, err := lz4.UncompressBlock(raw, out)
		if err != nil {
			return nil, invalidFormatErr("var-byte chunk %d: lz4 decode failed: %v", i, err)
		}
		return out[:n], nil

	case compressionLZ4Prefixed:
		if len(raw) < 4 {
			return nil, invalidFormatErr("var-byte chunk %d: lz4-prefixed payload too short", i)
		}
		decompressedLen := binary.LittleEndian.Uint32(raw[:4])
		out := make([]byte, decompressedLen)
		n, err := lz4.UncompressBlock(raw[4:], out)
		if err != nil {
			return nil, invalidFormatErr("var-byte chunk %d: lz4-prefixed decode failed: %v", i, err)
		}
		return out[:n], nil

	default:
		return nil, unsupportedErr("unknown compression type %d", r.compression)
	}
}

// valuesInChunk splits a decompressed chunk payload into its values. A huge
// chunk contains a single value spanning the whole payload; a regular chunk
// has a little-endian num_docs header followed by an offset table.
func valuesInChunk(payload []byte, isHuge bool) ([][]byte, error) {
	if isHuge {
		return [][]byte{payload}, nil
	}

	if len(payload) < 4 {
		return nil, invalidFormatErr("chunk payload too short for num_docs header")
	}
	numDocs := int(binary.LittleEndian.Uint32(payload[:4]))

	offsetsStart := 4
	offsetsEnd := offsetsStart + numDocs*4
	if offsetsEnd > len(payload) {
		return nil, invalidFormatErr("chunk offset table out of bounds")
	}

	// offset[k] is the byte position of value k within the decompressed
	// chunk as a whole (i.e. already past the num_docs field and the
	// offset table itself); offset[num_docs] is taken to be the chunk's
	// total decompressed length.
	offsets := make([]uint32, numDocs+1)
	for i := 0; i < numDocs; i++ {
		offsets[i] = binary.LittleEndian.Uint32(payload[offsetsStart+i*4 : offsetsStart+i*4+4])
	}
	offsets[numDocs] = uint32(len(payload))

	values := make([][]byte, numDocs)
	for k := 0; k < numDocs; k++ {
		if offsets[k] > offsets[k+1] || int(offsets[k+1]) > len(payload) {
			return nil, invalidFormatErr("chunk value %d has invalid byte range", k)
		}
		values[k] = payload[offsets[k]:offsets[k+1]]
	}

	return values, nil
}

// findChunk binary-searches the metadata entries by first-doc-id (masking
// already applied at parse time) for the greatest entry with
// first_doc_id <= docID, per §4.6's chunk-lookup rule.
func (r *VarByteReader) findChunk(docID int64) (int, error) {
	if len(r.entries) == 0 {
		return 0, invalidFormatErr("var-byte reader has no chunk metadata entries")
	}

	lo, hi := 0, len(r.entries)-1
	best := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if r.entries[mid].firstDocID <= docID {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best, nil
}

// GetBytes decodes the raw value at docID.
func (r *VarByteReader) GetBytes(docID int64) ([]byte, error) {
	idx, err := r.findChunk(docID)
	if err != nil {
		return nil, err
	}

	payload, err := r.decompressChunk(idx)
	if err != nil {
		return nil, err
	}

	entry := r.entries[idx]
	values, err := valuesInChunk(payload, entry.isHuge)
	if err != nil {
		return nil, err
	}

	localIdx := int(docID - entry.firstDocID)
	if entry.isHuge {
		localIdx = 0
	}
	if localIdx < 0 || localIdx >= len(values) {
		return nil, invalidFormatErr("doc %d not found within chunk %d", docID, idx)
	}

	out := make([]byte, len(values[localIdx]))
	copy(out, values[localIdx])
	return out, nil
}

// GetString decodes the value at docID as a UTF-8 string.
func (r *VarByteReader) GetString(docID int64) (string, error) {
	b, err := r.GetBytes(docID)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadAllBytes decodes every value in doc-id order. Per §4.6's bulk-path
// contract, this iterates physical chunks exactly once, decompressing each
// at most once, rather than calling GetBytes per doc-id (which would
// re-decompress a chunk once for every document it contains).
func (r *VarByteReader) ReadAllBytes(totalDocs int) ([][]byte, error) {
	out := make([][]byte, 0, totalDocs)

	for i := range r.entries {
		payload, err := r.decompressChunk(i)
		if err != nil {
			return nil, err
		}
		values, err := valuesInChunk(payload, r.entries[i].isHuge)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			cp := make([]byte, len(v))
			copy(cp, v)
			out = append(out, cp)
		}
	}

	if len(out) != totalDocs {
		return nil, invalidFormatErr("var-byte bulk read produced %d values, expected %d", len(out), totalDocs)
	}

	return out, nil
}

// ReadAllStrings is ReadAllBytes with each value converted to a string.
func (r *VarByteReader) ReadAllStrings(totalDocs int) ([]string, error) {
	raw, err := r.ReadAllBytes(totalDocs)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(raw))
	for i, b := range raw {
		out[i] = string(b)
	}
	return out, nil
}
