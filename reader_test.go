package segment

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// writeSegment assembles a minimal on-disk segment directory with one
// dictionary-encoded INT column ("val") per S3: dictionary [10,20,30] and a
// 2-bit-packed forward index [0,1,2,0] over 4 docs, plus a RAW string
// column ("raw_val") using the var-byte layout of the S5 fixture with a
// fourth value appended so it also covers 4 docs.
func writeSegment(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	var blob []byte

	// Dictionary for "val": magic + BE(10,20,30).
	dictOffset := len(blob)
	magic := make([]byte, 8)
	binary.BigEndian.PutUint64(magic, magicMarker)
	blob = append(blob, magic...)
	for _, v := range []int32{10, 20, 30} {
		entry := make([]byte, 4)
		binary.BigEndian.PutUint32(entry, uint32(v))
		blob = append(blob, entry...)
	}
	dictSize := len(blob) - dictOffset

	// Forward index for "val": magic + 2-bit packed [0,1,2,0].
	fwdOffset := len(blob)
	blob = append(blob, magic...)
	packed := make([]byte, 1)
	packBigEndianBits(packed, []uint32{0, 1, 2, 0}, 2)
	blob = append(blob, packed...)
	fwdSize := len(blob) - fwdOffset

	// RAW var-byte forward index for "raw_val": single passthrough chunk
	// containing "hi", "abc", "xyz", "qq".
	rawOffset := len(blob)
	chunk := encodeRegularChunk([][]byte{[]byte("hi"), []byte("abc"), []byte("xyz"), []byte("qq")})
	rawBlock := buildVarByteV4(t, compressionPassthrough, 0, []varByteChunkSpec{
		{firstDocID: 0, payload: chunk},
	}, true)
	blob = append(blob, rawBlock...)
	rawSize := len(blob) - rawOffset

	if err := os.WriteFile(filepath.Join(dir, "columns.psf"), blob, 0o644); err != nil {
		t.Fatalf("write columns.psf: %v", err)
	}

	indexMap := "" +
		"val.dictionary.startOffset=" + strconv.Itoa(dictOffset) + "\n" +
		"val.dictionary.size=" + strconv.Itoa(dictSize) + "\n" +
		"val.forward_index.startOffset=" + strconv.Itoa(fwdOffset) + "\n" +
		"val.forward_index.size=" + strconv.Itoa(fwdSize) + "\n" +
		"raw_val.forward_index.startOffset=" + strconv.Itoa(rawOffset) + "\n" +
		"raw_val.forward_index.size=" + strconv.Itoa(rawSize) + "\n"
	if err := os.WriteFile(filepath.Join(dir, "index_map"), []byte(indexMap), 0o644); err != nil {
		t.Fatalf("write index_map: %v", err)
	}

	properties := "" +
		"segment.name=testSegment\n" +
		"segment.table.name=testTable\n" +
		"segment.total.docs=4\n" +
		"segment.dimension.column.names=val,raw_val\n" +
		"column.val.dataType=INT\n" +
		"column.val.hasDictionary=true\n" +
		"column.val.cardinality=3\n" +
		"column.val.bitsPerElement=2\n" +
		"column.raw_val.dataType=STRING\n" +
		"column.raw_val.hasDictionary=false\n"
	if err := os.WriteFile(filepath.Join(dir, "metadata.properties"), []byte(properties), 0o644); err != nil {
		t.Fatalf("write metadata.properties: %v", err)
	}

	return dir
}


func TestSegmentReader_ReadIntColumn(t *testing.T) {
	dir := writeSegment(t)
	seg, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if seg.TotalDocs() != 4 {
		t.Errorf("TotalDocs() = %d, want 4", seg.TotalDocs())
	}

	// "val" is declared INT here but the forward index has only 4 docs
	// matching the example in §8 S3.
	got, err := seg.ReadIntColumn("val")
	if err != nil {
		t.Fatalf("ReadIntColumn: %v", err)
	}

	want := []int32{10, 20, 30, 10}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSegmentReader_ReadStringColumn_RawPath(t *testing.T) {
	dir := writeSegment(t)
	seg, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	got, err := seg.ReadStringColumn("raw_val")
	if err != nil {
		t.Fatalf("ReadStringColumn: %v", err)
	}

	want := []string{"hi", "abc", "xyz", "qq"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSegmentReader_ColumnNotFound(t *testing.T) {
	dir := writeSegment(t)
	seg, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, err := seg.ReadIntColumn("missing"); !IsColumnNotFound(err) {
		t.Errorf("expected ColumnNotFound, got %v", err)
	}
}

func TestSegmentReader_TypeMismatch(t *testing.T) {
	dir := writeSegment(t)
	seg, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, err := seg.ReadLongColumn("val"); !IsInvalidFormat(err) {
		t.Errorf("expected InvalidFormat for type mismatch, got %v", err)
	}
}
