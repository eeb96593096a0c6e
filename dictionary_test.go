package segment

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeBlob(t *testing.T, data []byte) dataBlob {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "columns.psf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write blob: %v", err)
	}
	return dataBlob{path: path}
}

func TestReadDictionary_Int(t *testing.T) {
	var buf []byte
	magic := make([]byte, 8)
	binary.BigEndian.PutUint64(magic, magicMarker)
	buf = append(buf, magic...)
	for _, v := range []int32{10, 20, 30} {
		entry := make([]byte, 4)
		binary.BigEndian.PutUint32(entry, uint32(v))
		buf = append(buf, entry...)
	}

	blob := writeBlob(t, buf)
	loc := IndexLocation{StartOffset: 0, Size: int64(len(buf))}

	dict, err := readDictionary(blob, loc, DataTypeInt32, 3, 0)
	if err != nil {
		t.Fatalf("readDictionary: %v", err)
	}

	for i, want := range []int32{10, 20, 30} {
		got, ok := dict.GetInt(i)
		if !ok {
			t.Fatalf("GetInt(%d): not found", i)
		}
		if got != want {
			t.Errorf("GetInt(%d) = %d, want %d", i, got, want)
		}
	}

	if _, ok := dict.GetInt(3); ok {
		t.Errorf("GetInt(3) should be out of range")
	}
}

func TestReadDictionary_VariableLengthString(t *testing.T) {
	var buf []byte
	magic := make([]byte, 8)
	binary.BigEndian.PutUint64(magic, magicMarker)
	buf = append(buf, magic...)

	for _, s := range []string{"ab", "cde"} {
		lenBytes := make([]byte, 4)
		binary.BigEndian.PutUint32(lenBytes, uint32(len(s)))
		buf = append(buf, lenBytes...)
		buf = append(buf, []byte(s)...)
	}

	blob := writeBlob(t, buf)
	loc := IndexLocation{StartOffset: 0, Size: int64(len(buf))}

	dict, err := readDictionary(blob, loc, DataTypeString, 2, 0)
	if err != nil {
		t.Fatalf("readDictionary: %v", err)
	}

	got, ok := dict.GetString(1)
	if !ok || got != "cde" {
		t.Errorf("GetString(1) = %q, %v; want \"cde\", true", got, ok)
	}
}

func TestReadDictionary_FixedLengthStringPadding(t *testing.T) {
	var buf []byte
	magic := make([]byte, 8)
	binary.BigEndian.PutUint64(magic, magicMarker)
	buf = append(buf, magic...)

	entryLen := 5
	for _, s := range []string{"a", "bb"} {
		entry := make([]byte, entryLen)
		copy(entry, s)
		buf = append(buf, entry...)
	}

	blob := writeBlob(t, buf)
	loc := IndexLocation{StartOffset: 0, Size: int64(len(buf))}

	dict, err := readDictionary(blob, loc, DataTypeString, 2, entryLen)
	if err != nil {
		t.Fatalf("readDictionary: %v", err)
	}

	want := []string{"a", "bb"}
	got := []string{}
	for i := range want {
		v, ok := dict.GetString(i)
		if !ok {
			t.Fatalf("GetString(%d): not found", i)
		}
		got = append(got, v)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestReadDictionary_BadMagic(t *testing.T) {
	buf := make([]byte, 16)
	blob := writeBlob(t, buf)
	loc := IndexLocation{StartOffset: 0, Size: int64(len(buf))}

	if _, err := readDictionary(blob, loc, DataTypeInt32, 2, 0); !IsInvalidFormat(err) {
		t.Errorf("expected InvalidFormat for bad magic, got %v", err)
	}
}

func TestReadDictionary_BytesUnsupported(t *testing.T) {
	buf := packedBlock(t, nil)
	blob := writeBlob(t, buf)
	loc := IndexLocation{StartOffset: 0, Size: int64(len(buf))}

	if _, err := readDictionary(blob, loc, DataTypeBytes, 1, 0); !IsUnsupportedFeature(err) {
		t.Errorf("expected UnsupportedFeature for Bytes dictionary, got %v", err)
	}
}
