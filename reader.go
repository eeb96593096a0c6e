package segment

import (
	"path/filepath"
)

// SegmentReader is an owning handle over one segment directory: its parsed
// metadata and index map, per §3's SegmentReader data model. Every typed
// column read opens the data blob independently (see blob.go), so a single
// SegmentReader may be used concurrently by multiple goroutines.
type SegmentReader struct {
	dir      string
	metadata *SegmentMetadata
	indexMap *IndexMap
	blob     dataBlob
}

// Open reads metadata.properties and index_map from dir and returns a ready
// SegmentReader. columns.psf is not read until a column is requested.
func Open(dir string) (*SegmentReader, error) {
	metadata, err := readSegmentMetadata(filepath.Join(dir, "metadata.properties"))
	if err != nil {
		return nil, err
	}

	indexMap, err := parseIndexMap(filepath.Join(dir, "index_map"))
	if err != nil {
		return nil, err
	}

	return &SegmentReader{
		dir:      dir,
		metadata: metadata,
		indexMap: indexMap,
		blob:     dataBlob{path: filepath.Join(dir, "columns.psf")},
	}, nil
}

func readSegmentMetadata(path string) (*SegmentMetadata, error) {
	props, err := readProperties(path)
	if err != nil {
		return nil, err
	}
	return parseSegmentMetadata(props)
}

// Metadata returns the segment's parsed metadata.
func (s *SegmentReader) Metadata() *SegmentMetadata {
	return s.metadata
}

// TotalDocs returns the segment's row count.
func (s *SegmentReader) TotalDocs() uint32 {
	return s.metadata.TotalDocs
}

// column looks up a column's metadata and validates its declared type
// against what the caller is asking for.
func (s *SegmentReader) column(name string, want DataType) (*ColumnMetadata, error) {
	col, err := s.metadata.Column(name)
	if err != nil {
		return nil, err
	}
	if col.DataType != want {
		return nil, invalidFormatErr("column %q has type %s, not %s", name, col.DataType, want)
	}
	return col, nil
}

// loadDictionaryColumn is the shared pipeline behind every dictionary-
// encoded typed column read: resolve the dictionary and forward-index
// locations, decode the dictionary (C4), decode the packed id stream (C5),
// and hand both back so the caller can materialize a dense column.
func (s *SegmentReader) loadDictionaryColumn(col *ColumnMetadata) (*Dictionary, *FixedBitReader, error) {
	if !col.HasDictionary {
		return nil, nil, unsupportedErr("column %q has no dictionary", col.Name)
	}

	dictLoc, ok := s.indexMap.Dictionary(col.Name)
	if !ok {
		return nil, nil, invalidFormatErr("no dictionary index entry for column %q", col.Name)
	}
	fwdLoc, ok := s.indexMap.ForwardIndex(col.Name)
	if !ok {
		return nil, nil, invalidFormatErr("no forward_index entry for column %q", col.Name)
	}

	dict, err := readDictionary(s.blob, dictLoc, col.DataType, col.Cardinality, col.LengthOfEachEntry)
	if err != nil {
		return nil, nil, err
	}

	bits, err := readFixedBitWidth(s.blob, fwdLoc, int(col.BitsPerElement), int(col.TotalDocs))
	if err != nil {
		return nil, nil, err
	}

	return dict, bits, nil
}

func (s *SegmentReader) loadVarByte(col *ColumnMetadata) (*VarByteReader, error) {
	fwdLoc, ok := s.indexMap.ForwardIndex(col.Name)
	if !ok {
		return nil, invalidFormatErr("no forward_index entry for column %q", col.Name)
	}
	return readVarByte(s.blob, fwdLoc)
}

// readDictionaryColumn is the generic body shared by every dictionary-
// encoded typed column read: decode the packed id stream, then look each id
// up through get, whatever the dictionary's value type.
func readDictionaryColumn[T any](s *SegmentReader, name string, want DataType, get func(*Dictionary, int) (T, bool)) ([]T, error) {
	col, err := s.column(name, want)
	if err != nil {
		return nil, err
	}
	dict, bits, err := s.loadDictionaryColumn(col)
	if err != nil {
		return nil, err
	}

	ids, err := bits.ReadAll()
	if err != nil {
		return nil, err
	}

	out := make([]T, len(ids))
	for i, id := range ids {
		v, ok := get(dict, int(id))
		if !ok {
			return nil, invalidFormatErr("column %q: dictionary id %d out of range", name, id)
		}
		out[i] = v
	}
	return out, nil
}

// ReadIntColumn decodes a dictionary-encoded Int32 column.
func (s *SegmentReader) ReadIntColumn(name string) ([]int32, error) {
	return readDictionaryColumn(s, name, DataTypeInt32, (*Dictionary).GetInt)
}

// ReadLongColumn decodes a dictionary-encoded Int64 column.
func (s *SegmentReader) ReadLongColumn(name string) ([]int64, error) {
	return readDictionaryColumn(s, name, DataTypeInt64, (*Dictionary).GetLong)
}

// ReadFloatColumn decodes a dictionary-encoded Float32 column.
func (s *SegmentReader) ReadFloatColumn(name string) ([]float32, error) {
	return readDictionaryColumn(s, name, DataTypeFloat32, (*Dictionary).GetFloat)
}

// ReadDoubleColumn decodes a dictionary-encoded Float64 column.
func (s *SegmentReader) ReadDoubleColumn(name string) ([]float64, error) {
	return readDictionaryColumn(s, name, DataTypeFloat64, (*Dictionary).GetDouble)
}

// ReadStringColumn decodes a String column, either via its dictionary (if
// has_dictionary) or via the RAW var-byte forward index otherwise.
func (s *SegmentReader) ReadStringColumn(name string) ([]string, error) {
	col, err := s.column(name, DataTypeString)
	if err != nil {
		return nil, err
	}

	if col.HasDictionary {
		dict, bits, err := s.loadDictionaryColumn(col)
		if err != nil {
			return nil, err
		}
		ids, err := bits.ReadAll()
		if err != nil {
			return nil, err
		}
		out := make([]string, len(ids))
		for i, id := range ids {
			v, ok := dict.GetString(int(id))
			if !ok {
				return nil, invalidFormatErr("column %q: dictionary id %d out of range", name, id)
			}
			out[i] = v
		}
		return out, nil
	}

	vb, err := s.loadVarByte(col)
	if err != nil {
		return nil, err
	}
	return vb.ReadAllStrings(int(col.TotalDocs))
}

// ReadBytesColumn decodes a Bytes column via the RAW var-byte forward
// index. Bytes dictionaries are unsupported (§4.4), so this is always the
// RAW path.
func (s *SegmentReader) ReadBytesColumn(name string) ([][]byte, error) {
	col, err := s.column(name, DataTypeBytes)
	if err != nil {
		return nil, err
	}

	vb, err := s.loadVarByte(col)
	if err != nil {
		return nil, err
	}
	return vb.ReadAllBytes(int(col.TotalDocs))
}
