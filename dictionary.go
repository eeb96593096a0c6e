package segment

import "bytes"

// Dictionary is a typed random-access container over a column's distinct
// values, decoded per §4.4. Each typed accessor (GetInt, GetLong, GetFloat,
// GetDouble, GetString) returns the id'th value and whether id was in range.
type Dictionary struct {
	dataType DataType
	ints     []int32
	longs    []int64
	floats   []float32
	doubles  []float64
	strings  []string
}

func (d *Dictionary) Len() int {
	switch d.dataType {
	case DataTypeInt32:
		return len(d.ints)
	case DataTypeInt64:
		return len(d.longs)
	case DataTypeFloat32:
		return len(d.floats)
	case DataTypeFloat64:
		return len(d.doubles)
	case DataTypeString:
		return len(d.strings)
	default:
		return 0
	}
}

func (d *Dictionary) GetInt(id int) (int32, bool) {
	if id < 0 || id >= len(d.ints) {
		return 0, false
	}
	return d.ints[id], true
}

func (d *Dictionary) GetLong(id int) (int64, bool) {
	if id < 0 || id >= len(d.longs) {
		return 0, false
	}
	return d.longs[id], true
}

func (d *Dictionary) GetFloat(id int) (float32, bool) {
	if id < 0 || id >= len(d.floats) {
		return 0, false
	}
	return d.floats[id], true
}

func (d *Dictionary) GetDouble(id int) (float64, bool) {
	if id < 0 || id >= len(d.doubles) {
		return 0, false
	}
	return d.doubles[id], true
}

func (d *Dictionary) GetString(id int) (string, bool) {
	if id < 0 || id >= len(d.strings) {
		return "", false
	}
	return d.strings[id], true
}

// readDictionary decodes a dictionary block at [offset, offset+size) of the
// data blob, per §4.4: an 8-byte big-endian magic marker followed by N
// entries encoded according to dataType.
func readDictionary(blob dataBlob, loc IndexLocation, dataType DataType, cardinality uint32, lengthOfEachEntry int) (*Dictionary, error) {
	buf, err := blob.readAt(loc.StartOffset, loc.Size)
	if err != nil {
		return nil, err
	}

	if len(buf) < 8 {
		return nil, invalidFormatErr("dictionary block too short: %d bytes", len(buf))
	}
	if beUint64(buf[:8]) != magicMarker {
		return nil, invalidFormatErr("dictionary magic marker mismatch")
	}
	buf = buf[8:]

	n := int(cardinality)
	dict := &Dictionary{dataType: dataType}

	switch dataType {
	case DataTypeInt32:
		dict.ints = make([]int32, n)
		for i := 0; i < n; i++ {
			off := i * 4
			if off+4 > len(buf) {
				return nil, invalidFormatErr("dictionary entry %d out of bounds", i)
			}
			dict.ints[i] = beInt32(buf[off : off+4])
		}

	case DataTypeFloat32:
		dict.floats = make([]float32, n)
		for i := 0; i < n; i++ {
			off := i * 4
			if off+4 > len(buf) {
				return nil, invalidFormatErr("dictionary entry %d out of bounds", i)
			}
			dict.floats[i] = beFloat32(buf[off : off+4])
		}

	case DataTypeInt64:
		dict.longs = make([]int64, n)
		for i := 0; i < n; i++ {
			off := i * 8
			if off+8 > len(buf) {
				return nil, invalidFormatErr("dictionary entry %d out of bounds", i)
			}
			dict.longs[i] = beInt64(buf[off : off+8])
		}

	case DataTypeFloat64:
		dict.doubles = make([]float64, n)
		for i := 0; i < n; i++ {
			off := i * 8
			if off+8 > len(buf) {
				return nil, invalidFormatErr("dictionary entry %d out of bounds", i)
			}
			dict.doubles[i] = beFloat64(buf[off : off+8])
		}

	case DataTypeString:
		dict.strings = make([]string, n)
		if lengthOfEachEntry > 0 {
			entryLen := lengthOfEachEntry
			for i := 0; i < n; i++ {
				off := i * entryLen
				if off+entryLen > len(buf) {
					return nil, invalidFormatErr("dictionary entry %d out of bounds", i)
				}
				entry := buf[off : off+entryLen]
				if nul := bytes.IndexByte(entry, 0); nul >= 0 {
					entry = entry[:nul]
				}
				dict.strings[i] = string(entry)
			}
		} else {
			pos := 0
			for i := 0; i < n; i++ {
				if pos+4 > len(buf) {
					return nil, invalidFormatErr("dictionary entry %d out of bounds", i)
				}
				length := int(beUint32(buf[pos : pos+4]))
				pos += 4
				if pos+length > len(buf) {
					return nil, invalidFormatErr("dictionary entry %d out of bounds", i)
				}
				dict.strings[i] = string(buf[pos : pos+length])
				pos += length
			}
		}

	case DataTypeBytes, DataTypeBoolean:
		return nil, unsupportedErr("%s dictionaries are unsupported", dataType)

	default:
		return nil, unsupportedErr("unsupported dictionary data type %s", dataType)
	}

	return dict, nil
}
