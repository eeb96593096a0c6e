package segment

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// IndexLocation is a byte range within a segment's columns.psf data blob.
type IndexLocation struct {
	StartOffset int64
	Size        int64
}

// indexKey identifies one (column, index_type) location, e.g.
// (col="a.b.c", indexType="forward_index").
type indexKey struct {
	column    string
	indexType string
}

// IndexMap is the parsed `index_map` file: a lookup from (column_name,
// index_type) to its byte range in the data blob.
type IndexMap struct {
	locations map[indexKey]IndexLocation
}

// ForwardIndex returns the forward-index location for a column.
func (m *IndexMap) ForwardIndex(column string) (IndexLocation, bool) {
	loc, ok := m.locations[indexKey{column: column, indexType: "forward_index"}]
	return loc, ok
}

// Dictionary returns the dictionary location for a column.
func (m *IndexMap) Dictionary(column string) (IndexLocation, bool) {
	loc, ok := m.locations[indexKey{column: column, indexType: "dictionary"}]
	return loc, ok
}

// parseIndexMap reads the index_map file. Its grammar is
// `<column>.<index_type>.<property>=value` where property is one of
// startOffset/size. Because column names may themselves contain dots,
// parsing proceeds right-to-left: the last two dot-segments are index_type
// and property, and everything before them is the column name (§4.3).
func parseIndexMap(path string) (*IndexMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioErr(err, "open index map %s", path)
	}
	defer f.Close()

	starts := make(map[indexKey]int64)
	sizes := make(map[indexKey]int64)
	var order []indexKey
	seen := make(map[indexKey]bool)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		key := line[:idx]
		value := strings.TrimSpace(line[idx+1:])

		column, indexType, property, ok := splitIndexMapKey(key)
		if !ok {
			continue
		}

		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, parseErr("index map key %q: invalid integer value %q: %v", key, value, err)
		}

		ik := indexKey{column: column, indexType: indexType}
		switch property {
		case "startOffset":
			starts[ik] = n
		case "size":
			sizes[ik] = n
		default:
			// Unknown property token: ignored, per §4.3.
			continue
		}

		if !seen[ik] {
			seen[ik] = true
			order = append(order, ik)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, ioErr(err, "read index map %s", path)
	}

	locations := make(map[indexKey]IndexLocation, len(order))
	for _, ik := range order {
		locations[ik] = IndexLocation{StartOffset: starts[ik], Size: sizes[ik]}
	}

	return &IndexMap{locations: locations}, nil
}

// splitIndexMapKey splits "a.b.c.forward_index.startOffset" into
// column="a.b.c", indexType="forward_index", property="startOffset" by
// taking the last two dot-segments off the end.
func splitIndexMapKey(key string) (column, indexType, property string, ok bool) {
	lastDot := strings.LastIndexByte(key, '.')
	if lastDot < 0 {
		return "", "", "", false
	}
	property = key[lastDot+1:]
	rest := key[:lastDot]

	secondLastDot := strings.LastIndexByte(rest, '.')
	if secondLastDot < 0 {
		return "", "", "", false
	}
	indexType = rest[secondLastDot+1:]
	column = rest[:secondLastDot]

	if column == "" {
		return "", "", "", false
	}
	return column, indexType, property, true
}
