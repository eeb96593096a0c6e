package table

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/olapfs/segment"
)

// readColumnArray reads one projected column's full values into a single
// Arrow array. It is called exactly once per column per partition scan —
// the caller slices batches out of the returned array rather than calling
// this again per batch.
func readColumnArray(seg *segment.SegmentReader, field arrow.Field, mem memory.Allocator) (arrow.Array, error) {
	switch field.Type.ID() {
	case arrow.INT32:
		vals, err := seg.ReadIntColumn(field.Name)
		if err != nil {
			return nil, err
		}
		b := array.NewInt32Builder(mem)
		defer b.Release()
		b.AppendValues(vals, nil)
		return b.NewInt32Array(), nil

	case arrow.INT64:
		vals, err := seg.ReadLongColumn(field.Name)
		if err != nil {
			return nil, err
		}
		b := array.NewInt64Builder(mem)
		defer b.Release()
		b.AppendValues(vals, nil)
		return b.NewInt64Array(), nil

	case arrow.FLOAT32:
		vals, err := seg.ReadFloatColumn(field.Name)
		if err != nil {
			return nil, err
		}
		b := array.NewFloat32Builder(mem)
		defer b.Release()
		b.AppendValues(vals, nil)
		return b.NewFloat32Array(), nil

	case arrow.FLOAT64:
		vals, err := seg.ReadDoubleColumn(field.Name)
		if err != nil {
			return nil, err
		}
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		b.AppendValues(vals, nil)
		return b.NewFloat64Array(), nil

	case arrow.STRING:
		vals, err := seg.ReadStringColumn(field.Name)
		if err != nil {
			return nil, err
		}
		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.AppendValues(vals, nil)
		return b.NewStringArray(), nil

	case arrow.BINARY:
		vals, err := seg.ReadBytesColumn(field.Name)
		if err != nil {
			return nil, err
		}
		b := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
		defer b.Release()
		b.AppendValues(vals, nil)
		return b.NewBinaryArray(), nil

	default:
		return nil, unsupportedArrowTypeErr(field)
	}
}
