// Package table presents one or more segments of identical schema as
// projected, row-sliced columnar batches for an external vectorized query
// engine, per the adapter contract named in the core segment package.
package table

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/olapfs/segment"
)

// arrowType maps a segment.DataType to its fixed Arrow equivalent.
func arrowType(dt segment.DataType) (arrow.DataType, error) {
	switch dt {
	case segment.DataTypeInt32:
		return arrow.PrimitiveTypes.Int32, nil
	case segment.DataTypeInt64:
		return arrow.PrimitiveTypes.Int64, nil
	case segment.DataTypeFloat32:
		return arrow.PrimitiveTypes.Float32, nil
	case segment.DataTypeFloat64:
		return arrow.PrimitiveTypes.Float64, nil
	case segment.DataTypeString:
		return arrow.BinaryTypes.String, nil
	case segment.DataTypeBytes:
		return arrow.BinaryTypes.Binary, nil
	case segment.DataTypeBoolean:
		return arrow.FixedWidthTypes.Boolean, nil
	default:
		return nil, unsupportedTypeErr(dt)
	}
}

// buildSchema derives an arrow.Schema from a segment's columns, in metadata
// iteration order. Every field is non-nullable, per §4.8.
func buildSchema(meta *segment.SegmentMetadata) (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(meta.Columns))
	for i, col := range meta.Columns {
		typ, err := arrowType(col.DataType)
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: col.Name, Type: typ, Nullable: false}
	}
	return arrow.NewSchema(fields, nil), nil
}

// schemasEqual reports whether two schemas declare the same fields in the
// same order (name, type, nullability) — used to validate that every
// segment opened into one Table shares an identical schema.
func schemasEqual(a, b *arrow.Schema) bool {
	if a.NumFields() != b.NumFields() {
		return false
	}
	for i := 0; i < a.NumFields(); i++ {
		fa, fb := a.Field(i), b.Field(i)
		if fa.Name != fb.Name || !arrow.TypeEqual(fa.Type, fb.Type) || fa.Nullable != fb.Nullable {
			return false
		}
	}
	return true
}
