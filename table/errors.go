package table

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/olapfs/segment"
)

func unsupportedTypeErr(dt segment.DataType) *segment.Error {
	return &segment.Error{Kind: segment.KindUnsupportedFeature, Message: "no Arrow type mapping for " + dt.String()}
}

func unsupportedArrowTypeErr(field arrow.Field) *segment.Error {
	return &segment.Error{Kind: segment.KindUnsupportedFeature, Message: "no column reader for field " + field.Name + " with Arrow type " + field.Type.Name()}
}

func schemaMismatchErr(path string) *segment.Error {
	return &segment.Error{Kind: segment.KindInvalidFormat, Message: "segment " + path + " schema does not match first segment's schema"}
}
