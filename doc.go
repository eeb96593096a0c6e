// Package segment is a pure Go, read-only decoder for the on-disk segment
// format of a column-oriented OLAP store: properties/index-map metadata,
// per-column dictionaries, fixed-bit-width packed forward indexes, and the
// version-4 variable-byte chunked forward index used for RAW columns.
//
// Open a segment directory with [Open], inspect its columns via
// [SegmentReader.Metadata], then read whole columns with the typed
// ReadXColumn methods.
//
//	seg, err := segment.Open("/data/myTable/mySegment/v3")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, col := range seg.Metadata().Columns {
//		fmt.Println(col.Name, col.DataType)
//	}
//
//	ages, err := seg.ReadIntColumn("age")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(ages)
//
// Errors are returned as [*Error], which carries a closed [Kind]:
// [KindIO], [KindParse], [KindInvalidFormat], [KindUnsupportedFeature], or
// [KindColumnNotFound]. Use the IsX helpers (e.g. [IsColumnNotFound]),
// which unwrap with [errors.As], rather than matching error text.
//
//	if _, err := seg.ReadIntColumn("missing"); segment.IsColumnNotFound(err) {
//		// ...
//	}
//
// This package decodes a single segment in isolation. To present one or
// more segments of identical schema as batches for a query engine, see the
// sibling package [github.com/olapfs/segment/table].
package segment
