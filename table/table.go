package table

import (
	"iter"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/olapfs/segment"
)

// Table presents one or more segments of identical schema to an external
// query engine, per §4.8.
type Table struct {
	name     string
	segments []*segment.SegmentReader
	schema   *arrow.Schema
	opts     options
}

// OpenSegments opens every segment directory in paths, verifies their
// schemas are identical to the first, and returns a ready Table. Order of
// paths determines partition order.
func OpenSegments(paths []string, tableName string, opts ...Option) (*Table, error) {
	o := resolveOptions(opts)

	if len(paths) == 0 {
		return nil, &segment.Error{
			Kind:    segment.KindInvalidFormat,
			Message: "no segment paths provided for table " + tableName,
		}
	}

	segs := make([]*segment.SegmentReader, 0, len(paths))
	var schema *arrow.Schema

	for _, p := range paths {
		seg, err := segment.Open(p)
		if err != nil {
			return nil, err
		}

		s, err := buildSchema(seg.Metadata())
		if err != nil {
			return nil, err
		}

		if schema == nil {
			schema = s
		} else if !schemasEqual(schema, s) {
			o.logger.Warn("segment schema mismatch", zap.String("path", p), zap.String("table", tableName))
			return nil, schemaMismatchErr(p)
		}

		o.logger.Debug("opened segment",
			zap.String("path", p),
			zap.String("table", tableName),
			zap.Uint32("total_docs", seg.TotalDocs()),
		)
		segs = append(segs, seg)
	}

	return &Table{name: tableName, segments: segs, schema: schema, opts: o}, nil
}

// Name returns the table name this Table was opened under.
func (t *Table) Name() string {
	return t.name
}

// Schema returns the schema derived from the first segment's columns, in
// metadata iteration order, with every field declared non-nullable.
func (t *Table) Schema() *arrow.Schema {
	return t.schema
}

// Scan builds an execution plan with one partition per underlying segment.
// projection is a subset of field indices into Schema(); an empty
// projection is valid and yields 0-column batches with the correct row
// count (e.g. for COUNT(*)).
func (t *Table) Scan(projection []int, opts ...Option) (*Plan, error) {
	o := t.opts
	for _, opt := range opts {
		opt(&o)
	}

	for _, idx := range projection {
		if idx < 0 || idx >= t.schema.NumFields() {
			return nil, &segment.Error{Kind: segment.KindInvalidFormat, Message: "projection index out of range"}
		}
	}

	fields := make([]arrow.Field, len(projection))
	for i, idx := range projection {
		fields[i] = t.schema.Field(idx)
	}
	batchSchema := arrow.NewSchema(fields, nil)

	partitions := make([]*Partition, len(t.segments))
	for i, seg := range t.segments {
		partitions[i] = &Partition{
			seg:         seg,
			fullSchema:  t.schema,
			batchSchema: batchSchema,
			projection:  projection,
			batchSize:   o.batchSize,
			logger:      o.logger,
		}
	}

	return &Plan{partitions: partitions}, nil
}

// Plan is the result of a Scan: one independent Partition per segment. No
// ordering is guaranteed across partitions; within a partition, batches are
// strictly ordered by ascending doc-id.
type Plan struct {
	partitions []*Partition
}

// Partitions returns the plan's per-segment partitions.
func (p *Plan) Partitions() []*Partition {
	return p.partitions
}

// Partition produces the lazy batch stream for one segment.
type Partition struct {
	seg         *segment.SegmentReader
	fullSchema  *arrow.Schema
	batchSchema *arrow.Schema
	projection  []int
	batchSize   int
	logger      *zap.Logger
}

// Batches reads each projected column exactly once into a fully
// materialized Arrow array, then slices BATCH_SIZE-row windows off those
// arrays for each yielded record. This is the hard performance contract of
// §4.8: a partition scan must never re-read a column per batch.
func (p *Partition) Batches() iter.Seq2[arrow.Record, error] {
	return func(yield func(arrow.Record, error) bool) {
		totalDocs := int(p.seg.TotalDocs())
		p.logger.Debug("scanning partition", zap.Int("total_docs", totalDocs), zap.Int("num_columns", len(p.projection)))

		mem := memory.NewGoAllocator()
		columns := make([]arrow.Array, len(p.projection))
		for i, idx := range p.projection {
			field := p.fullSchema.Field(idx)
			arr, err := readColumnArray(p.seg, field, mem)
			if err != nil {
				yield(nil, err)
				return
			}
			columns[i] = arr
		}
		defer func() {
			for _, c := range columns {
				c.Release()
			}
		}()

		batchSize := p.batchSize
		if batchSize <= 0 {
			batchSize = BatchSize
		}

		for start := 0; start < totalDocs; start += batchSize {
			end := start + batchSize
			if end > totalDocs {
				end = totalDocs
			}

			sliced := make([]arrow.Array, len(columns))
			for i, c := range columns {
				sliced[i] = array.NewSlice(c, int64(start), int64(end))
			}

			rec := array.NewRecord(p.batchSchema, sliced, int64(end-start))
			for _, s := range sliced {
				s.Release()
			}

			keepGoing := yield(rec, nil)
			rec.Release()
			if !keepGoing {
				return
			}
		}
	}
}
