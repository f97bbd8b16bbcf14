// Package parquetio is an external collaborator: it decodes Parquet files
// into column.ColumnBatch values using parquet-go, and converts batches to
// Arrow Records for interop with the wider Arrow ecosystem, grounded on
// the teacher's io_parquet.go/io_arrow.go. The core engine never
// interprets Parquet bytes or row groups itself; it only consumes this
// loader's output batches (SPEC_FULL.md §8).
package parquetio

import (
	"context"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	"golang.org/x/sync/errgroup"

	"github.com/paiml/trueno-db/column"
	"github.com/paiml/trueno-db/errs"
)

// ReadOptions configures which columns and how many rows Loader reads.
type ReadOptions struct {
	Columns []string // nil means every column in the file
	MaxRows int      // 0 means unlimited
}

// Loader opens Parquet files and yields column.ColumnBatch values.
type Loader struct{}

// NewLoader constructs a Loader. It carries no state today but exists so
// future configuration (buffer pooling, column pruning strategy) has a
// natural home without changing the call sites.
func NewLoader() *Loader { return &Loader{} }

// Load reads path entirely into a single ColumnBatch.
func (l *Loader) Load(path string, opts ...ReadOptions) (*column.ColumnBatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.IO, err, "opening parquet file")
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, errs.Wrap(errs.IO, err, "statting parquet file")
	}
	return l.LoadReader(f, stat.Size(), opts...)
}

// LoadReader reads Parquet data from an io.ReaderAt of the given size into
// a single ColumnBatch.
func (l *Loader) LoadReader(r io.ReaderAt, size int64, opts ...ReadOptions) (*column.ColumnBatch, error) {
	opt := ReadOptions{}
	if len(opts) > 0 {
		opt = opts[0]
	}

	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, errs.Wrap(errs.IO, err, "opening parquet stream")
	}
	schema := pf.Schema()

	names := opt.Columns
	if len(names) == 0 {
		fields := schema.Fields()
		names = make([]string, len(fields))
		for i, f := range fields {
			names[i] = f.Name()
		}
	}

	colIndex := make(map[string]int)
	for i, col := range schema.Columns() {
		if len(col) > 0 {
			colIndex[col[0]] = i
		}
	}

	leafIdx := make([]int, len(names))
	fields := make([]column.Field, len(names))
	for i, name := range names {
		idx, ok := colIndex[name]
		if !ok {
			return nil, errs.Newf(errs.IO, "column %q not found in parquet file", name).WithColumn(name)
		}
		leafIdx[i] = idx
		dtype, err := leafToDType(schema, schema.Columns()[idx])
		if err != nil {
			return nil, err
		}
		fields[i] = column.Field{Name: name, Type: dtype, Nullable: true}
	}

	// Each row group decodes independently into its own builder set, in
	// parallel; groups are then merged in file order so MaxRows truncation
	// and row ordering stay deterministic regardless of goroutine
	// completion order.
	rowGroups := pf.RowGroups()
	perGroup := make([][]*builder, len(rowGroups))
	group, _ := errgroup.WithContext(context.Background())
	for i, rg := range rowGroups {
		i, rg := i, rg
		group.Go(func() error {
			bs, err := decodeRowGroup(rg, leafIdx, fields)
			if err != nil {
				return err
			}
			perGroup[i] = bs
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	builders := make([]*builder, len(names))
	for i, f := range fields {
		builders[i] = newBuilder(f.Type)
	}
	rowCount := 0
outer:
	for _, bs := range perGroup {
		n := 0
		if len(bs) > 0 {
			n = bs[0].rowCount()
		}
		for r := 0; r < n; r++ {
			if opt.MaxRows > 0 && rowCount >= opt.MaxRows {
				break outer
			}
			for i := range builders {
				bs[i].copyRowInto(builders[i], r)
			}
			rowCount++
		}
	}

	cols := make([]*column.Column, len(names))
	for i, f := range fields {
		cols[i] = builders[i].finish(f.Name)
	}
	return column.NewColumnBatch(column.NewSchema(fields...), cols)
}

// decodeRowGroup reads every row of one row group into a fresh builder per
// requested column.
func decodeRowGroup(rg parquet.RowGroup, leafIdx []int, fields []column.Field) ([]*builder, error) {
	builders := make([]*builder, len(fields))
	for i, f := range fields {
		builders[i] = newBuilder(f.Type)
	}

	rows := rg.Rows()
	defer rows.Close()
	buf := make([]parquet.Row, 256)
	for {
		n, rerr := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			for i, idx := range leafIdx {
				if idx < len(row) {
					builders[i].append(row[idx])
				} else {
					builders[i].appendNull()
				}
			}
		}
		if rerr == io.EOF || n == 0 {
			break
		}
		if rerr != nil {
			return nil, errs.Wrap(errs.IO, rerr, "reading parquet rows")
		}
	}
	return builders, nil
}

func leafToDType(schema *parquet.Schema, leaf []string) (column.DType, error) {
	node, ok := schema.Lookup(leaf...)
	if !ok {
		return 0, errs.Newf(errs.IO, "column %v not found in parquet schema", leaf)
	}
	kind := node.Node.Type().Kind()
	switch kind {
	case parquet.Int32:
		return column.Int32, nil
	case parquet.Int64:
		return column.Int64, nil
	case parquet.Float:
		return column.Float32, nil
	case parquet.Double:
		return column.Float64, nil
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return column.Utf8, nil
	case parquet.Boolean:
		return column.Boolean, nil
	default:
		return 0, errs.Newf(errs.Unsupported, "parquet type %v has no Trueno-DB DType mapping", kind)
	}
}
