package export

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// Schema builds the parquet schema of t: numeric columns become optional
// DOUBLE leaves, categorical columns optional UTF8 strings.
func Schema(t *table.Table) *parquet.Schema {
	group := make(parquet.Group, t.Width())
	for _, c := range t.Columns {
		if c.Kind == table.KindNumeric {
			group[c.Name] = parquet.Optional(parquet.Leaf(parquet.DoubleType))
		} else {
			group[c.Name] = parquet.Optional(parquet.String())
		}
	}
	return parquet.NewSchema("CleanedRecord", group)
}

// WriteParquet writes t as a single row group. Missing cells become nulls.
func WriteParquet(w io.Writer, t *table.Table) error {
	writer := parquet.NewGenericWriter[map[string]any](w, &parquet.WriterConfig{Schema: Schema(t)})

	records := make([]map[string]any, 0, t.Rows())
	for i := 0; i < t.Rows(); i++ {
		rec := make(map[string]any, t.Width())
		for _, c := range t.Columns {
			rec[c.Name] = c.Value(i)
		}
		records = append(records, rec)
	}
	if _, err := writer.Write(records); err != nil {
		return fmt.Errorf("write parquet records: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}
