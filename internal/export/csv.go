package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// WriteCSV writes a header row followed by every record. Missing cells are
// written as empty fields.
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := 0; i < t.Rows(); i++ {
		if err := cw.Write(t.Record(i)); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
