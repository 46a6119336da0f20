package timeline

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"

	"github.com/chronicle-archive/chronicle/pkg/errors"
)

// DecodeCSV reads delimited rows from r. The first record is the mandatory
// header; every following record becomes a Row keyed by header name. Short
// records leave trailing columns absent rather than empty, which matters for
// status-column backfill.
func DecodeCSV(r io.Reader) ([]Row, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

// ReadCSVFile decodes a canonical or batch file. A missing file yields no
// rows and no error; first-run datasets are created by the writer.
func ReadCSVFile(path string) ([]Row, []string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	rows, header, err := DecodeCSV(f)
	if err != nil {
		return nil, nil, errors.WrapParse("csv", path, err)
	}
	return rows, header, nil
}

// EncodeCSV serializes rows in the given fixed column order. Every row
// carries every declared column; missing values become empty strings. The
// byte output is deterministic, which the canonical writer relies on for its
// changed-content check.
func EncodeCSV(columns []string, rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = row.Get(col)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
