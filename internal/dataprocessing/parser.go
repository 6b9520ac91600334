package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrNoColumns is returned for input without a header row
	ErrNoColumns = errors.New("no columns to parse from file")
	// ErrNoRows is returned for input with a header but no data rows
	ErrNoRows = errors.New("no data rows")
	// ErrTooManyFields is returned when a row is wider than the header
	ErrTooManyFields = errors.New("too many fields")
)

const utf8BOM = "\uFEFF"

// ParseCSV reads CSV content into records whose first row is the
// normalized header. Rows shorter than the header are padded with empty
// fields; longer rows are an error.
func ParseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	// Quotes only open a quoted field at its start; free text may contain bare quotes
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	records := [][]string{normalizeHeader(header)}
	width := len(header)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) > width {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d: %w", line, width, len(row), ErrTooManyFields)
		}
		records = append(records, padRow(row, width))
	}

	return records, nil
}

// ParseXLSX reads a worksheet into records. An empty sheet name selects
// the first sheet. The header is widened to the widest row since blank
// trailing header cells are not stored in the workbook.
func ParseXLSX(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoColumns
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoColumns
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	records := make([][]string, 0, len(rows))
	records = append(records, normalizeHeader(padRow(rows[0], width)))
	for _, row := range rows[1:] {
		records = append(records, padRow(row, width))
	}
	return records, nil
}

// normalizeHeader names blank cells "Unnamed: <index>" and suffixes
// duplicates with ".1", ".2", ...
func normalizeHeader(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))

	for i, name := range header {
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if count, dup := seen[name]; dup {
			candidate := fmt.Sprintf("%s.%d", name, count)
			for {
				if _, taken := seen[candidate]; !taken {
					break
				}
				count++
				candidate = fmt.Sprintf("%s.%d", name, count)
			}
			seen[name] = count + 1
			name = candidate
		}
		seen[name]++
		names[i] = name
	}
	return names
}

func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

// NewDataFrame builds a string-typed DataFrame from header-first records.
// Values are kept verbatim: no type inference, no NaN substitution.
func NewDataFrame(records [][]string) (dataframe.DataFrame, error) {
	if len(records) == 0 {
		return dataframe.DataFrame{}, ErrNoColumns
	}
	if len(records) == 1 {
		return dataframe.DataFrame{}, ErrNoRows
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}

// isParseError reports whether err comes from malformed tabular content
func isParseError(err error) bool {
	var csvErr *csv.ParseError
	return errors.As(err, &csvErr) ||
		errors.Is(err, ErrNoColumns) ||
		errors.Is(err, ErrNoRows) ||
		errors.Is(err, ErrTooManyFields)
}
