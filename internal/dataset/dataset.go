package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// naValues are the cell values read as missing. The list matches the default
// NA tokens of pandas' read_csv so counts agree with notebooks run on the same
// file.
var naValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// trueValues and falseValues are the boolean tokens of pandas' read_csv.
var (
	trueValues  = []string{"True", "TRUE", "true"}
	falseValues = []string{"False", "FALSE", "false"}
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Dataset is an immutable, fully loaded table.
type Dataset struct {
	Path  string
	Frame dataframe.DataFrame
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return d.Frame.Nrow()
}

// Columns returns the column names in file order.
func (d *Dataset) Columns() []string {
	return d.Frame.Names()
}

// HasColumn reports whether a column with exactly this name exists.
func (d *Dataset) HasColumn(name string) bool {
	for _, col := range d.Frame.Names() {
		if col == name {
			return true
		}
	}
	return false
}

// Require returns a SchemaError for the first missing column.
func (d *Dataset) Require(columns ...string) error {
	for _, col := range columns {
		if !d.HasColumn(col) {
			return &SchemaError{Column: col}
		}
	}
	return nil
}

// Column returns the named column.
func (d *Dataset) Column(name string) (series.Series, error) {
	if !d.HasColumn(name) {
		return series.Series{}, &SchemaError{Column: name}
	}
	return d.Frame.Col(name), nil
}

// ColumnsWithPrefix returns the columns whose name starts with prefix.
func (d *Dataset) ColumnsWithPrefix(prefix string) []string {
	var cols []string
	for _, col := range d.Frame.Names() {
		if strings.HasPrefix(col, prefix) {
			cols = append(cols, col)
		}
	}
	return cols
}

// Rows returns a new dataset holding the given record positions, in order.
func (d *Dataset) Rows(idx []int) (*Dataset, error) {
	if len(idx) == 0 {
		return &Dataset{Path: d.Path, Frame: emptyLike(d.Frame)}, nil
	}

	frame := d.Frame.Subset(idx)
	if frame.Err != nil {
		return nil, fmt.Errorf("select rows: %w", frame.Err)
	}
	return &Dataset{Path: d.Path, Frame: frame}, nil
}

// WriteCSV writes the dataset, header included.
func (d *Dataset) WriteCSV(w io.Writer) error {
	return d.Frame.WriteCSV(w)
}

// Parse builds a dataset from the raw bytes of a CSV file. The first record is
// the header and every record must have the same number of fields.
func Parse(path string, data []byte) (*Dataset, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if !utf8.Valid(data) {
		return nil, &ParseError{
			Path:    path,
			Line:    invalidUTF8Line(data),
			Message: "invalid UTF-8 encoding",
		}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = 0

	records, err := reader.ReadAll()
	if err != nil {
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			return nil, &ParseError{
				Path:    path,
				Line:    csvErr.Line,
				Message: csvErr.Err.Error(),
				Err:     err,
			}
		}
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}

	if len(records) == 0 {
		return nil, &ParseError{Path: path, Message: "no columns to parse from file"}
	}

	header := normalizeHeader(records[0])
	rows := records[1:]

	if len(rows) == 0 {
		cols := make([]series.Series, len(header))
		for i, name := range header {
			cols[i] = series.New([]string{}, series.String, name)
		}
		return &Dataset{Path: path, Frame: dataframe.New(cols...)}, nil
	}

	frame := dataframe.LoadRecords(
		append([][]string{header}, rows...),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(naValues),
		dataframe.WithTypes(boolColumnTypes(header, rows)),
	)
	if frame.Err != nil {
		return nil, &ParseError{Path: path, Message: frame.Err.Error(), Err: frame.Err}
	}

	return &Dataset{Path: path, Frame: frame}, nil
}

// normalizeHeader names blank header cells "Unnamed: <i>" and suffixes
// repeated names with ".<n>".
func normalizeHeader(raw []string) []string {
	header := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))

	for i, name := range raw {
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if seen[name] {
			base := name
			for n := 1; seen[name]; n++ {
				name = base + "." + strconv.Itoa(n)
			}
		}
		seen[name] = true
		header[i] = name
	}

	return header
}

// boolColumnTypes fixes the type of every column holding a boolean token. A
// column whose present cells are all boolean tokens is Bool and its cells are
// rewritten to the lowercase form gota parses; a column mixing them with any
// other value is String. Columns without boolean tokens are left to detection.
func boolColumnTypes(header []string, rows [][]string) map[string]series.Type {
	types := make(map[string]series.Type)

	for j, name := range header {
		var bools, others int
		for _, row := range rows {
			switch cell := row[j]; {
			case slices.Contains(naValues, cell):
			case slices.Contains(trueValues, cell), slices.Contains(falseValues, cell):
				bools++
			default:
				others++
			}
		}

		switch {
		case bools == 0:
		case others > 0:
			types[name] = series.String
		default:
			types[name] = series.Bool
			for _, row := range rows {
				if slices.Contains(trueValues, row[j]) {
					row[j] = "true"
				} else if slices.Contains(falseValues, row[j]) {
					row[j] = "false"
				}
			}
		}
	}

	return types
}

func invalidUTF8Line(data []byte) int {
	line := 1
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size <= 1 {
			return line
		}
		if r == '\n' {
			line++
		}
		data = data[size:]
	}
	return line
}

func emptyLike(frame dataframe.DataFrame) dataframe.DataFrame {
	cols := make([]series.Series, 0, frame.Ncol())
	for _, name := range frame.Names() {
		cols = append(cols, series.New([]string{}, frame.Col(name).Type(), name))
	}
	return dataframe.New(cols...)
}
