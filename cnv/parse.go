package cnv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// Returned when the file ends before the `*END*` line
var ErrNoEndOfHeader = errors.New("end of header sentinel '" + END_OF_HEADER + "' not found")

// Header lines can get long (e.g. embedded XML configuration)
const maxLineSize = 1024 * 1024

// Parsed observation rows. Missing or unparseable cells are NaN.
type Table struct {
	Header Header
	Rows   [][]float64
}

// Number of observations
func (t *Table) Len() int {
	return len(t.Rows)
}

// Returns the values of the first column with the given name (case-insensitive)
func (t *Table) Column(name string) ([]float64, bool) {
	column, ok := t.Header.Column(name)
	if !ok {
		return nil, false
	}
	return t.Values(column.Index), true
}

// Returns the values stored in the column at position `index`
func (t *Table) Values(index int) []float64 {
	values := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[index]
	}
	return values
}

func Parse(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	table, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

func Read(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	header, err := readHeader(scanner)
	if err != nil {
		return nil, err
	}

	rows, err := readRows(scanner, len(header.Columns))
	if err != nil {
		return nil, err
	}

	slog.Info(fmt.Sprintf("Parsed %d columns and %d observations", len(header.Columns), len(rows)))
	return &Table{Header: *header, Rows: rows}, nil
}

// Consumes the scanner up to and including the sentinel line
func readHeader(scanner *bufio.Scanner) (*Header, error) {
	var header Header
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == END_OF_HEADER {
			return &header, nil
		}
		header.Lines = append(header.Lines, line)

		if start, ok := parseStartTime(line); ok {
			t, err := time.Parse(START_TIME_LAYOUT, start)
			if err != nil {
				return nil, fmt.Errorf("invalid start_time %q: %w", start, err)
			}
			header.StartTime = start
			header.Start = &t
		}

		if column, ok := parseColumn(line, len(header.Columns)); ok {
			header.Columns = append(header.Columns, column)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, ErrNoEndOfHeader
}

func readRows(scanner *bufio.Scanner, ncols int) ([][]float64, error) {
	var rows [][]float64
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		row := make([]float64, ncols)
		for i := range row {
			row[i] = math.NaN()
			if i >= len(fields) {
				continue
			}
			if val, err := strconv.ParseFloat(fields[i], 64); err == nil {
				row[i] = val
			}
		}
		rows = append(rows, row)
	}
	return rows, scanner.Err()
}
