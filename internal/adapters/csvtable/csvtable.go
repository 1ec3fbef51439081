// Package csvtable reads and writes player snapshots as CSV.
package csvtable

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/okian/squadrank/internal/domain/table"
)

// bom is the UTF-8 byte order mark spreadsheet tools expect.
var bom = []byte{0xEF, 0xBB, 0xBF} //nolint:gochecknoglobals // constant bytes

// Read parses CSV from r. A leading byte order mark is skipped and short
// rows are padded.
func Read(r io.Reader) (*table.Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(bom)); err == nil && bytes.Equal(head, bom) {
		_, _ = br.Discard(len(bom))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	t := table.New(header)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRead, err)
		}
		t.AppendTextRow(rec)
	}
	return t, nil
}

// Write renders t as CSV with a leading byte order mark.
func Write(w io.Writer, t *table.Table) error {
	if _, err := w.Write(bom); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// ReadFile reads the CSV file at path.
func ReadFile(path string) (*table.Table, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

// WriteFile writes t to path, replacing any existing file.
func WriteFile(path string, t *table.Table) (err error) {
	f, err := os.Create(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrWrite, cerr)
		}
	}()
	return Write(f, t)
}
