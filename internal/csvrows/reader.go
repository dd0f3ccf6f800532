// Package csvrows tokenizes a CSV byte stream into header-keyed rows, one row
// per call, without buffering the file.
//
// The input may start with a UTF-8 or UTF-16 byte-order mark; it is consumed
// and UTF-16 input is transcoded. Invalid UTF-8 is replaced with U+FFFD.
// Rows may be shorter or longer than the header; blank lines are skipped.
package csvrows

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"turbo_reviews/internal/domain"
)

const utf8BOM = "\uFEFF"

// Reader yields domain.RawRow values keyed by the trimmed header names.
// Not safe for concurrent use.
type Reader struct {
	cr     *csv.Reader
	header []string
	done   bool
}

// Option configures a Reader.
type Option func(*csv.Reader)

// WithComma sets the field delimiter.
func WithComma(c rune) Option {
	return func(cr *csv.Reader) { cr.Comma = c }
}

// WithLazyQuotes tolerates stray quotes inside unquoted fields.
func WithLazyQuotes(lazy bool) Option {
	return func(cr *csv.Reader) { cr.LazyQuotes = lazy }
}

func NewReader(r io.Reader, opts ...Option) *Reader {
	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	for _, opt := range opts {
		opt(cr)
	}
	return &Reader{cr: cr}
}

// Header returns the column names once the first row has been requested.
func (r *Reader) Header() []string { return r.header }

// Next returns the next non-blank row, or io.EOF at end of input. Malformed
// CSV is reported with its line number and ends the stream.
func (r *Reader) Next() (domain.RawRow, error) {
	if r.done {
		return nil, io.EOF
	}
	if r.header == nil {
		if err := r.readHeader(); err != nil {
			return nil, r.fail(err)
		}
	}
	for {
		rec, err := r.cr.Read()
		if err != nil {
			return nil, r.fail(err)
		}
		if blank(rec) {
			continue
		}
		row := make(domain.RawRow, len(r.header))
		for i, name := range r.header {
			if i >= len(rec) {
				break
			}
			if name == "" {
				continue
			}
			row[name] = strings.TrimSpace(rec[i])
		}
		return row, nil
	}
}

func (r *Reader) readHeader() error {
	for {
		rec, err := r.cr.Read()
		if err != nil {
			return err
		}
		if blank(rec) {
			continue
		}
		hdr := make([]string, len(rec))
		for i, h := range rec {
			if i == 0 {
				h = strings.TrimPrefix(h, utf8BOM)
			}
			hdr[i] = strings.TrimSpace(h)
		}
		r.header = hdr
		return nil
	}
}

func (r *Reader) fail(err error) error {
	r.done = true
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	return fmt.Errorf("csvrows: %w", err)
}

// blank reports a whitespace-only line. A line of bare delimiters is a row.
func blank(rec []string) bool {
	return len(rec) == 1 && strings.TrimSpace(rec[0]) == ""
}
