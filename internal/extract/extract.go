// Package extract reads delimited source files and binds their rows into
// records. The reader is deliberately lenient (stray quotes, ragged rows,
// drifting headers) because the files come from systems we do not control;
// only the file itself being unusable stops an extraction.
package extract

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"opinionetl/internal/model"
)

// SourceError reports an unusable input file: missing, empty, or not a CSV.
// It aborts the file's stage, not the run.
type SourceError struct {
	Path   string
	Reason string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("extract: %s: %s", e.Path, e.Reason)
}

// ValidateFile checks that path names a usable CSV file before any parsing
// starts. Failures come back as *SourceError.
func ValidateFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return &SourceError{Path: path, Reason: "empty path"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return &SourceError{Path: path, Reason: "file does not exist"}
	}
	if info.IsDir() {
		return &SourceError{Path: path, Reason: "path is a directory"}
	}
	if info.Size() == 0 {
		return &SourceError{Path: path, Reason: "file is empty"}
	}
	if !strings.HasSuffix(strings.ToLower(path), ".csv") {
		return &SourceError{Path: path, Reason: "not a .csv file"}
	}
	return nil
}

// Extractor streams one CSV file into a slice of records of a single kind.
type Extractor struct {
	Binder *Binder
}

// File validates path, then reads and binds every data row. Malformed rows
// are logged and skipped; only an I/O-level failure after validation returns
// an error.
func (e *Extractor) File(ctx context.Context, kind model.Kind, path string) ([]model.Record, error) {
	if err := ValidateFile(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceError{Path: path, Reason: err.Error()}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, &SourceError{Path: path, Reason: "cannot read header: " + err.Error()}
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = CanonicalField(h)
	}

	var (
		out     []model.Record
		lineNum = 1
		skipped int
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		lineNum++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// encoding/csv with LazyQuotes rarely errors per row, but when
			// it does the row is noise, not a reason to drop the file.
			log.Printf("extract: kind=%s file=%s line=%d skipped: %v", kind, path, lineNum, err)
			skipped++
			continue
		}
		cells := make(row, len(cols))
		for i, v := range rec {
			if i < len(cols) && cols[i] != "" {
				cells[cols[i]] = v
			}
		}
		out = append(out, e.Binder.Bind(kind, cells))
	}

	log.Printf("extract: kind=%s file=%s rows=%d skipped=%d", kind, path, len(out), skipped)
	return out, nil
}
