// Package matrixio loads expression matrices and annotation tables
// from delimited text files, with transparent gzip and zstd
// decompression. The pipeline itself is io-free; these loaders exist
// so callers can get data into memory without hand-rolling parsers.
package matrixio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/scviz/dimplot"
)

// OpenMatrix reads a features-by-samples matrix from a delimited file.
// The header row holds sample IDs (its first cell is ignored); each
// following row holds a feature name and one value per sample.
// The delimiter comes from the extension (.tsv means tabs, anything
// else commas), and .gz/.zst suffixes are decompressed transparently.
func OpenMatrix(path string) (*dimplot.Matrix, error) {
	r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadMatrix(r, delimFor(path))
}

// ReadMatrix parses a matrix from delimited text. See OpenMatrix for
// the layout.
func ReadMatrix(r io.Reader, delim rune) (*dimplot.Matrix, error) {
	records, err := readAll(r, delim)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 || len(records[0]) < 2 {
		return nil, fmt.Errorf("matrix needs a sample header and at least one feature row")
	}

	samples := records[0][1:]
	features := make([]string, 0, len(records)-1)
	values := make([]float64, 0, (len(records)-1)*len(samples))

	for i, rec := range records[1:] {
		if len(rec) != len(samples)+1 {
			return nil, fmt.Errorf("row %d has %d fields, want %d", i+2, len(rec), len(samples)+1)
		}
		features = append(features, rec[0])
		for _, field := range rec[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d (%s): %w", i+2, rec[0], err)
			}
			values = append(values, v)
		}
	}
	return dimplot.NewMatrix(features, samples, values)
}

// OpenAnnotations reads an annotation table from a delimited file. The
// header row names the columns; one of them must be "id". Columns whose
// every value parses as a number become []float64, everything else
// stays []string.
func OpenAnnotations(path string) (*table.Table, error) {
	r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadAnnotations(r, delimFor(path))
}

// ReadAnnotations parses an annotation table from delimited text. See
// OpenAnnotations for the layout.
func ReadAnnotations(r io.Reader, delim rune) (*table.Table, error) {
	records, err := readAll(r, delim)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("annotations need a header and at least one row")
	}

	header := records[0]
	cols := make([][]string, len(header))
	for _, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("annotation row has %d fields, want %d", len(rec), len(header))
		}
		for j, field := range rec {
			cols[j] = append(cols[j], field)
		}
	}

	b := new(table.Builder)
	for j, name := range header {
		// The id column always stays textual.
		if name != "id" {
			if nums, ok := asFloats(cols[j]); ok {
				b.Add(name, nums)
				continue
			}
		}
		b.Add(name, cols[j])
	}
	return b.Done(), nil
}

func asFloats(vals []string) ([]float64, bool) {
	out := make([]float64, len(vals))
	for i, s := range vals {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func readAll(r io.Reader, delim rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing delimited input: %w", err)
	}
	return records, nil
}

func delimFor(path string) rune {
	name := strings.TrimSuffix(strings.TrimSuffix(path, ".gz"), ".zst")
	if filepath.Ext(name) == ".tsv" {
		return '\t'
	}
	return ','
}

// openReader opens path, wrapping it in a decompressor when the
// extension asks for one.
func openReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch filepath.Ext(path) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening gzip %s: %w", path, err)
		}
		return &wrappedReader{zr, f}, nil
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening zstd %s: %w", path, err)
		}
		return &wrappedReader{zr.IOReadCloser(), f}, nil
	}
	return f, nil
}

// wrappedReader closes both the decompressor and the underlying file.
type wrappedReader struct {
	io.ReadCloser
	f *os.File
}

func (w *wrappedReader) Close() error {
	err := w.ReadCloser.Close()
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	return err
}
