// Package input opens trace sources, decompressing them by file extension.
package input

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Stdin is the path that names standard input.
const Stdin = "-"

// Sources returns the paths to read in order. No paths means standard input.
func Sources(paths []string) []string {
	if len(paths) == 0 {
		return []string{Stdin}
	}
	return paths
}

// Open opens a trace source. "-" reads stdin, which is never closed.
// Files ending in .gz are gunzipped; .zst and .zstd are zstd-decoded.
func Open(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == Stdin {
		return io.NopCloser(stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return &stackedReader{Reader: gzReader, closers: []func() error{gzReader.Close, file.Close}}, nil
	case strings.HasSuffix(path, ".zst"), strings.HasSuffix(path, ".zstd"):
		zstdReader, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("zstd %s: %w", path, err)
		}
		closeZstd := func() error {
			zstdReader.Close()
			return nil
		}
		return &stackedReader{Reader: zstdReader, closers: []func() error{closeZstd, file.Close}}, nil
	default:
		return file, nil
	}
}

// stackedReader closes a decoder and the file beneath it.
type stackedReader struct {
	io.Reader
	closers []func() error
}

func (s *stackedReader) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
