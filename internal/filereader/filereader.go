package filereader

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DiskReader reads generated files, source maps and coverage documents from
// the local disk.
type DiskReader struct{}

// ReadFile reads a whole file. UTF-8 and UTF-16 byte order marks are honored
// and stripped; files without a BOM are returned as stored.
func (DiskReader) ReadFile(path string) ([]byte, error) {
	return ReadFile(path)
}

// ReadJSON reads path and decodes it into v.
func (DiskReader) ReadJSON(path string, v any) error {
	data, err := ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode JSON file %s: %w", path, err)
	}
	return nil
}

// ReadFile reads a whole file, decoding it according to its byte order mark.
func ReadFile(filePath string) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(newDecodingReader(file))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// SplitLines splits text on "\n", dropping a trailing "\r" from each line.
func SplitLines(text []byte) []string {
	var lines []string
	scanner := newLineScanner(bytes.NewReader(text))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

func newDecodingReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(transform.Nop))
}

// newLineScanner allows long lines; bundled output is often a single line.
func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	return scanner
}
