package sourcemap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// ErrIndexMap is returned for index maps (documents made of sections), which
// are not supported.
var ErrIndexMap = errors.New("sourcemap: index maps with sections are not supported")

// xssiPrefix may precede a source map served over HTTP.
var xssiPrefix = []byte(")]}'")

// Document is a version 3 source map.
type Document struct {
	Version        int               `json:"version"`
	File           string            `json:"file,omitempty"`
	SourceRoot     string            `json:"sourceRoot,omitempty"`
	Sources        []string          `json:"sources"`
	SourcesContent []*string         `json:"sourcesContent,omitempty"`
	Names          []string          `json:"names,omitempty"`
	Mappings       string            `json:"mappings"`
	Sections       []json.RawMessage `json:"sections,omitempty"`
}

// ParseDocument decodes and validates a source map document.
func ParseDocument(data []byte) (*Document, error) {
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, xssiPrefix) {
		data = data[len(xssiPrefix):]
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			data = data[i+1:]
		}
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("sourcemap: decoding document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the parts of the document the consumer relies on.
func (d *Document) Validate() error {
	if len(d.Sections) > 0 {
		return ErrIndexMap
	}
	if d.Version != 3 {
		return fmt.Errorf("sourcemap: unsupported version %d", d.Version)
	}
	return nil
}

// Clone returns a copy that can be rewritten without touching d.
func (d *Document) Clone() *Document {
	out := *d
	out.Sources = append([]string(nil), d.Sources...)
	out.SourcesContent = append([]*string(nil), d.SourcesContent...)
	out.Names = append([]string(nil), d.Names...)
	return &out
}

// AbsolutizeSources anchors explicitly relative sources ("./x", "../x") at
// dir, the directory holding the map, and then folds sourceRoot into the
// remaining relative entries. Afterwards every entry is the final name of its
// source and sourceRoot is empty. abs resolves a relative dir against the
// caller's working directory; with a nil abs the joined path stays relative.
func (d *Document) AbsolutizeSources(dir string, abs func(string) (string, error)) {
	for i, src := range d.Sources {
		if strings.HasPrefix(src, ".") {
			joined := filepath.Join(dir, src)
			if abs != nil {
				if resolved, err := abs(joined); err == nil {
					joined = resolved
				}
			}
			d.Sources[i] = joined
		}
	}
	if d.SourceRoot == "" {
		return
	}
	for i, src := range d.Sources {
		if IsAbsoluteSource(src) {
			continue
		}
		d.Sources[i] = joinSourceRoot(d.SourceRoot, src)
	}
	d.SourceRoot = ""
}

// HasSourcesContent reports whether the document embeds any original text.
func (d *Document) HasSourcesContent() bool {
	for _, c := range d.SourcesContent {
		if c != nil {
			return true
		}
	}
	return false
}

// Content returns the embedded text of the i-th source.
func (d *Document) Content(i int) (string, bool) {
	if i < 0 || i >= len(d.SourcesContent) || d.SourcesContent[i] == nil {
		return "", false
	}
	return *d.SourcesContent[i], true
}

// Encode serializes the document.
func (d *Document) Encode() ([]byte, error) {
	return json.Marshal(d)
}

// IsAbsoluteSource reports whether a source name is an absolute path or a
// URL, i.e. whether it must not be joined to a directory.
func IsAbsoluteSource(src string) bool {
	if filepath.IsAbs(src) || path.IsAbs(src) {
		return true
	}
	u, err := url.Parse(src)
	return err == nil && u.Scheme != "" && len(u.Scheme) > 1
}

func joinSourceRoot(root, src string) string {
	if u, err := url.Parse(root); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return strings.TrimSuffix(root, "/") + "/" + src
	}
	return filepath.Join(root, src)
}
