package sourcemap

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

// referencePattern matches the trailing directive a bundler leaves in generated
// code, e.g. `//# sourceMappingURL=app.js.map` or an inline base64 data URL.
var referencePattern = regexp.MustCompile(`(?:/{2}[#@]{1,2}|/\*[#@]?)\s+sourceMappingURL\s*=\s*(data:(?:[^;]+;)+base64,)?(\S+)`)

// Reference points at a source map document from generated code. For inline
// references URL holds the base64 payload.
type Reference struct {
	URL    string
	Inline bool
}

// FindReferences returns every source map reference in text, in the order
// they appear. Generated files occasionally carry stale directives, so callers
// should try each candidate until one loads.
func FindReferences(text string) []Reference {
	matches := referencePattern.FindAllStringSubmatch(text, -1)
	refs := make([]Reference, 0, len(matches))
	for _, m := range matches {
		url := strings.TrimSuffix(m[2], "*/")
		if url == "" {
			continue
		}
		refs = append(refs, Reference{URL: url, Inline: m[1] != ""})
	}
	return refs
}

// Decode returns the document bytes of an inline reference.
func (r Reference) Decode() ([]byte, error) {
	if !r.Inline {
		return nil, fmt.Errorf("sourcemap: reference %q is not inline", r.URL)
	}
	data, err := base64.StdEncoding.DecodeString(r.URL)
	if err != nil {
		// Some emitters drop the padding.
		if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(r.URL, "=")); rawErr == nil {
			return raw, nil
		}
		return nil, fmt.Errorf("sourcemap: decoding inline source map: %w", err)
	}
	return data, nil
}
