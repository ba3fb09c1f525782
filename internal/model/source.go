package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SourceCode is source text embedded in a coverage record. Istanbul writes it
// either as a single string or as an array of lines; the form read is kept so
// it can be written back the same way.
type SourceCode struct {
	Text  string
	Lines bool
}

// NewSourceText wraps text that was supplied as a single string.
func NewSourceText(text string) *SourceCode {
	return &SourceCode{Text: text}
}

// NewSourceLines wraps text that was supplied as an array of lines.
func NewSourceLines(lines []string) *SourceCode {
	return &SourceCode{Text: strings.Join(lines, "\n"), Lines: true}
}

// SplitLines returns the text as lines, whatever form it came in.
func (c *SourceCode) SplitLines() []string {
	if c == nil {
		return nil
	}
	return strings.Split(c.Text, "\n")
}

// WithText returns a new value holding text in the same form as c.
func (c *SourceCode) WithText(text string) *SourceCode {
	return &SourceCode{Text: text, Lines: c != nil && c.Lines}
}

func (c SourceCode) MarshalJSON() ([]byte, error) {
	if c.Lines {
		return json.Marshal(strings.Split(c.Text, "\n"))
	}
	return json.Marshal(c.Text)
}

func (c *SourceCode) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = SourceCode{Text: text}
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("code must be a string or an array of strings: %w", err)
	}
	*c = SourceCode{Text: strings.Join(lines, "\n"), Lines: true}
	return nil
}
