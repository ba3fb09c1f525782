package reporting

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reportconfig"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/store"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/summary"
)

type mockFileReader map[string]string

func (m mockFileReader) ReadFile(path string) ([]byte, error) {
	if text, ok := m[path]; ok {
		return []byte(text), nil
	}
	return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
}

func TestReportContext_SourceLines(t *testing.T) {
	sources := store.NewMemoryStore()
	sources.Set("stored.ts", "a\nb")
	cfg := &reportconfig.RemapConfiguration{Base: "/proj"}
	rc := &ReportContext{
		Cfg:     cfg,
		Sources: sources,
		Reader:  mockFileReader{"/proj/src/x.ts": "x1\nx2\n", "/abs/y.ts": "y"},
	}

	embedded := model.NewFileCoverage("embedded.ts")
	embedded.Code = model.NewSourceLines([]string{"e1", "e2"})

	tests := []struct {
		name   string
		path   string
		fc     *model.FileCoverage
		want   []string
		wantOK bool
	}{
		{"from the store", "stored.ts", embedded, []string{"a", "b"}, true},
		{"embedded code", "embedded.ts", embedded, []string{"e1", "e2"}, true},
		{"under the base path", "src/x.ts", nil, []string{"x1", "x2"}, true},
		{"absolute path", "/abs/y.ts", nil, []string{"y"}, true},
		{"missing", "nope.ts", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := rc.SourceLines(tt.path, tt.fc)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReportContext_Watermarks(t *testing.T) {
	assert.Equal(t, summary.DefaultWatermarks(), (&ReportContext{}).Watermarks())

	custom := summary.DefaultWatermarks()
	custom.Lines = summary.Watermark{Low: 10, High: 20}
	rc := NewReportContext(&reportconfig.RemapConfiguration{Marks: custom}, nil)
	assert.Equal(t, custom, rc.Watermarks())
	_, ok := rc.SourceLines("definitely/not/here.ts", nil)
	assert.False(t, ok)
}
