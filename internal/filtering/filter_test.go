package filtering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathFilter(t *testing.T) {
	testCases := []struct {
		name       string
		rules      []string
		path       string
		want       bool
		wantCustom bool
	}{
		{name: "no rules includes everything", path: "src/a.ts", want: true},
		{name: "exclude by wildcard", rules: []string{"-*.spec.ts"}, path: "src/a.spec.ts", want: false, wantCustom: true},
		{name: "exclude is case insensitive", rules: []string{"-*/VENDOR/*"}, path: "lib/vendor/x.js", want: false, wantCustom: true},
		{name: "include only matching", rules: []string{"+src/*"}, path: "test/a.ts", want: false, wantCustom: true},
		{name: "include matches either separator", rules: []string{"+src/*"}, path: `src\a.ts`, want: true, wantCustom: true},
		{name: "exclusion wins", rules: []string{"+src/*", "-src/gen/*"}, path: "src/gen/a.ts", want: false, wantCustom: true},
		{name: "question mark matches one character", rules: []string{"-a?.ts"}, path: "ab.ts", want: false, wantCustom: true},
		{name: "empty rules are ignored", rules: []string{"", "  "}, path: "x", want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pf, err := NewPathFilter(tc.rules)
			require.NoError(t, err)
			assert.Equal(t, tc.want, pf.IsIncluded(tc.path))
			assert.Equal(t, tc.wantCustom, pf.HasCustomFilters())
		})
	}
}

func TestNewPathFilter_InvalidRules(t *testing.T) {
	_, err := NewPathFilter([]string{"src/*", "+"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must start with '+' or '-'")
	assert.Contains(t, err.Error(), "invalid include filter '+'")
}
