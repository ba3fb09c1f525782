package htmlreport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUniqueFilename(t *testing.T) {
	tests := []struct {
		name              string
		relativePath      string
		existingFilenames map[string]struct{}
		want              string
		wantExistingCount int
	}{
		{
			name:              "simple case, no existing",
			relativePath:      "app.ts",
			existingFilenames: make(map[string]struct{}),
			want:              "app.ts.html",
			wantExistingCount: 1,
		},
		{
			name:              "directories are flattened",
			relativePath:      "src/lib/util.ts",
			existingFilenames: make(map[string]struct{}),
			want:              "src_lib_util.ts.html",
			wantExistingCount: 1,
		},
		{
			name:              "windows separators",
			relativePath:      `src\lib\util.ts`,
			existingFilenames: make(map[string]struct{}),
			want:              "src_lib_util.ts.html",
			wantExistingCount: 1,
		},
		{
			name:              "absolute and parent segments",
			relativePath:      "/work/../src/a b.ts",
			existingFilenames: make(map[string]struct{}),
			want:              "src_a_b.ts.html",
			wantExistingCount: 1,
		},
		{
			name:              "filename collision, case insensitive",
			relativePath:      "App.ts",
			existingFilenames: map[string]struct{}{"app.ts.html": {}},
			want:              "App.ts2.html",
			wantExistingCount: 2,
		},
		{
			name:         "filename collision, multiple existing",
			relativePath: "app.ts",
			existingFilenames: map[string]struct{}{
				"app.ts.html":  {},
				"app.ts2.html": {},
			},
			want:              "app.ts3.html",
			wantExistingCount: 3,
		},
		{
			name:              "index page name is reserved",
			relativePath:      "index",
			existingFilenames: make(map[string]struct{}),
			want:              "index2.html",
			wantExistingCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generateUniqueFilename(tt.relativePath, tt.existingFilenames)
			assert.Equal(t, tt.want, got)
			assert.Len(t, tt.existingFilenames, tt.wantExistingCount)
			assert.Contains(t, tt.existingFilenames, strings.ToLower(got))
		})
	}
}

func TestGenerateUniqueFilename_Truncation(t *testing.T) {
	long := strings.Repeat("a", 60) + "/" + strings.Repeat("b", 60) + ".ts"
	got := generateUniqueFilename(long, make(map[string]struct{}))

	assert.Len(t, got, maxFilenameLengthBase+len(".html"))
	assert.True(t, strings.HasPrefix(got, strings.Repeat("a", 50)))
	assert.True(t, strings.HasSuffix(got, "bbb.ts.html"))
}

func TestDetermineLineVisitStatus(t *testing.T) {
	tests := []struct {
		name            string
		hits            int
		isBranchPoint   bool
		coveredBranches int
		totalBranches   int
		want            LineVisitStatus
		wantClass       string
	}{
		{"no statements", -1, false, 0, 0, NotCoverable, "gray"},
		{"hit", 3, false, 0, 0, Covered, "green"},
		{"missed", 0, false, 0, 0, NotCovered, "red"},
		{"all arms taken", 2, true, 2, 2, Covered, "green"},
		{"some arms taken", 2, true, 1, 2, PartiallyCovered, "orange"},
		{"line hit, no arm taken", 1, true, 0, 2, PartiallyCovered, "orange"},
		{"nothing taken", 0, true, 0, 2, NotCovered, "red"},
		{"branch point without arms", 1, true, 0, 0, Covered, "green"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := determineLineVisitStatus(tt.hits, tt.isBranchPoint, tt.coveredBranches, tt.totalBranches)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantClass, lineVisitStatusToString(got))
		})
	}
}
