package htmlreport

import (
	"fmt"
	"path"
	"strings"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/utils"
)

// LineVisitStatus is the coverage state of one source line.
type LineVisitStatus int

const (
	NotCoverable LineVisitStatus = iota
	Covered
	NotCovered
	PartiallyCovered
)

const maxFilenameLengthBase = 95

// determineLineVisitStatus classifies a line. Negative hits mark a line
// without statements; branch arms decide for lines where branches start.
func determineLineVisitStatus(hits int, isBranchPoint bool, coveredBranches int, totalBranches int) LineVisitStatus {
	if hits < 0 {
		return NotCoverable
	}
	if isBranchPoint && totalBranches > 0 {
		if coveredBranches == totalBranches {
			return Covered
		}
		if coveredBranches > 0 || hits > 0 {
			return PartiallyCovered
		}
		return NotCovered
	}
	if hits > 0 {
		return Covered
	}
	return NotCovered
}

func lineVisitStatusToString(status LineVisitStatus) string {
	switch status {
	case Covered:
		return "green"
	case NotCovered:
		return "red"
	case PartiallyCovered:
		return "orange"
	default:
		return "gray"
	}
}

// generateUniqueFilename creates a sanitized and unique HTML filename for a
// source file, given its path relative to the report root. The
// existingFilenames map is modified by this function.
func generateUniqueFilename(relativePath string, existingFilenames map[string]struct{}) string {
	cleaned := strings.TrimLeft(path.Clean("/"+filepathToSlash(relativePath)), "/")
	if cleaned == "" {
		cleaned = "file"
	}

	sanitizedName := strings.Trim(utils.ReplaceInvalidPathChars(cleaned), "_")
	if len(sanitizedName) > maxFilenameLengthBase {
		sanitizedName = sanitizedName[:50] + sanitizedName[len(sanitizedName)-(maxFilenameLengthBase-50):]
	}

	fileName := sanitizedName + ".html"
	counter := 1
	normalizedFileNameToCheck := strings.ToLower(fileName)

	_, exists := existingFilenames[normalizedFileNameToCheck]
	for exists || normalizedFileNameToCheck == indexFilename {
		counter++
		fileName = fmt.Sprintf("%s%d.html", sanitizedName, counter)
		normalizedFileNameToCheck = strings.ToLower(fileName)
		_, exists = existingFilenames[normalizedFileNameToCheck]
	}

	existingFilenames[normalizedFileNameToCheck] = struct{}{}
	return fileName
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
