package remap

import (
	"errors"
	"fmt"
)

// ErrNoCoverage is returned by Remap when it is called without any coverage.
var ErrNoCoverage = errors.New("remap: no coverage supplied")

// MissingFileError reports a generated file or source map that could not be read.
type MissingFileError struct {
	Path string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf(`Could not find file: "%s"`, e.Path)
}

func (e *MissingFileError) Unwrap() error { return e.Err }

// MissingSourceMapError reports a generated file whose coverage is kept in
// generated coordinates because no usable source map was found.
type MissingSourceMapError struct {
	Path string
}

func (e *MissingSourceMapError) Error() string {
	return fmt.Sprintf(`Could not find source map for: "%s"`, e.Path)
}

// ExclusionNotice reports a generated file skipped by an exclusion rule. It
// is informational.
type ExclusionNotice struct {
	Path string
}

func (e *ExclusionNotice) Error() string {
	return fmt.Sprintf(`Excluding: "%s"`, e.Path)
}

// BranchCardinalityError reports a branch whose hit array does not line up
// with its locations.
type BranchCardinalityError struct {
	Path      string
	Locations int
	Hits      int
}

func (e *BranchCardinalityError) Error() string {
	return fmt.Sprintf("branch in %q has %d locations but %d hit counts", e.Path, e.Locations, e.Hits)
}
