// Package reporter keeps the registry of report types and writes finished
// coverage through them. Report builders live in subpackages and register
// themselves from init.
package reporter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporting"
)

// Mode tells where a report type writes to.
type Mode int

const (
	ModeFile Mode = iota
	ModeDirectory
	ModeConsole
)

func (m Mode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeDirectory:
		return "directory"
	case ModeConsole:
		return "console"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// createFile opens the destination of a file-mode report.
var createFile = func(name string) (io.WriteCloser, error) { return os.Create(name) }

// DefaultDirectory is used by directory reports without a destination.
const DefaultDirectory = "coverage"

// Output is the destination handed to a builder. File and console reports
// write to Writer; directory reports create their files below Dir.
type Output struct {
	Writer io.Writer
	Dir    string
}

// IReportBuilder renders one report type.
type IReportBuilder interface {
	ReportType() string
	CreateReport(out Output, coverage model.CoverageMap, rctx reporting.IReportContext) error
}

// Factory creates a fresh builder per write.
type Factory func() IReportBuilder

type registration struct {
	mode    Mode
	factory Factory
}

var (
	mu       sync.RWMutex
	registry = map[string]registration{}
)

// Register makes a report type available under name. It panics when the name
// is taken, as registration happens from init.
func Register(name string, mode Mode, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("reporter: report type %q registered twice", name))
	}
	registry[name] = registration{mode: mode, factory: factory}
}

// Types lists the registered report types in sorted order.
func Types() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModeOf returns the output mode of a report type.
func ModeOf(name string) (Mode, error) {
	reg, err := lookup(name)
	if err != nil {
		return 0, err
	}
	return reg.mode, nil
}

func lookup(name string) (registration, error) {
	mu.RLock()
	defer mu.RUnlock()
	reg, ok := registry[name]
	if !ok {
		return registration{}, &UnrecognizedReportTypeError{Type: name}
	}
	return reg, nil
}

// UnrecognizedReportTypeError is returned before anything is written when a
// report type is not registered.
type UnrecognizedReportTypeError struct {
	Type string
}

func (e *UnrecognizedReportTypeError) Error() string {
	return fmt.Sprintf("Unrecognized report type of %q.", e.Type)
}

// Write renders coverage as reportType. dest is a file or directory depending
// on the mode; a file report without dest goes to console, as does every
// console report.
func Write(
	ctx context.Context,
	coverage model.CoverageMap,
	reportType string,
	rctx reporting.IReportContext,
	dest string,
	console io.Writer,
) (err error) {
	reg, err := lookup(reportType)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	builder := reg.factory()
	out := Output{Writer: console}
	switch {
	case reg.mode == ModeDirectory:
		if dest == "" {
			dest = DefaultDirectory
		}
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dest, err)
		}
		out = Output{Dir: dest}
	case reg.mode == ModeFile && dest != "":
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory for %s: %w", dest, err)
		}
		f, createErr := createFile(dest)
		if createErr != nil {
			return fmt.Errorf("failed to create report file %s: %w", dest, createErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close report file %s: %w", dest, cerr)
			}
		}()
		out = Output{Writer: f}
	default:
		dest = "console"
	}

	if err := builder.CreateReport(out, coverage, rctx); err != nil {
		return fmt.Errorf("%s report: %w", builder.ReportType(), err)
	}
	slog.Info("Report written", "type", reportType, "destination", dest)
	return nil
}

// WriteAll writes every report of reports (type to destination) concurrently.
// All types are checked before anything is written. Console output is
// collected per report and flushed in type order once all reports are done.
func WriteAll(
	ctx context.Context,
	coverage model.CoverageMap,
	reports map[string]string,
	rctx reporting.IReportContext,
	console io.Writer,
) error {
	names := make([]string, 0, len(reports))
	for name := range reports {
		if _, err := lookup(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	buffers := make([]bytes.Buffer, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			return Write(gctx, coverage, name, rctx, reports[name], &buffers[i])
		})
	}
	err := g.Wait()

	for i := range buffers {
		if buffers[i].Len() == 0 {
			continue
		}
		if _, werr := buffers[i].WriteTo(console); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}
