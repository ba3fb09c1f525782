package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/logging"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reportconfig"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/summary"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/utils"
)

const (
	configBaseName   = "remap-coverage"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	envPrefix = "REMAP_COVERAGE"

	configFlagName           = "config"
	inputFlagName            = "input"
	outputFlagName           = "output"
	typeFlagName             = "type"
	reportsFlagName          = "reports"
	basePathFlagName         = "base-path"
	excludeFlagName          = "exclude"
	excludePatternFlagName   = "exclude-pattern"
	fileFiltersFlagName      = "file-filters"
	useAbsolutePathsFlagName = "use-absolute-paths"
	verbosityFlagName        = "verbosity"
	titleFlagName            = "title"
	logFileFlagName          = "log-file"

	logFilenameKey   = "log.filename"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"
	watermarksKey    = "watermarks"

	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
	defaultTitle         = "Coverage Report"
)

var watermarkKinds = []string{"statements", "functions", "branches", "lines"}

// inputSeparators split one --input value into several patterns.
var inputSeparators = []rune{';'}

func setDefaults(v *viper.Viper) {
	v.SetDefault(verbosityFlagName, logging.Info.String())
	v.SetDefault(titleFlagName, defaultTitle)

	v.SetDefault(logFilenameKey, "")
	v.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	v.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	v.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	v.SetDefault(logCompressKey, defaultLogCompress)

	marks := summary.DefaultWatermarks()
	for kind, mark := range map[string]summary.Watermark{
		"statements": marks.Statements,
		"functions":  marks.Functions,
		"branches":   marks.Branches,
		"lines":      marks.Lines,
	} {
		v.SetDefault(watermarksKey+"."+kind+".low", mark.Low)
		v.SetDefault(watermarksKey+"."+kind+".high", mark.High)
	}
}

func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

// readConfig loads path, or remap-coverage.yaml from the working directory
// when path is empty. Only an explicitly named file has to exist.
func readConfig(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(configFolderPath, configFileName)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !explicit && (errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("reading config %s: %w", path, err)
}

// runOptions is the resolved configuration of one invocation.
type runOptions struct {
	Inputs           []string
	Output           string
	Type             string
	Reports          map[string]string
	BasePath         string
	Exclude          string
	ExcludePattern   string
	FileFilters      []string
	UseAbsolutePaths bool
	Verbosity        logging.VerbosityLevel
	Title            string
	Log              logging.FileConfig
	Watermarks       summary.Watermarks
}

// loadRunOptions merges flags, environment, config file and defaults, with
// positional arguments taken as further inputs.
func loadRunOptions(v *viper.Viper, args []string) (runOptions, error) {
	verbosity, err := logging.ParseVerbosity(v.GetString(verbosityFlagName))
	if err != nil {
		return runOptions{}, err
	}

	opts := runOptions{
		Inputs:           splitInputs(append(v.GetStringSlice(inputFlagName), args...)),
		Output:           v.GetString(outputFlagName),
		Type:             v.GetString(typeFlagName),
		Reports:          v.GetStringMapString(reportsFlagName),
		BasePath:         v.GetString(basePathFlagName),
		Exclude:          v.GetString(excludeFlagName),
		ExcludePattern:   v.GetString(excludePatternFlagName),
		FileFilters:      v.GetStringSlice(fileFiltersFlagName),
		UseAbsolutePaths: v.GetBool(useAbsolutePathsFlagName),
		Verbosity:        verbosity,
		Title:            v.GetString(titleFlagName),
		Log: logging.FileConfig{
			Filename:   v.GetString(logFilenameKey),
			MaxSize:    v.GetInt(logMaxSizeKey),
			MaxBackups: v.GetInt(logMaxBackupsKey),
			MaxAge:     v.GetInt(logMaxAgeKey),
			Compress:   v.GetBool(logCompressKey),
		},
	}

	marks := make(map[string]summary.Watermark, len(watermarkKinds))
	for _, kind := range watermarkKinds {
		marks[kind] = summary.Watermark{
			Low:  v.GetFloat64(watermarksKey + "." + kind + ".low"),
			High: v.GetFloat64(watermarksKey + "." + kind + ".high"),
		}
	}
	opts.Watermarks = summary.Watermarks{
		Statements: marks["statements"],
		Functions:  marks["functions"],
		Branches:   marks["branches"],
		Lines:      marks["lines"],
	}
	if err := opts.Watermarks.Validate(); err != nil {
		return runOptions{}, err
	}

	if opts.Type == "" && len(opts.Reports) == 0 {
		opts.Type = reportconfig.DefaultReportType
	}
	if len(opts.Inputs) == 0 {
		return runOptions{}, errNoInput
	}
	return opts, nil
}

var errNoInput = errors.New("no coverage input given: pass --input or positional files")

func splitInputs(values []string) []string {
	var inputs []string
	for _, value := range values {
		inputs = append(inputs, utils.SplitThatEnsuresGlobsAreSafe(value, inputSeparators)...)
	}
	return inputs
}

// remapConfiguration materializes the options for the report builders.
func (o runOptions) remapConfiguration() *reportconfig.RemapConfiguration {
	cfg := reportconfig.NewRemapConfiguration(o.Inputs, o.Output, o.Type, o.Reports, o.Verbosity)
	cfg.Base = o.BasePath
	cfg.ExcludeSubstr = o.Exclude
	cfg.ExcludeRegexp = o.ExcludePattern
	if o.FileFilters != nil {
		cfg.FileFilterList = o.FileFilters
	}
	cfg.AbsolutePaths = o.UseAbsolutePaths
	cfg.Marks = o.Watermarks
	if o.Title != "" {
		cfg.CfgTitle = o.Title
	}
	return cfg
}
