package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reportconfig"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporter"
)

const rootLongDescription = `Remap istanbul coverage of generated JavaScript back to the original
sources named by its source maps, then write the result in one or more
report formats.

Inputs are coverage JSON files or glob patterns (*, ?, **, [...], {a,b});
several patterns may be joined with ';'. Source maps are found through the
inputSourceMap of a record or the sourceMappingURL comment of the generated
file.`

func newRootCmd(v *viper.Viper) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "remap-coverage [flags] [input...]",
		Short:        "Remap JavaScript coverage through source maps",
		Long:         rootLongDescription + "\n\nReport types: " + strings.Join(reporter.Types(), ", "),
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return readConfig(v, configPath)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadRunOptions(v, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	setDefaults(v)
	configureEnv(v)
	configureRootFlags(cmd, v, &configPath)
	return cmd
}

func configureRootFlags(cmd *cobra.Command, v *viper.Viper, configPath *string) {
	flags := cmd.Flags()

	flags.StringVar(configPath, configFlagName, "", "config file (default ./"+configFileName+")")

	flags.StringArrayP(inputFlagName, "i", nil, "coverage JSON file or glob pattern (can be repeated, ';' separated)")
	bindFlagToConfig(v, flags.Lookup(inputFlagName), inputFlagName)

	flags.StringP(outputFlagName, "o", "", "destination of the --type report (file or directory; console when empty)")
	bindFlagToConfig(v, flags.Lookup(outputFlagName), outputFlagName)

	flags.StringP(typeFlagName, "t", "", "report type written to --output (default "+reportconfig.DefaultReportType+" unless --reports is given)")
	bindFlagToConfig(v, flags.Lookup(typeFlagName), typeFlagName)

	flags.StringToString(reportsFlagName, nil, "additional reports as type=destination pairs")
	bindFlagToConfig(v, flags.Lookup(reportsFlagName), reportsFlagName)

	flags.StringP(basePathFlagName, "b", "", "directory original sources are resolved against instead of the source map directory")
	bindFlagToConfig(v, flags.Lookup(basePathFlagName), basePathFlagName)

	flags.StringP(excludeFlagName, "e", "", "exclude files whose path contains this text")
	bindFlagToConfig(v, flags.Lookup(excludeFlagName), excludeFlagName)

	flags.String(excludePatternFlagName, "", "exclude files whose path matches this regular expression")
	bindFlagToConfig(v, flags.Lookup(excludePatternFlagName), excludePatternFlagName)

	flags.StringSlice(fileFiltersFlagName, nil, "+/- wildcard rules selecting files, e.g. +src/*,-*.spec.ts")
	bindFlagToConfig(v, flags.Lookup(fileFiltersFlagName), fileFiltersFlagName)

	flags.Bool(useAbsolutePathsFlagName, false, "keep original paths absolute")
	bindFlagToConfig(v, flags.Lookup(useAbsolutePathsFlagName), useAbsolutePathsFlagName)

	flags.String(verbosityFlagName, v.GetString(verbosityFlagName), "logging verbosity (Verbose, Info, Warning, Error, Off)")
	bindFlagToConfig(v, flags.Lookup(verbosityFlagName), verbosityFlagName)

	flags.String(titleFlagName, v.GetString(titleFlagName), "title of the html report")
	bindFlagToConfig(v, flags.Lookup(titleFlagName), titleFlagName)

	flags.String(logFileFlagName, "", "also write logs to this rotating file")
	bindFlagToConfig(v, flags.Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(v *viper.Viper, flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(v.BindPFlag(key, flag))
}
