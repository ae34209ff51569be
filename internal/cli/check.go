package cli

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ensure-requirements-specified/internal/app"
	"ensure-requirements-specified/internal/types"
)

type checkOptions struct {
	OnlyWarn           bool
	Verbose            bool
	SkipCheckFilenames bool
	FilenamePattern    string
	ExcludeDirs        []string
	Root               string
	Format             string
}

func bindCheckFlags(cmd *cobra.Command, opts *checkOptions) {
	cmd.Flags().BoolVarP(&opts.OnlyWarn, "only-warn", "w", false, "Exit with status code 0 even if there are errors")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Print every requirements file processed")
	cmd.Flags().BoolVarP(&opts.SkipCheckFilenames, "skip-check-filenames", "s", false, "Suppress filename check (check any file given)")
	cmd.Flags().StringVar(&opts.FilenamePattern, "filename-pattern", types.DefaultFilenamePattern, "Regular expression a file's base name must match")
	cmd.Flags().StringSliceVar(&opts.ExcludeDirs, "exclude-dir", nil, "Directory names to skip while walking")
	cmd.Flags().StringVar(&opts.Root, "root", "", "Directory to walk when no filenames are given (default: working directory)")
	cmd.Flags().StringVar(&opts.Format, "format", string(types.OutputFormatText), "Output format: text or yaml")
	_ = viper.BindPFlag("only_warn", cmd.Flags().Lookup("only-warn"))
	_ = viper.BindPFlag("verbose", cmd.Flags().Lookup("verbose"))
	_ = viper.BindPFlag("skip_check_filenames", cmd.Flags().Lookup("skip-check-filenames"))
	_ = viper.BindPFlag("filename_pattern", cmd.Flags().Lookup("filename-pattern"))
	_ = viper.BindPFlag("exclude_dirs", cmd.Flags().Lookup("exclude-dir"))
	_ = viper.BindPFlag("root", cmd.Flags().Lookup("root"))
	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
}

func runCheck(cmd *cobra.Command, args []string, opts checkOptions) error {
	ctx := log.Logger.WithContext(cmd.Context())
	format, err := parseFormat(resolveString(cmd, opts.Format, "format", "format"))
	if err != nil {
		return err
	}

	service := newAppService()
	service.Progress = cmd.OutOrStdout()
	result, err := service.Check(ctx, app.CheckRequest{
		Paths:             args,
		Root:              resolveString(cmd, opts.Root, "root", "root"),
		ExcludeDirs:       resolveStrings(cmd, opts.ExcludeDirs, "exclude_dirs", "exclude-dir"),
		FilenamePattern:   resolveString(cmd, opts.FilenamePattern, "filename_pattern", "filename-pattern"),
		SkipFilenameCheck: resolveBool(cmd, opts.SkipCheckFilenames, "skip_check_filenames", "skip-check-filenames"),
		Verbose:           resolveBool(cmd, opts.Verbose, "verbose", "verbose"),
	})
	if err != nil {
		return err
	}
	if err := service.ReportWriter.WriteReport(cmd.OutOrStdout(), result, format); err != nil {
		return err
	}

	onlyWarn := resolveBool(cmd, opts.OnlyWarn, "only_warn", "only-warn")
	log.Ctx(ctx).Debug().
		Bool("has_problems", result.HasProblems).
		Int("files", len(result.Files)).
		Int("messages", len(result.Messages)).
		Bool("only_warn", onlyWarn).
		Msg("check finished")
	if app.ExitCode(result, onlyWarn) == types.ExitProblems {
		return errProblemsFound
	}
	return nil
}

func parseFormat(value string) (types.OutputFormat, error) {
	switch format := types.OutputFormat(strings.ToLower(strings.TrimSpace(value))); format {
	case "", types.OutputFormatText:
		return types.OutputFormatText, nil
	case types.OutputFormatYAML:
		return format, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported output format: %s", value))
	}
}

var newAppService = app.NewService

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if cmd == nil {
		if len(values) > 0 {
			return values
		}
		return viper.GetStringSlice(key)
	}
	if flagChanged(cmd, flagName) {
		return values
	}
	return viper.GetStringSlice(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
