// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/foldertree/internal/commands"
	"github.com/temirov/foldertree/internal/config"
	"github.com/temirov/foldertree/internal/output"
	"github.com/temirov/foldertree/internal/services/clipboard"
	"github.com/temirov/foldertree/internal/tokenizer"
	"github.com/temirov/foldertree/internal/utils"
)

const (
	ignoreFileFlagName      = "ignore-file-path"
	ignoreFileFlagShorthand = "i"
	reportFileFlagName      = "report-file-path"
	reportFileFlagShorthand = "o"
	nestedFlagName          = "nested"
	copyFlagName            = "copy"
	tokensFlagName          = "tokens"
	modelFlagName           = "model"
	configFlagName          = "config"
	verboseFlagName         = "verbose"
	globalFlagName          = "global"
	forceFlagName           = "force"

	rootUse              = "foldertree [flags] <root>"
	rootShortDescription = "render a directory tree filtered by ignore patterns"
	rootLongDescription  = `foldertree prints an indented tree of a directory, skipping entries whose
base name matches a pattern from the ignore file. Without --ignore-file-path the
root's .gitignore is used when present. The tree is also written to the report
file unless --report-file-path is empty.`
	rootUsageExample = `  # Render the current project and write report.txt
  foldertree .

  # Use a custom ignore file and skip the report file
  foldertree ~/src/app -i ~/patterns.ignore -o ""

  # Honour nested .gitignore files and copy the result
  foldertree --nested --copy .`
	versionTemplate = "foldertree version: {{.Version}}\n"

	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write a commented config.yaml to the working directory, or to
~/.foldertree with --global.`

	ignoreFileFlagDescription = "custom ignore file (defaults to <root>/.gitignore when present)"
	reportFileFlagDescription = "report file to write; empty disables it"
	nestedFlagDescription     = "honour .gitignore files in subdirectories"
	copyFlagDescription       = "copy the tree to the clipboard"
	tokensFlagDescription     = "log the token count of the tree"
	modelFlagDescription      = "tokenizer model used for token counting"
	configFlagDescription     = "configuration file (defaults to ./config.yaml)"
	verboseFlagDescription    = "enable debug logging"
	globalFlagDescription     = "write the configuration under the home directory"
	forceFlagDescription      = "overwrite an existing configuration file"

	flagWordSeparator       = "-"
	legacyFlagWordSeparator = "_"

	errorExpandPathFormat        = "expanding %s: %w"
	errorInspectIgnoreFileFormat = "inspecting %s: %w"
	errorTokenCountFormat        = "counting tokens: %w"

	logMessageConfigurationWritten = "configuration written"
	logMessageTreeSummary          = "tree generated"
	logMessageDefaultIgnoreFile    = "using default ignore file"
	logFieldPath                   = "path"
	logFieldSummary                = "summary"
)

// applicationDependencies carries the collaborators shared by every command.
type applicationDependencies struct {
	logger *zap.Logger
	level  zap.AtomicLevel
	stdout io.Writer
	copier clipboard.Copier
}

// treeOptions holds the parsed flags of the root command.
type treeOptions struct {
	ignoreFilePath    string
	reportFilePath    string
	nested            bool
	copyToClipboard   bool
	tokensEnabled     bool
	tokenModel        string
	configurationPath string
}

// treeSettings is the outcome of merging configuration with explicitly set flags.
type treeSettings struct {
	ignoreFilePath  string
	reportFilePath  string
	nested          bool
	copyToClipboard bool
	tokensEnabled   bool
	tokenModel      string
}

// Execute runs the foldertree application.
func Execute(logger *zap.Logger, level zap.AtomicLevel) error {
	dependencies := applicationDependencies{
		logger: utils.LoggerOrNop(logger),
		level:  level,
		stdout: os.Stdout,
		copier: clipboard.NewService(),
	}
	rootCommand := createRootCommand(dependencies)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(context.Background())
}

// createRootCommand builds the root Cobra command.
func createRootCommand(dependencies applicationDependencies) *cobra.Command {
	var options treeOptions
	var verbose bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Version:      utils.GetApplicationVersion(),
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if verbose {
				dependencies.level.SetLevel(zapcore.DebugLevel)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			loadedConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
				ExplicitFilePath: options.configurationPath,
			})
			if loadError != nil {
				return loadError
			}
			settings := resolveTreeSettings(command.Flags(), options, loadedConfiguration.Tree)
			return runTree(command.Context(), dependencies, arguments[0], settings)
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.SetGlobalNormalizationFunc(normalizeFlagName)

	rootCommand.PersistentFlags().BoolVar(&verbose, verboseFlagName, false, verboseFlagDescription)
	flagSet := rootCommand.Flags()
	flagSet.StringVarP(&options.ignoreFilePath, ignoreFileFlagName, ignoreFileFlagShorthand, utils.EmptyString, ignoreFileFlagDescription)
	flagSet.StringVarP(&options.reportFilePath, reportFileFlagName, reportFileFlagShorthand, utils.DefaultReportFileName, reportFileFlagDescription)
	registerBooleanFlag(flagSet, &options.nested, nestedFlagName, false, nestedFlagDescription)
	registerBooleanFlag(flagSet, &options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	registerBooleanFlag(flagSet, &options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	flagSet.StringVar(&options.tokenModel, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	flagSet.StringVar(&options.configurationPath, configFlagName, utils.EmptyString, configFlagDescription)

	rootCommand.AddCommand(createInitCommand(dependencies))
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies applicationDependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initError != nil {
				return initError
			}
			dependencies.logger.Info(logMessageConfigurationWritten, zap.String(logFieldPath, writtenPath))
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// resolveTreeSettings applies configuration values for every flag the user did not set explicitly.
func resolveTreeSettings(flagSet *pflag.FlagSet, options treeOptions, configuration config.TreeConfiguration) treeSettings {
	settings := treeSettings{
		ignoreFilePath:  options.ignoreFilePath,
		reportFilePath:  options.reportFilePath,
		nested:          options.nested,
		copyToClipboard: options.copyToClipboard,
		tokensEnabled:   options.tokensEnabled,
		tokenModel:      options.tokenModel,
	}
	if !flagSet.Changed(ignoreFileFlagName) && configuration.IgnoreFile != nil {
		settings.ignoreFilePath = *configuration.IgnoreFile
	}
	if !flagSet.Changed(reportFileFlagName) && configuration.Report != nil {
		settings.reportFilePath = *configuration.Report
	}
	if !flagSet.Changed(nestedFlagName) && configuration.Nested != nil {
		settings.nested = *configuration.Nested
	}
	if !flagSet.Changed(copyFlagName) && configuration.Copy != nil {
		settings.copyToClipboard = *configuration.Copy
	}
	if !flagSet.Changed(tokensFlagName) && configuration.Tokens.Enabled != nil {
		settings.tokensEnabled = *configuration.Tokens.Enabled
	}
	if !flagSet.Changed(modelFlagName) && configuration.Tokens.Model != "" {
		settings.tokenModel = configuration.Tokens.Model
	}
	return settings
}

// runTree renders the tree for rootArgument and delivers it to every configured destination.
// Nothing is written anywhere unless the tree renders successfully.
func runTree(ctx context.Context, dependencies applicationDependencies, rootArgument string, settings treeSettings) error {
	rootPath, expandError := expandPath(rootArgument)
	if expandError != nil {
		return expandError
	}
	ignoreFilePath, expandError := expandPath(settings.ignoreFilePath)
	if expandError != nil {
		return expandError
	}
	reportFilePath, expandError := expandPath(settings.reportFilePath)
	if expandError != nil {
		return expandError
	}
	if ignoreFilePath == utils.EmptyString {
		defaultIgnoreFilePath, lookupError := findDefaultIgnoreFile(rootPath)
		if lookupError != nil {
			return lookupError
		}
		if defaultIgnoreFilePath != utils.EmptyString {
			dependencies.logger.Debug(logMessageDefaultIgnoreFile, zap.String(logFieldPath, defaultIgnoreFilePath))
		}
		ignoreFilePath = defaultIgnoreFilePath
	}

	treeBuilder := commands.NewTreeBuilder(settings.nested, dependencies.logger)
	report, generateError := treeBuilder.GenerateTree(rootPath, ignoreFilePath)
	if generateError != nil {
		return generateError
	}

	summary := output.Summarize(report)
	if settings.tokensEnabled {
		counter, _, counterError := tokenizer.NewCounter(tokenizer.Config{Model: settings.tokenModel})
		if counterError != nil {
			return counterError
		}
		if countError := tokenizer.CountReport(counter, report, &summary); countError != nil {
			return fmt.Errorf(errorTokenCountFormat, countError)
		}
	}
	dependencies.logger.Info(logMessageTreeSummary, zap.String(logFieldSummary, output.FormatSummaryLine(summary)))

	sinks := []output.Sink{output.NewStdoutSink(dependencies.stdout)}
	if reportFilePath != utils.EmptyString {
		sinks = append(sinks, output.FileSink{Path: reportFilePath})
	}
	if settings.copyToClipboard {
		sinks = append(sinks, output.ClipboardSink{Copier: dependencies.copier})
	}
	return output.Deliver(ctx, report, sinks...)
}

// findDefaultIgnoreFile returns rootPath/.gitignore when it is a regular file. The root itself
// is validated later, so a missing root yields no default rather than an error.
func findDefaultIgnoreFile(rootPath string) (string, error) {
	candidatePath := filepath.Join(rootPath, utils.GitIgnoreFileName)
	info, statError := os.Stat(candidatePath)
	if statError != nil {
		if errors.Is(statError, os.ErrNotExist) || errors.Is(statError, syscall.ENOTDIR) {
			return utils.EmptyString, nil
		}
		return utils.EmptyString, fmt.Errorf(errorInspectIgnoreFileFormat, candidatePath, statError)
	}
	if !info.Mode().IsRegular() {
		return utils.EmptyString, nil
	}
	return candidatePath, nil
}

func expandPath(path string) (string, error) {
	expandedPath, expandError := utils.ExpandUserPath(path)
	if expandError != nil {
		return utils.EmptyString, fmt.Errorf(errorExpandPathFormat, path, expandError)
	}
	return expandedPath, nil
}

func normalizeFlagName(flagSet *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, legacyFlagWordSeparator, flagWordSeparator))
}
