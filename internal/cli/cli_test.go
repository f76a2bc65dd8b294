package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/foldertree/internal/config"
	"github.com/temirov/foldertree/internal/types"
	"github.com/temirov/foldertree/internal/utils"
)

type recordingCopier struct {
	copied []string
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return nil
}

type commandHarness struct {
	stdout bytes.Buffer
	copier recordingCopier
	level  zap.AtomicLevel
}

func newCommandHarness(t *testing.T) *commandHarness {
	t.Helper()
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)
	return &commandHarness{level: zap.NewAtomicLevelAt(zapcore.InfoLevel)}
}

func (harness *commandHarness) run(arguments ...string) error {
	dependencies := applicationDependencies{
		logger: zap.NewNop(),
		level:  harness.level,
		stdout: &harness.stdout,
		copier: &harness.copier,
	}
	rootCommand := createRootCommand(dependencies)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	rootCommand.SetOut(&bytes.Buffer{})
	rootCommand.SetErr(&bytes.Buffer{})
	return rootCommand.ExecuteContext(context.Background())
}

// createScenarioTree builds folder1/, folder2/, file1.txt and file2.log under a fresh root.
func createScenarioTree(t *testing.T) string {
	t.Helper()
	rootDirectory := t.TempDir()
	for _, directoryName := range []string{"folder1", "folder2"} {
		if err := os.Mkdir(filepath.Join(rootDirectory, directoryName), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", directoryName, err)
		}
	}
	for _, fileName := range []string{"file1.txt", "file2.log"} {
		if err := os.WriteFile(filepath.Join(rootDirectory, fileName), []byte("data"), 0o600); err != nil {
			t.Fatalf("write %s: %v", fileName, err)
		}
	}
	return rootDirectory
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRootCommandUsesDefaultGitignoreAndWritesReport(t *testing.T) {
	harness := newCommandHarness(t)
	rootDirectory := createScenarioTree(t)
	writeFile(t, filepath.Join(rootDirectory, utils.GitIgnoreFileName), "*.txt\n*.log\n")
	reportPath := filepath.Join(t.TempDir(), "report.txt")

	if err := harness.run(rootDirectory, "--report-file-path", reportPath); err != nil {
		t.Fatalf("run error: %v", err)
	}

	expectedTree := filepath.Base(rootDirectory) + "/\n|-- folder1/\n|-- folder2/\n"
	if harness.stdout.String() != expectedTree+"\n" {
		t.Fatalf("unexpected stdout: %q", harness.stdout.String())
	}
	reportContent, readErr := os.ReadFile(reportPath)
	if readErr != nil {
		t.Fatalf("read report: %v", readErr)
	}
	if string(reportContent) != expectedTree {
		t.Fatalf("unexpected report: %q", string(reportContent))
	}
	if len(harness.copier.copied) != 0 {
		t.Fatalf("clipboard used without --copy")
	}
}

func TestRootCommandAcceptsUnderscoredFlags(t *testing.T) {
	harness := newCommandHarness(t)
	rootDirectory := createScenarioTree(t)
	ignoreFilePath := filepath.Join(t.TempDir(), "patterns.ignore")
	writeFile(t, ignoreFilePath, "*.log\n")
	reportPath := filepath.Join(t.TempDir(), "tree.txt")

	err := harness.run("--ignore_file_path", ignoreFilePath, "--report_file_path", reportPath, rootDirectory)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	reportContent, readErr := os.ReadFile(reportPath)
	if readErr != nil {
		t.Fatalf("read report: %v", readErr)
	}
	expectedTree := filepath.Base(rootDirectory) + "/\n|-- folder1/\n|-- folder2/\n|-- file1.txt\n"
	if string(reportContent) != expectedTree {
		t.Fatalf("unexpected report: %q", string(reportContent))
	}
}

func TestRootCommandValidationFailureWritesNoReport(t *testing.T) {
	rootDirectory := createScenarioTree(t)
	missingRoot := filepath.Join(t.TempDir(), "missing")
	missingIgnoreFile := filepath.Join(t.TempDir(), "missing.ignore")

	testCases := []struct {
		name            string
		arguments       func(reportPath string) []string
		expectedMessage string
		expectedError   error
	}{
		{
			name: "invalid_root",
			arguments: func(reportPath string) []string {
				return []string{missingRoot, "-o", reportPath}
			},
			expectedMessage: missingRoot + " is not a valid directory",
			expectedError:   types.ErrInvalidDirectory,
		},
		{
			name: "invalid_ignore_file",
			arguments: func(reportPath string) []string {
				return []string{rootDirectory, "-i", missingIgnoreFile, "-o", reportPath}
			},
			expectedMessage: missingIgnoreFile + " is not a valid file",
			expectedError:   types.ErrInvalidIgnoreFile,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			harness := newCommandHarness(t)
			reportPath := filepath.Join(t.TempDir(), "report.txt")
			err := harness.run(testCase.arguments(reportPath)...)
			if !errors.Is(err, testCase.expectedError) {
				t.Fatalf("expected %v, got %v", testCase.expectedError, err)
			}
			if err.Error() != testCase.expectedMessage {
				t.Fatalf("expected message %q, got %q", testCase.expectedMessage, err.Error())
			}
			if _, statErr := os.Stat(reportPath); !os.IsNotExist(statErr) {
				t.Fatalf("report file must not exist, stat error: %v", statErr)
			}
			if harness.stdout.Len() != 0 {
				t.Fatalf("expected no stdout, got %q", harness.stdout.String())
			}
		})
	}
}

func TestRootCommandRequiresRootArgument(t *testing.T) {
	harness := newCommandHarness(t)
	if err := harness.run(); err == nil {
		t.Fatalf("expected error without root argument")
	}
}

func TestRootCommandCopiesToClipboard(t *testing.T) {
	harness := newCommandHarness(t)
	rootDirectory := createScenarioTree(t)

	if err := harness.run(rootDirectory, "--copy", "-o", ""); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if len(harness.copier.copied) != 1 {
		t.Fatalf("expected one clipboard copy, got %d", len(harness.copier.copied))
	}
	if harness.copier.copied[0]+"\n" != harness.stdout.String() {
		t.Fatalf("clipboard %q differs from stdout %q", harness.copier.copied[0], harness.stdout.String())
	}
}

func TestRootCommandAppliesConfigurationFile(t *testing.T) {
	harness := newCommandHarness(t)
	rootDirectory := createScenarioTree(t)
	nestedDirectory := filepath.Join(rootDirectory, "folder1")
	writeFile(t, filepath.Join(nestedDirectory, "secret.key"), "key")
	writeFile(t, filepath.Join(nestedDirectory, "notes.md"), "notes")
	writeFile(t, filepath.Join(nestedDirectory, utils.GitIgnoreFileName), "*.key\n")
	reportPath := filepath.Join(t.TempDir(), "configured.txt")
	configurationPath := filepath.Join(t.TempDir(), "foldertree.yaml")
	writeFile(t, configurationPath, "tree:\n  nested: true\n  report: "+reportPath+"\n")

	if err := harness.run(rootDirectory, "--config", configurationPath); err != nil {
		t.Fatalf("run error: %v", err)
	}
	reportContent, readErr := os.ReadFile(reportPath)
	if readErr != nil {
		t.Fatalf("read configured report: %v", readErr)
	}
	if strings.Contains(string(reportContent), "secret.key") {
		t.Fatalf("nested ignore not applied: %q", string(reportContent))
	}
	if !strings.Contains(string(reportContent), "|   |-- notes.md\n") {
		t.Fatalf("expected nested file in report: %q", string(reportContent))
	}
}

func TestRootCommandVerboseRaisesLogLevel(t *testing.T) {
	harness := newCommandHarness(t)
	rootDirectory := createScenarioTree(t)
	if err := harness.run("--verbose", rootDirectory, "-o", ""); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if harness.level.Level() != zapcore.DebugLevel {
		t.Fatalf("expected debug level, got %s", harness.level.Level())
	}
}

func TestInitCommandWritesGlobalConfiguration(t *testing.T) {
	harness := newCommandHarness(t)
	if err := harness.run("init", "--global"); err != nil {
		t.Fatalf("init error: %v", err)
	}
	homeDirectory, homeErr := os.UserHomeDir()
	if homeErr != nil {
		t.Fatalf("home directory: %v", homeErr)
	}
	writtenPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
	if _, statErr := os.Stat(writtenPath); statErr != nil {
		t.Fatalf("expected configuration at %s: %v", writtenPath, statErr)
	}
	if err := harness.run("init", "--global"); err == nil {
		t.Fatalf("expected error when configuration exists without --force")
	}
	if err := harness.run("init", "--global", "--force"); err != nil {
		t.Fatalf("init --force error: %v", err)
	}
}

func TestResolveTreeSettingsPrecedence(t *testing.T) {
	trueValue := true
	configuredReport := "configured.txt"
	configuredIgnore := "configured.ignore"
	configuration := config.TreeConfiguration{
		IgnoreFile: &configuredIgnore,
		Report:     &configuredReport,
		Nested:     &trueValue,
		Tokens:     config.TokenConfiguration{Enabled: &trueValue, Model: "gpt-4"},
	}

	testCases := []struct {
		name      string
		arguments []string
		expected  treeSettings
	}{
		{
			name:      "configuration_fills_unset_flags",
			arguments: []string{},
			expected: treeSettings{
				ignoreFilePath: configuredIgnore,
				reportFilePath: configuredReport,
				nested:         true,
				tokensEnabled:  true,
				tokenModel:     "gpt-4",
			},
		},
		{
			name:      "explicit_flags_win",
			arguments: []string{"-o", "", "-i", "cli.ignore", "--nested=false", "--model", "gpt-4o-mini"},
			expected: treeSettings{
				ignoreFilePath: "cli.ignore",
				reportFilePath: "",
				nested:         false,
				tokensEnabled:  true,
				tokenModel:     "gpt-4o-mini",
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			rootCommand := createRootCommand(applicationDependencies{logger: zap.NewNop(), level: zap.NewAtomicLevel()})
			if parseErr := rootCommand.ParseFlags(testCase.arguments); parseErr != nil {
				t.Fatalf("parse flags: %v", parseErr)
			}
			var options treeOptions
			options.ignoreFilePath, _ = rootCommand.Flags().GetString(ignoreFileFlagName)
			options.reportFilePath, _ = rootCommand.Flags().GetString(reportFileFlagName)
			options.tokenModel, _ = rootCommand.Flags().GetString(modelFlagName)
			options.nested = rootCommand.Flags().Lookup(nestedFlagName).Value.String() == "true"
			actual := resolveTreeSettings(rootCommand.Flags(), options, configuration)
			if actual != testCase.expected {
				t.Fatalf("expected %+v, got %+v", testCase.expected, actual)
			}
		})
	}
}

func TestRootCommandKeepsRootNamedLikeBooleanLiteral(t *testing.T) {
	harness := newCommandHarness(t)
	parentDirectory := t.TempDir()
	literalNamedRoot := filepath.Join(parentDirectory, "n")
	if err := os.Mkdir(literalNamedRoot, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(literalNamedRoot, "main.go"), "package main")
	previousDirectory, getwdError := os.Getwd()
	if getwdError != nil {
		t.Fatalf("getwd: %v", getwdError)
	}
	if chdirError := os.Chdir(parentDirectory); chdirError != nil {
		t.Fatalf("chdir: %v", chdirError)
	}
	t.Cleanup(func() { _ = os.Chdir(previousDirectory) })

	if err := harness.run("--nested", "n", "-o", ""); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if harness.stdout.String() != "n/\n|-- main.go\n\n" {
		t.Fatalf("unexpected stdout: %q", harness.stdout.String())
	}
}
