package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/foldertree/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	configurationDirectoryPermissions = 0o755
	configurationFilePermissions      = 0o600

	errorInitWorkingDirectoryFormat = "determine working directory for configuration: %w"
	errorInitHomeDirectoryFormat    = "resolve home directory for configuration: %w"
	errorCreateDirectoryFormat      = "create configuration directory %s: %w"
	errorUnsupportedTargetFormat    = "unsupported init target %q"
	errorConfigurationExistsFormat  = "configuration file already exists at %s"
	errorInspectPathFormat          = "inspect configuration path %s: %w"
	errorWriteConfigurationFormat   = "write configuration to %s: %w"

	defaultConfigurationTemplate = `# foldertree configuration
tree:
  # custom ignore file; when empty the root's .gitignore is used if present
  ignore_file: ""
  # report file written after each run; empty disables it
  report: report.txt
  # honour .gitignore files found below the root
  nested: false
  # copy the report to the clipboard
  copy: false
  tokens:
    enabled: false
    model: gpt-4o
`
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return "", fmt.Errorf(errorInitWorkingDirectoryFormat, workingDirectoryError)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.ConfigFileName)
	case InitTargetGlobal:
		homeDirectory, homeError := os.UserHomeDir()
		if homeError != nil {
			return "", fmt.Errorf(errorInitHomeDirectoryFormat, homeError)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if mkdirError := os.MkdirAll(configurationDirectory, configurationDirectoryPermissions); mkdirError != nil {
			return "", fmt.Errorf(errorCreateDirectoryFormat, configurationDirectory, mkdirError)
		}
		destinationPath = filepath.Join(configurationDirectory, utils.ConfigFileName)
	default:
		return "", fmt.Errorf(errorUnsupportedTargetFormat, target)
	}

	if _, statError := os.Stat(destinationPath); statError == nil {
		if !options.Force {
			return "", fmt.Errorf(errorConfigurationExistsFormat, destinationPath)
		}
	} else if !os.IsNotExist(statError) {
		return "", fmt.Errorf(errorInspectPathFormat, destinationPath, statError)
	}

	if writeError := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), configurationFilePermissions); writeError != nil {
		return "", fmt.Errorf(errorWriteConfigurationFormat, destinationPath, writeError)
	}

	return destinationPath, nil
}
