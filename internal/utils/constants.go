package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

const (
	// LoggerInitializationFailedMessageFormat is used when the zap logger cannot be built.
	LoggerInitializationFailedMessageFormat = "initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes the fatal log entry emitted on command failure.
	ApplicationExecutionFailedMessage = "foldertree failed"
)

const (
	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".foldertree"
	// ConfigFileName is the configuration file name used for both global and local configuration.
	ConfigFileName = "config.yaml"
	// DefaultReportFileName is the report file written when no other path is configured.
	DefaultReportFileName = "report.txt"
)
