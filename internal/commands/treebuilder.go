package commands

import "go.uber.org/zap"

// TreeBuilder renders directory trees using configured options.
type TreeBuilder struct {
	// NestedIgnoreFiles extends the active patterns with each visited directory's
	// .gitignore. The extension applies to that directory's subtree only.
	NestedIgnoreFiles bool
	Logger            *zap.Logger
}

// NewTreeBuilder returns a TreeBuilder logging to logger.
func NewTreeBuilder(nestedIgnoreFiles bool, logger *zap.Logger) *TreeBuilder {
	return &TreeBuilder{
		NestedIgnoreFiles: nestedIgnoreFiles,
		Logger:            logger,
	}
}
