// Package utils contains general helper functions used across the foldertree tool.
package utils

// Ignore file constants used across the project.
const (
	// GitIgnoreFileName is the name of the Git ignore file. Entries with this name are never rendered.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory. It is never rendered or descended into.
	GitDirectoryName = ".git"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}
