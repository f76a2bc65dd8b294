// Package output delivers rendered trees to their destinations and summarizes them.
package output

import (
	"fmt"
	"strings"

	"github.com/temirov/foldertree/internal/types"
)

const (
	lineSeparator   = "\n"
	directoryMarker = "/"
)

// Summarize counts the directory and file lines of a rendered tree. The root
// line is not counted.
func Summarize(report string) types.TreeSummary {
	var summary types.TreeSummary
	lines := strings.Split(strings.TrimSuffix(report, lineSeparator), lineSeparator)
	if len(lines) <= 1 {
		return summary
	}
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, directoryMarker) {
			summary.Directories++
			continue
		}
		summary.Files++
	}
	return summary
}

// FormatSummaryLine formats a TreeSummary into a single human-readable line.
func FormatSummaryLine(summary types.TreeSummary) string {
	directoryLabel := "directories"
	if summary.Directories == 1 {
		directoryLabel = "directory"
	}
	fileLabel := "files"
	if summary.Files == 1 {
		fileLabel = "file"
	}
	extra := ""
	if summary.Tokens > 0 {
		extra = fmt.Sprintf(", %d tokens", summary.Tokens)
	}
	modelSuffix := ""
	if summary.Model != "" {
		modelSuffix = fmt.Sprintf(" (model: %s)", summary.Model)
	}
	return fmt.Sprintf("Summary: %d %s, %d %s%s%s", summary.Directories, directoryLabel, summary.Files, fileLabel, extra, modelSuffix)
}
