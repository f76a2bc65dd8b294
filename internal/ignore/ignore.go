// Package ignore loads ignore files and matches directory entry names against their glob patterns.
//
// Patterns are evaluated against base names only. Supported syntax is shell-style
// globbing: "*" matches any run of characters, "?" matches one character and
// "[...]" / "[!...]" match a character class. Braces, commas and backslashes are
// literal characters. Negation ("!pattern"), anchoring and recursive "**"
// semantics of Git are not interpreted.
package ignore

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gobwas/glob"

	"github.com/temirov/foldertree/internal/types"
	"github.com/temirov/foldertree/internal/utils"
)

const (
	commentPrefix             = "#"
	directoryPatternSuffix    = "/"
	errorOpenIgnoreFileFormat = "opening ignore file %s: %w"
	errorReadIgnoreFileFormat = "reading ignore file %s: %w"
	errorCloseIgnoreFileFmt   = "closing ignore file %s: %w"

	classOpener           = '['
	classCloser           = ']'
	escapeCharacter       = '\\'
	literalMetacharacters = "{}\\"
)

// foldCase makes matching case-insensitive on hosts whose file systems are.
var foldCase = runtime.GOOS == "windows"

// Pattern is a single compiled ignore glob.
type Pattern struct {
	source  string
	matcher glob.Glob
}

// String returns the pattern as written in the ignore file.
func (pattern Pattern) String() string {
	return pattern.source
}

// Match reports whether name matches the pattern.
func (pattern Pattern) Match(name string) bool {
	if foldCase {
		name = strings.ToLower(name)
	}
	return pattern.matcher.Match(name)
}

// compilePattern compiles source, falling back to a literal match when source is not a valid glob.
func compilePattern(source string) Pattern {
	expression := source
	if foldCase {
		expression = strings.ToLower(expression)
	}
	compiled, compileError := glob.Compile(escapeLiteralMetacharacters(expression))
	if compileError != nil {
		compiled = glob.MustCompile(glob.QuoteMeta(expression))
	}
	return Pattern{source: source, matcher: compiled}
}

// escapeLiteralMetacharacters quotes braces outside character classes and backslashes
// everywhere so that only "*", "?" and "[...]" keep a special meaning.
func escapeLiteralMetacharacters(expression string) string {
	var escaped strings.Builder
	insideClass := false
	for _, character := range expression {
		switch {
		case insideClass:
			if character == classCloser {
				insideClass = false
			}
			if character == escapeCharacter {
				escaped.WriteRune(escapeCharacter)
			}
		case character == classOpener:
			insideClass = true
		case strings.ContainsRune(literalMetacharacters, character):
			escaped.WriteRune(escapeCharacter)
		}
		escaped.WriteRune(character)
	}
	return escaped.String()
}

// Set is an immutable collection of ignore patterns with any-match semantics.
// The zero value is an empty set.
type Set struct {
	patterns []Pattern
}

// New builds a Set from raw pattern strings. Surrounding whitespace and a trailing
// slash are removed, empty strings are skipped and duplicates collapse to their
// first occurrence.
func New(sources ...string) Set {
	return Set{}.Extend(sources...)
}

// Extend returns a new Set holding the receiver's patterns followed by sources.
// The receiver is never modified.
func (set Set) Extend(sources ...string) Set {
	knownSources := make(map[string]struct{}, len(set.patterns)+len(sources))
	extended := make([]Pattern, len(set.patterns), len(set.patterns)+len(sources))
	copy(extended, set.patterns)
	for _, existing := range set.patterns {
		knownSources[existing.source] = struct{}{}
	}
	for _, source := range sources {
		normalized := normalizePattern(source)
		if normalized == utils.EmptyString {
			continue
		}
		if _, known := knownSources[normalized]; known {
			continue
		}
		knownSources[normalized] = struct{}{}
		extended = append(extended, compilePattern(normalized))
	}
	return Set{patterns: extended}
}

// Len returns the number of patterns in the set.
func (set Set) Len() int {
	return len(set.patterns)
}

// Patterns returns the pattern sources in insertion order.
func (set Set) Patterns() []string {
	sources := make([]string, 0, len(set.patterns))
	for _, pattern := range set.patterns {
		sources = append(sources, pattern.source)
	}
	return sources
}

// Matches reports whether the base name of entryPath is ".gitignore" or matches any pattern.
func (set Set) Matches(entryPath string) bool {
	baseName := filepath.Base(entryPath)
	if baseName == utils.GitIgnoreFileName {
		return true
	}
	for _, pattern := range set.patterns {
		if pattern.Match(baseName) {
			return true
		}
	}
	return false
}

// Matches reports whether entryPath is excluded by set.
func Matches(entryPath string, set Set) bool {
	return set.Matches(entryPath)
}

// Parse reads ignore patterns from reader, one per line. Blank lines and lines
// whose first non-whitespace character is "#" are skipped.
func Parse(reader io.Reader) (Set, error) {
	var sources []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == utils.EmptyString || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		sources = append(sources, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return Set{}, scanError
	}
	return New(utils.DeduplicatePatterns(sources)...), nil
}

// Load reads the ignore file at ignoreFilePath. An empty path yields an empty set.
// A path that does not reference an existing regular file fails with an
// *types.InvalidPathError wrapping types.ErrInvalidIgnoreFile.
//
// #nosec G304
func Load(ignoreFilePath string) (loadedSet Set, loadError error) {
	if ignoreFilePath == utils.EmptyString {
		return Set{}, nil
	}
	fileInformation, statError := os.Stat(ignoreFilePath)
	if statError != nil || !fileInformation.Mode().IsRegular() {
		return Set{}, types.NewInvalidIgnoreFileError(ignoreFilePath)
	}

	fileHandle, openError := os.Open(ignoreFilePath)
	if openError != nil {
		return Set{}, fmt.Errorf(errorOpenIgnoreFileFormat, ignoreFilePath, openError)
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil && loadError == nil {
			loadedSet = Set{}
			loadError = fmt.Errorf(errorCloseIgnoreFileFmt, ignoreFilePath, closeError)
		}
	}()

	parsedSet, parseError := Parse(fileHandle)
	if parseError != nil {
		return Set{}, fmt.Errorf(errorReadIgnoreFileFormat, ignoreFilePath, parseError)
	}
	return parsedSet, nil
}

func normalizePattern(source string) string {
	trimmed := strings.TrimSpace(source)
	return strings.TrimRight(trimmed, directoryPatternSuffix)
}
