// Package commands contains the tree construction logic behind the foldertree command.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/foldertree/internal/ignore"
	"github.com/temirov/foldertree/internal/types"
	"github.com/temirov/foldertree/internal/utils"
)

const (
	// EntryConnector prefixes every rendered entry.
	EntryConnector = "|-- "
	// IndentUnit is appended to the indent prefix once per nesting level.
	IndentUnit = "|   "
	// DirectorySuffix follows directory names, including the root line.
	DirectorySuffix = "/"

	lineTerminator = "\n"

	// errorBuildTreeFormat is used when building the tree fails.
	errorBuildTreeFormat = "building tree for %s: %w"
	// errorReadDirectoryFormat is used when a directory cannot be read.
	errorReadDirectoryFormat = "reading directory %s: %w"
	// errorStatEntryFormat is used when a symbolic link target cannot be inspected.
	errorStatEntryFormat = "inspecting %s: %w"
	// errorNestedIgnoreFormat is used when a nested ignore file cannot be loaded.
	errorNestedIgnoreFormat = "loading nested ignore file %s: %w"
)

// directoryEntry is a view of one listed child, classified by what it resolves to.
type directoryEntry struct {
	Name string
	Path string
	Kind string
}

// GenerateTree renders rootPath with the default TreeBuilder.
func GenerateTree(rootPath string, ignoreFilePath string) (string, error) {
	return (&TreeBuilder{}).GenerateTree(rootPath, ignoreFilePath)
}

// GenerateTree validates rootPath and ignoreFilePath, then renders the tree.
// The first line is the root's base name followed by "/". An empty
// ignoreFilePath means no ignore file was supplied.
func (treeBuilder *TreeBuilder) GenerateTree(rootPath string, ignoreFilePath string) (string, error) {
	rootInformation, rootStatError := os.Stat(rootPath)
	if rootStatError != nil || !rootInformation.IsDir() {
		return utils.EmptyString, types.NewInvalidDirectoryError(rootPath)
	}

	patternSet, loadError := ignore.Load(ignoreFilePath)
	if loadError != nil {
		return utils.EmptyString, loadError
	}

	utils.LoggerOrNop(treeBuilder.Logger).Debug("rendering tree",
		zap.String("root", rootPath),
		zap.Strings("patterns", patternSet.Patterns()),
		zap.Bool("nested", treeBuilder.NestedIgnoreFiles),
	)

	renderedContents, renderError := treeBuilder.RenderLevel(rootPath, utils.EmptyString, patternSet)
	if renderError != nil {
		return utils.EmptyString, fmt.Errorf(errorBuildTreeFormat, rootPath, renderError)
	}
	return rootDisplayName(rootPath) + DirectorySuffix + lineTerminator + renderedContents, nil
}

// RenderLevel renders the children of directoryPath, recursing into visible
// subdirectories with indentPrefix extended by IndentUnit. Directories are
// listed before files; each group is ordered case-insensitively by name.
func (treeBuilder *TreeBuilder) RenderLevel(directoryPath string, indentPrefix string, patternSet ignore.Set) (string, error) {
	logger := utils.LoggerOrNop(treeBuilder.Logger)

	activeSet := patternSet
	if treeBuilder.NestedIgnoreFiles {
		extendedSet, extendError := extendWithNestedIgnore(directoryPath, patternSet)
		if extendError != nil {
			return utils.EmptyString, extendError
		}
		activeSet = extendedSet
	}

	entries, listError := listEntries(directoryPath)
	if listError != nil {
		return utils.EmptyString, listError
	}

	var renderedLevel strings.Builder
	for _, entry := range entries {
		if activeSet.Matches(entry.Name) {
			logger.Debug("skipping ignored entry", zap.String("path", entry.Path))
			continue
		}
		if entry.Kind == types.NodeTypeDirectory && entry.Name == utils.GitDirectoryName {
			logger.Debug("skipping git directory", zap.String("path", entry.Path))
			continue
		}

		isDirectory := entry.Kind == types.NodeTypeDirectory
		renderedLevel.WriteString(formatTreeLine(indentPrefix, entry.Name, isDirectory))
		if !isDirectory {
			continue
		}
		renderedSubtree, subtreeError := treeBuilder.RenderLevel(entry.Path, indentPrefix+IndentUnit, activeSet)
		if subtreeError != nil {
			return utils.EmptyString, subtreeError
		}
		renderedLevel.WriteString(renderedSubtree)
	}
	return renderedLevel.String(), nil
}

// formatTreeLine renders one tree line.
func formatTreeLine(indentPrefix string, name string, isDirectory bool) string {
	if isDirectory {
		return indentPrefix + EntryConnector + name + DirectorySuffix + lineTerminator
	}
	return indentPrefix + EntryConnector + name + lineTerminator
}

// listEntries returns the sorted children of directoryPath. Symbolic links are
// classified by their targets; dangling links and special files are omitted.
func listEntries(directoryPath string) ([]directoryEntry, error) {
	rawEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, directoryPath, readDirectoryError)
	}

	entries := make([]directoryEntry, 0, len(rawEntries))
	for _, rawEntry := range rawEntries {
		entryPath := filepath.Join(directoryPath, rawEntry.Name())
		entryMode := rawEntry.Type()
		if entryMode&fs.ModeSymlink != 0 {
			targetInformation, targetStatError := os.Stat(entryPath)
			if targetStatError != nil {
				if errors.Is(targetStatError, fs.ErrNotExist) {
					continue
				}
				return nil, fmt.Errorf(errorStatEntryFormat, entryPath, targetStatError)
			}
			entryMode = targetInformation.Mode().Type()
		}

		var entryKind string
		switch {
		case entryMode.IsDir():
			entryKind = types.NodeTypeDirectory
		case entryMode.IsRegular():
			entryKind = types.NodeTypeFile
		default:
			continue
		}
		entries = append(entries, directoryEntry{Name: rawEntry.Name(), Path: entryPath, Kind: entryKind})
	}

	sortEntries(entries)
	return entries, nil
}

// sortEntries orders directories before files, then by case-folded name, then by exact name.
func sortEntries(entries []directoryEntry) {
	sort.SliceStable(entries, func(leftIndex, rightIndex int) bool {
		left, right := entries[leftIndex], entries[rightIndex]
		if left.Kind != right.Kind {
			return left.Kind == types.NodeTypeDirectory
		}
		leftKey, rightKey := strings.ToLower(left.Name), strings.ToLower(right.Name)
		if leftKey != rightKey {
			return leftKey < rightKey
		}
		return left.Name < right.Name
	})
}

// extendWithNestedIgnore returns patternSet extended with the patterns of the
// .gitignore inside directoryPath, if one exists.
func extendWithNestedIgnore(directoryPath string, patternSet ignore.Set) (ignore.Set, error) {
	nestedIgnorePath := filepath.Join(directoryPath, utils.GitIgnoreFileName)
	nestedInformation, nestedStatError := os.Stat(nestedIgnorePath)
	if nestedStatError != nil {
		if errors.Is(nestedStatError, fs.ErrNotExist) {
			return patternSet, nil
		}
		return patternSet, fmt.Errorf(errorNestedIgnoreFormat, nestedIgnorePath, nestedStatError)
	}
	if !nestedInformation.Mode().IsRegular() {
		return patternSet, nil
	}
	nestedSet, loadError := ignore.Load(nestedIgnorePath)
	if loadError != nil {
		return patternSet, fmt.Errorf(errorNestedIgnoreFormat, nestedIgnorePath, loadError)
	}
	return patternSet.Extend(nestedSet.Patterns()...), nil
}

// rootDisplayName returns the base name shown on the first line. Relative roots
// such as "." are resolved against the working directory first. File system
// roots have no base name and render as an empty name.
func rootDisplayName(rootPath string) string {
	absoluteRoot, absoluteError := filepath.Abs(rootPath)
	if absoluteError != nil {
		absoluteRoot = filepath.Clean(rootPath)
	}
	baseName := filepath.Base(absoluteRoot)
	if baseName == string(filepath.Separator) || baseName == "." {
		return utils.EmptyString
	}
	return baseName
}
