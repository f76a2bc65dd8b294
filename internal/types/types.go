// Package types defines the cross-package data structures used by the foldertree CLI.
package types

import (
	"errors"
	"fmt"
)

// Node kinds of rendered entries.
const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
)

var (
	// ErrInvalidDirectory is wrapped by InvalidPathError when a root path is not a directory.
	ErrInvalidDirectory = errors.New("invalid directory")
	// ErrInvalidIgnoreFile is wrapped by InvalidPathError when an ignore file path is not a regular file.
	ErrInvalidIgnoreFile = errors.New("invalid ignore file")
)

const invalidPathMessageFormat = "%s is not a valid %s"

// InvalidPathError reports a user-supplied path that failed validation before traversal.
type InvalidPathError struct {
	Path string
	Kind string
}

// NewInvalidDirectoryError reports that path does not reference an existing directory.
func NewInvalidDirectoryError(path string) *InvalidPathError {
	return &InvalidPathError{Path: path, Kind: NodeTypeDirectory}
}

// NewInvalidIgnoreFileError reports that path does not reference an existing regular file.
func NewInvalidIgnoreFileError(path string) *InvalidPathError {
	return &InvalidPathError{Path: path, Kind: NodeTypeFile}
}

func (pathError *InvalidPathError) Error() string {
	return fmt.Sprintf(invalidPathMessageFormat, pathError.Path, pathError.Kind)
}

// Unwrap exposes the sentinel matching the error kind.
func (pathError *InvalidPathError) Unwrap() error {
	if pathError.Kind == NodeTypeDirectory {
		return ErrInvalidDirectory
	}
	return ErrInvalidIgnoreFile
}

// TreeSummary captures aggregate information about a rendered tree.
type TreeSummary struct {
	Directories int    `json:"directories"`
	Files       int    `json:"files"`
	Tokens      int    `json:"tokens,omitempty"`
	Model       string `json:"model,omitempty"`
}
