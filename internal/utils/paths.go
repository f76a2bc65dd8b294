package utils

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// homeDirectoryShortcut marks a path relative to a user's home directory.
const homeDirectoryShortcut = "~"

const errorResolveHomeFormat = "resolve home directory for %s: %w"

// ExpandUserPath resolves a leading "~" or "~name" to the matching home directory
// and returns the absolute, cleaned result. Paths without the shortcut, including
// the empty string, are returned unchanged. An unknown user name leaves the path
// untouched.
func ExpandUserPath(path string) (string, error) {
	if !strings.HasPrefix(path, homeDirectoryShortcut) {
		return path, nil
	}

	remainder := strings.TrimPrefix(path, homeDirectoryShortcut)
	userName := remainder
	trailingPath := EmptyString
	if separatorIndex := strings.IndexAny(remainder, "/"+string(filepath.Separator)); separatorIndex >= 0 {
		userName = remainder[:separatorIndex]
		trailingPath = remainder[separatorIndex+1:]
	}

	var homeDirectory string
	if userName == EmptyString {
		currentHome, homeError := os.UserHomeDir()
		if homeError != nil {
			return EmptyString, fmt.Errorf(errorResolveHomeFormat, path, homeError)
		}
		homeDirectory = currentHome
	} else {
		namedUser, lookupError := user.Lookup(userName)
		if lookupError != nil {
			return path, nil
		}
		homeDirectory = namedUser.HomeDir
	}

	absolutePath, absoluteError := filepath.Abs(filepath.Join(homeDirectory, trailingPath))
	if absoluteError != nil {
		return EmptyString, fmt.Errorf(errorResolveHomeFormat, path, absoluteError)
	}
	return absolutePath, nil
}
