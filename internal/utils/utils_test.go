package utils_test

import (
	"os/user"
	"path/filepath"
	"testing"

	"github.com/temirov/foldertree/internal/utils"
)

// relativeTestPath defines a plain relative path without a home shortcut.
const relativeTestPath = "test_dir/test_file"

// TestDeduplicatePatterns verifies that DeduplicatePatterns removes duplicate patterns.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{
			testName: "removes duplicates",
			patterns: []string{"a", "b", "a"},
			expected: []string{"a", "b"},
		},
		{
			testName: "keeps unique",
			patterns: []string{"a", "b"},
			expected: []string{"a", "b"},
		},
	}
	for index, testCase := range testCases {
		actual := utils.DeduplicatePatterns(testCase.patterns)
		if len(actual) != len(testCase.expected) {
			testingInstance.Errorf("case %d (%s): expected length %d, got %d", index, testCase.testName, len(testCase.expected), len(actual))
			continue
		}
		for position, value := range actual {
			if value != testCase.expected[position] {
				testingInstance.Errorf("case %d (%s): expected %s at position %d, got %s", index, testCase.testName, testCase.expected[position], position, value)
			}
		}
	}
}

// TestExpandUserPath verifies home shortcut resolution and pass-through of other paths.
func TestExpandUserPath(testingInstance *testing.T) {
	homeDirectory := testingInstance.TempDir()
	testingInstance.Setenv("HOME", homeDirectory)
	testingInstance.Setenv("USERPROFILE", homeDirectory)

	absoluteInput := filepath.Join(homeDirectory, "already", "absolute")
	testCases := []struct {
		testName string
		input    string
		expected string
	}{
		{testName: "relative path unchanged", input: relativeTestPath, expected: relativeTestPath},
		{testName: "absolute path unchanged", input: absoluteInput, expected: absoluteInput},
		{testName: "empty input", input: "", expected: ""},
		{testName: "bare shortcut", input: "~", expected: homeDirectory},
		{testName: "shortcut with trailing slash", input: "~/", expected: homeDirectory},
		{testName: "shortcut with path", input: "~/" + relativeTestPath, expected: filepath.Join(homeDirectory, "test_dir", "test_file")},
		{testName: "shortcut path is cleaned", input: "~/test_dir/../other", expected: filepath.Join(homeDirectory, "other")},
		{testName: "unknown user unchanged", input: "~no-such-user-foldertree/x", expected: "~no-such-user-foldertree/x"},
	}
	for _, testCase := range testCases {
		actual, expandError := utils.ExpandUserPath(testCase.input)
		if expandError != nil {
			testingInstance.Errorf("%s: unexpected error: %v", testCase.testName, expandError)
			continue
		}
		if actual != testCase.expected {
			testingInstance.Errorf("%s: expected %q, got %q", testCase.testName, testCase.expected, actual)
		}
	}
}

// TestExpandUserPathNamedUser verifies "~name" resolution for the current user.
func TestExpandUserPathNamedUser(testingInstance *testing.T) {
	currentUser, lookupError := user.Current()
	if lookupError != nil || currentUser.Username == "" || currentUser.HomeDir == "" {
		testingInstance.Skip("current user is not resolvable")
	}
	if filepath.Base(currentUser.Username) != currentUser.Username {
		testingInstance.Skip("user name contains a path separator")
	}
	actual, expandError := utils.ExpandUserPath("~" + currentUser.Username + "/notes")
	if expandError != nil {
		testingInstance.Fatalf("unexpected error: %v", expandError)
	}
	expected, _ := filepath.Abs(filepath.Join(currentUser.HomeDir, "notes"))
	if actual != expected {
		testingInstance.Fatalf("expected %q, got %q", expected, actual)
	}
}
