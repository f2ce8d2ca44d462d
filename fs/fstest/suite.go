// Package fstest provides a conformance test suite for fs.Filesystem
// implementations used as download destinations.
//
// Example usage:
//
//	func TestMyFS(t *testing.T) {
//	    fstest.TestSuite(t, func() (fs.Filesystem, string) {
//	        return myfs.New(), "/"
//	    })
//	}
package fstest

import (
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/collector/fs"
)

// Factory returns a fresh, empty filesystem and the directory tests may write under.
type Factory func() (fs.Filesystem, string)

// TestSuite runs all conformance tests against a filesystem.
// The factory is invoked once per group so each group starts clean.
func TestSuite(t *testing.T, newFS Factory) {
	TestSuiteWithSkip(t, newFS, nil)
}

// TestSuiteWithSkip runs conformance tests with optional test skipping.
// The skipTests parameter is a slice of group names to skip (e.g., "ManageFS").
func TestSuiteWithSkip(t *testing.T, newFS Factory, skipTests []string) {
	shouldSkip := func(testName string) bool {
		for _, skip := range skipTests {
			if skip == testName {
				return true
			}
		}
		return false
	}

	groups := []struct {
		name string
		run  func(*testing.T, fs.Filesystem, string)
	}{
		{"ReadFS", TestReadFS},
		{"WriteFS", TestWriteFS},
		{"ManageFS", TestManageFS},
	}

	for _, g := range groups {
		t.Run(g.name, func(t *testing.T) {
			if shouldSkip(g.name) {
				t.Skip("Skipped by provider configuration")
				return
			}
			filesystem, root := newFS()
			g.run(t, filesystem, root)
		})
	}
}
