// Package scripts embeds and extracts the bundled Things bridge script.
package scripts

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
)

//go:embed bin/*
var binFS embed.FS

// ThingsScript is the file name of the bundled bridge script.
const ThingsScript = "things.js"

// BinDir returns the path to the extracted scripts directory.
func BinDir(dataDir string) string {
	return filepath.Join(dataDir, "bin")
}

// ThingsScriptPath returns where the bridge script is extracted to.
func ThingsScriptPath(dataDir string) string {
	return filepath.Join(BinDir(dataDir), ThingsScript)
}

// EnsureExtracted writes bundled scripts to $dataDir/bin/ when the version changes.
// A .version marker file tracks the last extracted version. Builds without a
// semantic version ("dev", commit hashes) always re-extract so edits to the
// bundled script take effect.
func EnsureExtracted(dataDir, version string) error {
	dir := BinDir(dataDir)
	marker := filepath.Join(dir, ".version")

	if release, ok := releaseVersion(version); ok {
		if data, err := os.ReadFile(marker); err == nil {
			if prev, ok := releaseVersion(string(data)); ok && semver.Compare(prev, release) == 0 {
				if _, err := os.Stat(ThingsScriptPath(dataDir)); err == nil {
					return nil
				}
			}
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create bin dir: %w", err)
	}

	entries, err := fs.ReadDir(binFS, "bin")
	if err != nil {
		return fmt.Errorf("read embedded bin: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		content, err := binFS.ReadFile("bin/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read embedded %s: %w", entry.Name(), err)
		}

		dest := filepath.Join(dir, entry.Name())
		if err := os.WriteFile(dest, content, 0o755); err != nil {
			return fmt.Errorf("write %s: %w", entry.Name(), err)
		}
	}

	if err := os.WriteFile(marker, []byte(version), 0o644); err != nil {
		return fmt.Errorf("write version marker: %w", err)
	}

	return nil
}

// releaseVersion normalizes v to the "vMAJOR.MINOR.PATCH" form semver expects.
// It reports false for anything that is not a release version.
func releaseVersion(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", false
	}
	return semver.Canonical(v), true
}
