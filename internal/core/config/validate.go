package config

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// executable lookup, file accessibility and glob syntax. The configPath argument
// specifies the config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateHidePatterns(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Refresh.Interval == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Refresh",
			Item:     "interval",
			Message:  "periodic refresh is disabled; the panel only updates on open, manual refresh and completion",
		})
	}

	if runtime.GOOS != "darwin" && c.Bridge.Interpreter == DefaultConfig().Bridge.Interpreter {
		warnings = append(warnings, ValidationWarning{
			Category: "Bridge",
			Item:     "interpreter",
			Message:  "osascript is only available on macOS",
		})
	}

	return warnings
}

// validateFileAccess checks config file, data directory, interpreter and script.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("bridge.interpreter", c.Bridge.Interpreter, executableExists),
		criterio.Run("bridge.script", c.Bridge.Script, isReadableFileOrEmpty),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// executableExists validates that the path resolves to an executable.
func executableExists(path string) error {
	if path == "" {
		return nil
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("executable not found: %s", path)
	}
	return nil
}

// isReadableFileOrEmpty validates an optional file path.
func isReadableFileOrEmpty(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("is a directory, not a file")
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// validateHidePatterns checks glob syntax of panel.hide entries.
func (c *Config) validateHidePatterns() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.Panel.Hide {
		if pattern == "" {
			errs = errs.Append(fmt.Sprintf("panel.hide[%d]", i), fmt.Errorf("pattern cannot be empty"))
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("panel.hide[%d]", i), fmt.Errorf("invalid glob %q", pattern))
		}
	}
	return errs.ToError()
}
