package doctor

import (
	"context"
	"os/exec"
)

// lookPathFunc is the function used to find executables on PATH.
// Package-level variable to allow test overrides.
var lookPathFunc = exec.LookPath

// ToolsCheck verifies that the bridge interpreter and the deep link opener
// are available on $PATH.
type ToolsCheck struct {
	interpreter string
	opener      string
}

// NewToolsCheck creates a new tools check.
func NewToolsCheck(interpreter, opener string) *ToolsCheck {
	return &ToolsCheck{interpreter: interpreter, opener: opener}
}

func (c *ToolsCheck) Name() string {
	return "Dependencies"
}

func (c *ToolsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	// The interpreter runs every bridge call.
	if path, err := lookPathFunc(c.interpreter); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.interpreter,
			Status: StatusFail,
			Detail: "not found on PATH",
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  c.interpreter,
			Status: StatusPass,
			Detail: path,
		})
	}

	// The opener is only needed to reveal tasks in Things.
	if path, err := lookPathFunc(c.opener); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.opener,
			Status: StatusWarn,
			Detail: "not found on PATH (required to open tasks in Things)",
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  c.opener,
			Status: StatusPass,
			Detail: path,
		})
	}

	return result
}
