package doctor

import (
	"context"
	"fmt"
	"os"
)

// ScriptCheck verifies the bridge script is present. A missing bundled script
// is fixable by re-extracting it.
type ScriptCheck struct {
	path    string
	bundled bool
	extract func() error
	autofix bool
}

// NewScriptCheck creates a script check for path. extract restores the
// bundled script; it is nil when the user configured their own script.
func NewScriptCheck(path string, extract func() error, autofix bool) *ScriptCheck {
	return &ScriptCheck{
		path:    path,
		bundled: extract != nil,
		extract: extract,
		autofix: autofix,
	}
}

func (c *ScriptCheck) Name() string {
	return "Bridge Script"
}

func (c *ScriptCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	info, err := os.Stat(c.path)
	switch {
	case os.IsNotExist(err) && c.bundled && c.autofix:
		if ferr := c.extract(); ferr != nil {
			result.Items = append(result.Items, CheckItem{
				Label:  c.path,
				Status: StatusFail,
				Detail: fmt.Sprintf("re-extract failed: %v", ferr),
			})
			return result
		}
		result.Items = append(result.Items, CheckItem{
			Label:  c.path,
			Status: StatusPass,
			Detail: "re-extracted bundled script",
		})
	case os.IsNotExist(err):
		result.Items = append(result.Items, CheckItem{
			Label:   c.path,
			Status:  StatusFail,
			Detail:  "script does not exist",
			Fixable: c.bundled,
		})
	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  c.path,
			Status: StatusFail,
			Detail: fmt.Sprintf("inaccessible: %v", err),
		})
	case info.IsDir():
		result.Items = append(result.Items, CheckItem{
			Label:  c.path,
			Status: StatusFail,
			Detail: "path is a directory",
		})
	default:
		detail := "custom script"
		if c.bundled {
			detail = "bundled script"
		}
		result.Items = append(result.Items, CheckItem{
			Label:  c.path,
			Status: StatusPass,
			Detail: detail,
		})
	}

	return result
}
