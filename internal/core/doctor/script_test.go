package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptCheck_Present(t *testing.T) {
	path := filepath.Join(t.TempDir(), "things.js")
	require.NoError(t, os.WriteFile(path, []byte("// script"), 0o644))

	result := NewScriptCheck(path, func() error { return nil }, false).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, "bundled script", result.Items[0].Detail)
}

func TestScriptCheck_MissingBundledIsFixable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "things.js")

	result := NewScriptCheck(path, func() error { return nil }, false).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusFail, result.Items[0].Status)
	assert.True(t, result.Items[0].Fixable)
	assert.Equal(t, 1, CountFixable([]Result{result}))
}

func TestScriptCheck_MissingCustomIsNotFixable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.js")

	result := NewScriptCheck(path, nil, true).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusFail, result.Items[0].Status)
	assert.False(t, result.Items[0].Fixable)
}

func TestScriptCheck_Autofix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "things.js")
	extract := func() error { return os.WriteFile(path, []byte("// script"), 0o644) }

	result := NewScriptCheck(path, extract, true).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.FileExists(t, path)
}

func TestScriptCheck_AutofixFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "things.js")
	extract := func() error { return errors.New("read-only file system") }

	result := NewScriptCheck(path, extract, true).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusFail, result.Items[0].Status)
	assert.Contains(t, result.Items[0].Detail, "read-only")
}

func TestScriptCheck_Directory(t *testing.T) {
	result := NewScriptCheck(t.TempDir(), nil, false).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusFail, result.Items[0].Status)
	assert.Equal(t, "path is a directory", result.Items[0].Detail)
}
