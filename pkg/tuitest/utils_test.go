package tuitest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	in := "\x1b[1mThings3\x1b[0m   \n\x1b[4mthings:///show?id=today\x1b[0m\n\n"
	assert.Equal(t, "Things3\nthings:///show?id=today", StripANSI(in))
}

func TestKeyPress_String(t *testing.T) {
	assert.Equal(t, "j", KeyPress('j').(interface{ String() string }).String())
	assert.Equal(t, "space", KeySpace().(interface{ String() string }).String())
	assert.Equal(t, "enter", KeyEnter().(interface{ String() string }).String())
	assert.Equal(t, "esc", KeyEsc().(interface{ String() string }).String())
}
