package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ComponentKey is the field that names the subsystem emitting a log line.
const ComponentKey = "cmp"

// Component returns the global logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return Sub(log.Logger, name)
}

// Sub tags an injected logger with a component name. Services that receive
// their logger as a dependency use this so tests can capture the output.
func Sub(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str(ComponentKey, name).Logger()
}
