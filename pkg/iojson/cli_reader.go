package iojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrNoInput is returned when no file is given and stdin is an interactive
// terminal.
var ErrNoInput = errors.New("no input provided (stdin is a terminal); use -f flag or pipe JSON input")

// FileReader decodes a single JSON document of type T from the --file flag
// or, when the flag is empty, from stdin. Unknown fields are rejected.
type FileReader[T any] struct {
	path string
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to JSON file (reads from stdin if not provided)",
		TakesFile:   true,
		Destination: &fr.path,
	}
}

// Read decodes from the flag's file or from stdin.
func (fr *FileReader[T]) Read(stdin io.Reader) (T, error) {
	var zero T

	if fr.path != "" {
		f, err := os.Open(fr.path)
		if err != nil {
			return zero, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return Decode[T](f)
	}

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return zero, ErrNoInput
	}
	return Decode[T](stdin)
}

// Decode reads exactly one JSON value of type T from r.
func Decode[T any](r io.Reader) (T, error) {
	var v T

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return v, errors.New("decode JSON: empty input")
		}
		return v, fmt.Errorf("decode JSON: %w", err)
	}
	if dec.More() {
		return v, errors.New("decode JSON: trailing data after value")
	}

	return v, nil
}
